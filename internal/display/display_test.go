package display

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type memFB struct {
	buf    [bytesPerFramebuffer]byte
	writes int
	err    error
}

func (m *memFB) WriteAt(p []byte, off int64) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.writes++
	return copy(m.buf[off:], p), nil
}

func TestGlyphs_AreFullFrames(t *testing.T) {
	for name, g := range map[string][]RGB{"up": ArrowUp, "down": ArrowDown, "bars": Bars} {
		if len(g) != Pixels {
			t.Errorf("%s has %d pixels, want %d", name, len(g), Pixels)
		}
	}
	if ArrowUp[3] != Red || ArrowUp[0] != Black {
		t.Errorf("ArrowUp top row = %v", ArrowUp[:8])
	}
	if ArrowDown[63-3] != Blue {
		t.Errorf("ArrowDown tip = %v, want blue", ArrowDown[60])
	}
	if Bars[16] != Red || Bars[32] != Blue {
		t.Errorf("Bars rows = %v / %v", Bars[16], Bars[32])
	}
}

func TestFramebuffer_SetPixels(t *testing.T) {
	dev := &memFB{}
	fb := NewFramebuffer(dev)

	frame := solid(Black)
	frame[0] = Red
	frame[1] = RGB{G: 255}
	frame[63] = Blue
	if err := fb.SetPixels(frame); err != nil {
		t.Fatalf("SetPixels() error = %v", err)
	}

	if got := []byte{dev.buf[0], dev.buf[1]}; !bytes.Equal(got, []byte{0x00, 0xF8}) {
		t.Errorf("red = % x, want 00 f8", got)
	}
	if got := []byte{dev.buf[2], dev.buf[3]}; !bytes.Equal(got, []byte{0xE0, 0x07}) {
		t.Errorf("green = % x, want e0 07", got)
	}
	if got := []byte{dev.buf[126], dev.buf[127]}; !bytes.Equal(got, []byte{0x1F, 0x00}) {
		t.Errorf("blue = % x, want 1f 00", got)
	}
}

func TestFramebuffer_Errors(t *testing.T) {
	fb := NewFramebuffer(&memFB{})
	var dispErr *DisplayError
	if err := fb.SetPixels(make([]RGB, 10)); !errors.As(err, &dispErr) {
		t.Errorf("SetPixels(10 pixels) error = %v, want *DisplayError", err)
	}

	fb = NewFramebuffer(&memFB{err: errors.New("device gone")})
	if err := fb.Clear(); !errors.As(err, &dispErr) {
		t.Errorf("Clear() error = %v, want *DisplayError", err)
	}
}

func TestFramebuffer_ShowMessageScrolls(t *testing.T) {
	dev := &memFB{}
	fb := NewFramebuffer(dev)
	var slept time.Duration
	fb.sleep = func(d time.Duration) { slept += d }

	if err := fb.ShowMessage("Init", Yellow, Blue); err != nil {
		t.Fatalf("ShowMessage() error = %v", err)
	}

	// 8 blank + 4 glyphs * 4 columns + 8 blank = 32 columns -> 25 windows
	if dev.writes != 25 {
		t.Errorf("writes = %d, want 25", dev.writes)
	}
	if slept != 25*defaultScrollDelay {
		t.Errorf("slept = %v, want %v", slept, 25*defaultScrollDelay)
	}
}

func TestBannerFrames_FirstGlyphEntersFromRight(t *testing.T) {
	frames := bannerFrames("I", Yellow, Blue)
	if len(frames) != 13 {
		t.Fatalf("frames = %d, want 13", len(frames))
	}
	for _, p := range frames[0] {
		if p != Blue {
			t.Fatalf("first frame should be background only")
		}
	}
	// one step in, the glyph's left column sits at x=7; 'I' has its top row lit
	if got := frames[1][fontTop*Width+7]; got != Yellow {
		t.Errorf("pixel = %v, want foreground", got)
	}
}

func TestFindSenseHatFB(t *testing.T) {
	root := t.TempDir()
	for name, id := range map[string]string{"fb0": "BCM2708 FB", "fb1": senseHatFBName + "\n"} {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "name"), []byte(id), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := findSenseHatFB(filepath.Join(root, "fb*"))
	if err != nil {
		t.Fatalf("findSenseHatFB() error = %v", err)
	}
	if got != "/dev/fb1" {
		t.Errorf("findSenseHatFB() = %q, want /dev/fb1", got)
	}

	if _, err := findSenseHatFB(filepath.Join(root, "nothing*")); err == nil {
		t.Errorf("findSenseHatFB(no match) error = nil")
	}
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	if err := term.ShowMessage("Init", Yellow, Blue); err != nil {
		t.Fatalf("ShowMessage() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Init") {
		t.Errorf("output = %q, want banner text", buf.String())
	}

	buf.Reset()
	if err := term.SetPixels(ArrowUp); err != nil {
		t.Fatalf("SetPixels() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != Height {
		t.Fatalf("lines = %d, want %d", len(lines), Height)
	}
	if n := strings.Count(lines[0], "██"); n != Width {
		t.Errorf("row blocks = %d, want %d", n, Width)
	}

	if err := term.SetPixels(nil); err == nil {
		t.Errorf("SetPixels(nil) error = nil")
	}
}

var (
	_ Matrix = (*Framebuffer)(nil)
	_ Matrix = (*Terminal)(nil)
)
