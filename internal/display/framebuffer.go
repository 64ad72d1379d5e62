package display

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	senseHatFBName      = "RPi-Sense FB"
	graphicsClassGlob   = "/sys/class/graphics/fb*"
	defaultScrollDelay  = 100 * time.Millisecond
	bytesPerFramebuffer = Pixels * 2
)

// Framebuffer drives the Sense HAT LED matrix through its RGB565 framebuffer.
type Framebuffer struct {
	dev         io.WriterAt
	scrollDelay time.Duration
	sleep       func(time.Duration)
}

func NewFramebuffer(dev io.WriterAt) *Framebuffer {
	return &Framebuffer{dev: dev, scrollDelay: defaultScrollDelay, sleep: time.Sleep}
}

// OpenFramebuffer finds the framebuffer registered by the Sense HAT driver.
func OpenFramebuffer() (*Framebuffer, error) {
	path, err := findSenseHatFB(graphicsClassGlob)
	if err != nil {
		return nil, &DisplayError{Op: "open", Err: err}
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, &DisplayError{Op: "open", Err: err}
	}
	return NewFramebuffer(f), nil
}

func findSenseHatFB(glob string) (string, error) {
	dirs, err := filepath.Glob(glob)
	if err != nil {
		return "", err
	}
	for _, dir := range dirs {
		name, err := os.ReadFile(filepath.Join(dir, "name"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(name)) == senseHatFBName {
			return filepath.Join("/dev", filepath.Base(dir)), nil
		}
	}
	return "", errors.New("no Sense HAT framebuffer found")
}

func (f *Framebuffer) SetPixels(pixels []RGB) error {
	if err := checkFrame(pixels); err != nil {
		return err
	}
	if _, err := f.dev.WriteAt(encodeRGB565(pixels), 0); err != nil {
		return &DisplayError{Op: "set pixels", Err: err}
	}
	return nil
}

// ShowMessage scrolls text right to left and blocks until it has gone by.
func (f *Framebuffer) ShowMessage(text string, fg, bg RGB) error {
	for _, frame := range bannerFrames(text, fg, bg) {
		if err := f.SetPixels(frame); err != nil {
			return fmt.Errorf("show message: %w", err)
		}
		f.sleep(f.scrollDelay)
	}
	return nil
}

func (f *Framebuffer) Clear() error {
	return f.SetPixels(solid(Black))
}

func (f *Framebuffer) Close() error {
	if c, ok := f.dev.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func encodeRGB565(pixels []RGB) []byte {
	buf := make([]byte, bytesPerFramebuffer)
	for i, p := range pixels {
		v := uint16(p.R>>3)<<11 | uint16(p.G>>2)<<5 | uint16(p.B>>3)
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	return buf
}
