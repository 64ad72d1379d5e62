package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal renders the matrix as coloured blocks for runs without a Sense HAT.
type Terminal struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, renderer: lipgloss.NewRenderer(w)}
}

func (t *Terminal) style(fg, bg RGB) lipgloss.Style {
	return t.renderer.NewStyle().
		Foreground(lipgloss.Color(hex(fg))).
		Background(lipgloss.Color(hex(bg)))
}

func (t *Terminal) SetPixels(pixels []RGB) error {
	if err := checkFrame(pixels); err != nil {
		return err
	}
	var sb strings.Builder
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			p := pixels[y*Width+x]
			sb.WriteString(t.style(p, Black).Render("██"))
		}
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(t.w, sb.String()); err != nil {
		return &DisplayError{Op: "set pixels", Err: err}
	}
	return nil
}

func (t *Terminal) ShowMessage(text string, fg, bg RGB) error {
	if _, err := fmt.Fprintln(t.w, t.style(fg, bg).Padding(0, 1).Render(text)); err != nil {
		return &DisplayError{Op: "show message", Err: err}
	}
	return nil
}

func (t *Terminal) Clear() error {
	return t.SetPixels(solid(Black))
}

func (t *Terminal) Close() error {
	return nil
}

func hex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
