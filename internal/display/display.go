// Package display drives the 8x8 LED matrix: whole-frame pixel writes,
// scrolling text banners and clearing.
package display

import "fmt"

const (
	Width  = 8
	Height = 8
	Pixels = Width * Height
)

// RGB is one LED colour.
type RGB struct {
	R, G, B uint8
}

var (
	Black  = RGB{}
	Red    = RGB{R: 255}
	Blue   = RGB{B: 255}
	Yellow = RGB{R: 255, G: 255}
)

// Matrix is implemented by Framebuffer and Terminal.
type Matrix interface {
	SetPixels(pixels []RGB) error
	ShowMessage(text string, fg, bg RGB) error
	Clear() error
	Close() error
}

// DisplayError wraps any failure to write to the matrix.
type DisplayError struct {
	Op  string
	Err error
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("display %s: %v", e.Op, e.Err)
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}

func checkFrame(pixels []RGB) error {
	if len(pixels) != Pixels {
		return &DisplayError{Op: "set pixels", Err: fmt.Errorf("got %d pixels, want %d", len(pixels), Pixels)}
	}
	return nil
}
