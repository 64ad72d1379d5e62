package display

import "strings"

// 3x5 glyphs, one string per row, '#' lit. Letters are upper-cased first.
var font = map[rune][5]string{
	'A': {"###", "#.#", "###", "#.#", "#.#"},
	'B': {"##.", "#.#", "##.", "#.#", "##."},
	'C': {"###", "#..", "#..", "#..", "###"},
	'D': {"##.", "#.#", "#.#", "#.#", "##."},
	'E': {"###", "#..", "##.", "#..", "###"},
	'F': {"###", "#..", "##.", "#..", "#.."},
	'G': {"###", "#..", "#.#", "#.#", "###"},
	'H': {"#.#", "#.#", "###", "#.#", "#.#"},
	'I': {"###", ".#.", ".#.", ".#.", "###"},
	'J': {"..#", "..#", "..#", "#.#", "###"},
	'K': {"#.#", "#.#", "##.", "#.#", "#.#"},
	'L': {"#..", "#..", "#..", "#..", "###"},
	'M': {"#.#", "###", "###", "#.#", "#.#"},
	'N': {"##.", "#.#", "#.#", "#.#", "#.#"},
	'O': {"###", "#.#", "#.#", "#.#", "###"},
	'P': {"###", "#.#", "###", "#..", "#.."},
	'Q': {"###", "#.#", "#.#", "###", "..#"},
	'R': {"##.", "#.#", "##.", "#.#", "#.#"},
	'S': {"###", "#..", "###", "..#", "###"},
	'T': {"###", ".#.", ".#.", ".#.", ".#."},
	'U': {"#.#", "#.#", "#.#", "#.#", "###"},
	'V': {"#.#", "#.#", "#.#", "#.#", ".#."},
	'W': {"#.#", "#.#", "###", "###", "#.#"},
	'X': {"#.#", "#.#", ".#.", "#.#", "#.#"},
	'Y': {"#.#", "#.#", ".#.", ".#.", ".#."},
	'Z': {"###", "..#", ".#.", "#..", "###"},
	'0': {"###", "#.#", "#.#", "#.#", "###"},
	'1': {".#.", "##.", ".#.", ".#.", "###"},
	'2': {"###", "..#", "###", "#..", "###"},
	'3': {"###", "..#", "###", "..#", "###"},
	'4': {"#.#", "#.#", "###", "..#", "..#"},
	'5': {"###", "#..", "###", "..#", "###"},
	'6': {"###", "#..", "###", "#.#", "###"},
	'7': {"###", "..#", "..#", "..#", "..#"},
	'8': {"###", "#.#", "###", "#.#", "###"},
	'9': {"###", "#.#", "###", "..#", "###"},
	' ': {"...", "...", "...", "...", "..."},
	'.': {"...", "...", "...", "...", ".#."},
	'-': {"...", "...", "###", "...", "..."},
	'!': {".#.", ".#.", ".#.", "...", ".#."},
	'?': {"###", "..#", ".##", "...", ".#."},
	'°': {"##.", "##.", "...", "...", "..."},
}

const fontTop = 1 // first matrix row used by glyphs

// textColumns lays text out as lit/unlit columns, one blank column between
// glyphs and a full blank screen on either side so the banner scrolls in
// and out. Unknown runes render as '?'.
func textColumns(text string) [][Height]bool {
	cols := make([][Height]bool, Width, Width*2+len(text)*4)
	for _, ch := range strings.ToUpper(text) {
		g, ok := font[ch]
		if !ok {
			g = font['?']
		}
		for x := 0; x < 3; x++ {
			var col [Height]bool
			for y, row := range g {
				col[fontTop+y] = row[x] == '#'
			}
			cols = append(cols, col)
		}
		cols = append(cols, [Height]bool{})
	}
	return append(cols, make([][Height]bool, Width)...)
}

// bannerFrames returns every 8-column window of the scrolled text.
func bannerFrames(text string, fg, bg RGB) [][]RGB {
	cols := textColumns(text)
	frames := make([][]RGB, 0, len(cols)-Width+1)
	for start := 0; start+Width <= len(cols); start++ {
		frame := make([]RGB, Pixels)
		for x := 0; x < Width; x++ {
			col := cols[start+x]
			for y := 0; y < Height; y++ {
				if col[y] {
					frame[y*Width+x] = fg
				} else {
					frame[y*Width+x] = bg
				}
			}
		}
		frames = append(frames, frame)
	}
	return frames
}

func solid(c RGB) []RGB {
	frame := make([]RGB, Pixels)
	for i := range frame {
		frame[i] = c
	}
	return frame
}
