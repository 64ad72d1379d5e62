package display

var ArrowUp = bitmap(
	"...rr...",
	"..rrrr..",
	".r.rr.r.",
	"r..rr..r",
	"...rr...",
	"...rr...",
	"...rr...",
	"...rr...",
)

var ArrowDown = bitmap(
	"...bb...",
	"...bb...",
	"...bb...",
	"...bb...",
	"b..bb..b",
	".b.bb.b.",
	"..bbbb..",
	"...bb...",
)

// Bars is shown when the temperature has not moved.
var Bars = bitmap(
	"........",
	"........",
	"rrrrrrrr",
	"rrrrrrrr",
	"bbbbbbbb",
	"bbbbbbbb",
	"........",
	"........",
)

// bitmap builds a frame from eight rows: 'r' red, 'b' blue, anything else off.
func bitmap(rows ...string) []RGB {
	frame := make([]RGB, 0, Pixels)
	for _, row := range rows {
		for _, c := range row {
			switch c {
			case 'r':
				frame = append(frame, Red)
			case 'b':
				frame = append(frame, Blue)
			default:
				frame = append(frame, Black)
			}
		}
	}
	return frame
}
