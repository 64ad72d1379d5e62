package station

import "weatherhat/internal/display"

type Trend int

const (
	Unchanged Trend = iota
	Increasing
	Decreasing
)

func (t Trend) String() string {
	switch t {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	default:
		return "unchanged"
	}
}

// Glyph is the bitmap shown on the matrix for t.
func (t Trend) Glyph() []display.RGB {
	switch t {
	case Increasing:
		return display.ArrowUp
	case Decreasing:
		return display.ArrowDown
	default:
		return display.Bars
	}
}

// TrendOf compares two reported Fahrenheit values. Both are already rounded
// to one decimal, so plain comparison is exact enough.
func TrendOf(last, current float64) Trend {
	switch {
	case current > last:
		return Increasing
	case current < last:
		return Decreasing
	default:
		return Unchanged
	}
}
