package styling

import (
	"github.com/jamesrr39/goutil/errorsx"
)

// DashPattern is a repeating "draw Length, skip Gap" pattern, in nominal pixels
type DashPattern struct {
	Length float64
	Gap    float64
}

// Array returns the pattern in the form the drawing libraries expect
func (dp *DashPattern) Array() []float64 {
	if dp == nil {
		return nil
	}
	return []float64{dp.Length, dp.Gap}
}

type LineFormat struct {
	Color Color
	Width float64
	Dash  *DashPattern
}

func NewLineFormat(lineColor Color, width float64, dash *DashPattern) (*LineFormat, errorsx.Error) {
	if width < 0 {
		return nil, errorsx.Errorf("line width must not be negative, but was %f", width)
	}

	if dash != nil && (dash.Length <= 0 || dash.Gap < 0) {
		return nil, errorsx.Errorf("invalid dash pattern: length %f, gap %f", dash.Length, dash.Gap)
	}

	return &LineFormat{
		Color: lineColor,
		Width: width,
		Dash:  dash,
	}, nil
}
