package mapmodel

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/smappy/styling"
)

type PositionedMarker struct {
	Lat    float64
	Lng    float64
	Title  string
	Marker *styling.Marker
	// Data is carried along for other map backends. It is not used for rendering.
	Data interface{}
}

type TextLabel struct {
	Text  string
	Lat   float64
	Lng   float64
	Style styling.TextStyle
}

type VerticalPosition string

const (
	VerticalPositionTop    VerticalPosition = "top"
	VerticalPositionBottom VerticalPosition = "bottom"
)

type HorizontalPosition string

const (
	HorizontalPositionLeft  HorizontalPosition = "left"
	HorizontalPositionRight HorizontalPosition = "right"
)

type Legend struct {
	Vertical   VerticalPosition
	Horizontal HorizontalPosition
	Scale      float64
	// SortKey orders the legend symbols, if set. Otherwise they are shown in the order they were added.
	SortKey func(marker *styling.Marker) string
}

// DefaultLegend returns a new top-right legend at scale 1
func DefaultLegend() *Legend {
	return &Legend{
		Vertical:   VerticalPositionTop,
		Horizontal: HorizontalPositionRight,
		Scale:      1,
	}
}

func (l *Legend) Validate() errorsx.Error {
	switch l.Vertical {
	case VerticalPositionTop, VerticalPositionBottom:
	default:
		return errorsx.Errorf("legend vertical position must be %q or %q, but was %q", VerticalPositionTop, VerticalPositionBottom, l.Vertical)
	}

	switch l.Horizontal {
	case HorizontalPositionLeft, HorizontalPositionRight:
	default:
		return errorsx.Errorf("legend horizontal position must be %q or %q, but was %q", HorizontalPositionLeft, HorizontalPositionRight, l.Horizontal)
	}

	if l.Scale <= 0 {
		return errorsx.Errorf("legend scale must be positive, but was %f", l.Scale)
	}

	return nil
}
