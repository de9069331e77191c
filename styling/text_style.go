package styling

import (
	"github.com/jamesrr39/goutil/errorsx"
)

const (
	DefaultFontName = "Go Regular"
	DefaultFontSize = 30
)

type TextStyle struct {
	FontName   string
	Size       float64 // pixels
	FillColor  Color
	HaloColor  Color
	HaloRadius float64
}

// DefaultTextStyle returns a new copy of the default text style each time it is called
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontName:   DefaultFontName,
		Size:       DefaultFontSize,
		FillColor:  White,
		HaloColor:  Black,
		HaloRadius: 0,
	}
}

// NewTextStyle builds a text style. Empty/zero/nil arguments fall back to the defaults.
func NewTextStyle(fontName string, size float64, fillColor, haloColor *Color, haloRadius float64) (TextStyle, errorsx.Error) {
	style := DefaultTextStyle()

	if size < 0 {
		return style, errorsx.Errorf("font size must not be negative, but was %f", size)
	}

	if haloRadius < 0 {
		return style, errorsx.Errorf("halo radius must not be negative, but was %f", haloRadius)
	}

	if fontName != "" {
		style.FontName = fontName
	}
	if size != 0 {
		style.Size = size
	}
	if fillColor != nil {
		style.FillColor = *fillColor
	}
	if haloColor != nil {
		style.HaloColor = *haloColor
	}
	style.HaloRadius = haloRadius

	return style, nil
}
