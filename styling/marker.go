package styling

import (
	"errors"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
)

var ErrUnknownShape = errors.New("unknown marker shape")

type Shape int

const (
	ShapeCircle Shape = iota + 1
	ShapeSquare
	ShapeTriangle
)

var shapeNames = map[Shape]string{
	ShapeCircle:   "circle",
	ShapeSquare:   "square",
	ShapeTriangle: "triangle",
}

func (s Shape) String() string {
	name, ok := shapeNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

func ParseShape(name string) (Shape, errorsx.Error) {
	for shape, shapeName := range shapeNames {
		if strings.EqualFold(shapeName, name) {
			return shape, nil
		}
	}

	return 0, errorsx.Wrap(ErrUnknownShape, "shape", name)
}

// TitleMode controls where (and if) a marker's title is drawn
type TitleMode int

const (
	TitleModeNone TitleMode = iota
	TitleModeInsideSymbol
	TitleModeNextToSymbol
)

func ParseTitleMode(name string) (TitleMode, errorsx.Error) {
	switch strings.ToLower(name) {
	case "", "none":
		return TitleModeNone, nil
	case "inside", "inside-symbol":
		return TitleModeInsideSymbol, nil
	case "next", "next-to-symbol":
		return TitleModeNextToSymbol, nil
	default:
		return TitleModeNone, errorsx.Errorf("unknown title mode: %q", name)
	}
}

// DefaultMarkerRadius is in nominal (not supersampled) pixels
const DefaultMarkerRadius = 10

type Marker struct {
	// ID groups markers for styling and the legend
	ID        string
	Shape     Shape
	FillColor Color
	// Scale is the symbol radius in nominal pixels. 0 means DefaultMarkerRadius.
	Scale     float64
	TextStyle TextStyle
	TitleMode TitleMode
	Line      *LineFormat
	// Label is shown in the legend. Markers without a label are left out of the legend.
	Label string
}

// NewMarker returns a circle marker with the default text style
func NewMarker(id string, fillColor Color, label string) *Marker {
	return &Marker{
		ID:        id,
		Shape:     ShapeCircle,
		FillColor: fillColor,
		TextStyle: DefaultTextStyle(),
		TitleMode: TitleModeNone,
		Label:     label,
	}
}

func (m *Marker) Radius() float64 {
	if m.Scale == 0 {
		return DefaultMarkerRadius
	}
	return m.Scale
}
