package mapmodel

import (
	"errors"

	"github.com/jamesrr39/goutil/errorsx"
)

var ErrDegenerateView = errors.New("DegenerateView: view has zero width or height")

// PostProcessFunc is run on the written artifact, after the file has been closed
type PostProcessFunc func(path string) errorsx.Error

// MapView is the geographic box (in degrees) and the canvas size (in pixels) of a map
type MapView struct {
	West  float64
	East  float64
	South float64
	North float64

	Width  int
	Height int

	Transform PostProcessFunc
}

func NewMapView(west, east, south, north float64, width, height int) (*MapView, errorsx.Error) {
	view := &MapView{
		West:   west,
		East:   east,
		South:  south,
		North:  north,
		Width:  width,
		Height: height,
	}

	err := view.Validate()
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (v *MapView) Validate() errorsx.Error {
	if v.West == v.East || v.North == v.South {
		return errorsx.Wrap(ErrDegenerateView, "west", v.West, "east", v.East, "south", v.South, "north", v.North)
	}

	if v.Width <= 0 || v.Height <= 0 {
		return errorsx.Errorf("canvas size must be positive, but was %dx%d", v.Width, v.Height)
	}

	return nil
}
