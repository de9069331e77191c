package mapmodel

import (
	"fmt"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/smappy/styling"
)

// Layer is either a *ShapeLayer or a *RasterLayer
type Layer interface {
	isLayer()
}

type ShapeLayer struct {
	GeometryFile string
	Line         *styling.LineFormat
	FillColor    *styling.Color
	// FillOpacity between 0 and 1. Only used when FillColor is set; 0 is treated as fully opaque.
	FillOpacity float64
	// Selectors picks the features to draw. Empty means all features.
	Selectors []Selector
}

func (*ShapeLayer) isLayer() {}

// NewShapeLayer creates a layer with a fully opaque fill (if a fill color is given)
func NewShapeLayer(geometryFile string, line *styling.LineFormat, fillColor *styling.Color, selectors []Selector) *ShapeLayer {
	return &ShapeLayer{
		GeometryFile: geometryFile,
		Line:         line,
		FillColor:    fillColor,
		FillOpacity:  1,
		Selectors:    selectors,
	}
}

type ColorStop struct {
	Threshold float64
	Color     styling.Color
}

type RasterLayer struct {
	RasterFile string
	// Stops are ordered by ascending threshold
	Stops []ColorStop
}

func (*RasterLayer) isLayer() {}

func NewRasterLayer(rasterFile string, stops []ColorStop) (*RasterLayer, errorsx.Error) {
	if len(stops) == 0 {
		return nil, errorsx.Errorf("raster layer %q has no color stops", rasterFile)
	}

	for i := 1; i < len(stops); i++ {
		if stops[i].Threshold < stops[i-1].Threshold {
			return nil, errorsx.Errorf("raster layer %q: color stops must be in ascending order (stop %d: %f, stop %d: %f)", rasterFile, i-1, stops[i-1].Threshold, i, stops[i].Threshold)
		}
	}

	return &RasterLayer{
		RasterFile: rasterFile,
		Stops:      stops,
	}, nil
}

// Selector matches features whose Property equals Value
type Selector struct {
	Property string
	Value    interface{}
}

// Matches compares values by their text form, so 5, 5.0 and "5" are the same.
// Shapefile attributes are always text, GeoJSON ones are not.
func (s Selector) Matches(properties map[string]interface{}) bool {
	val, ok := properties[s.Property]
	if !ok {
		return false
	}

	return fmt.Sprint(val) == fmt.Sprint(s.Value)
}

// MatchesAny is true if at least one selector matches. No selectors matches everything.
func MatchesAny(selectors []Selector, properties map[string]interface{}) bool {
	if len(selectors) == 0 {
		return true
	}

	for _, selector := range selectors {
		if selector.Matches(properties) {
			return true
		}
	}

	return false
}
