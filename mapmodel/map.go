package mapmodel

import (
	"fmt"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/smappy/choropleth"
	"github.com/jamesrr39/smappy/styling"
)

var DefaultBackgroundColor = styling.MustParseColor("#88CCFF")

// Map is the declarative description of one map. It is built up by the caller and then handed to a renderer.
type Map struct {
	View       *MapView
	Background styling.Color
	Layers     []Layer
	Markers    []*PositionedMarker
	Labels     []*TextLabel
	Legend     *Legend
	// LegendSymbols are the symbols added by choropleths, shown before any marker symbols
	LegendSymbols []*styling.Marker

	choroplethCount int
}

func NewMap(view *MapView) *Map {
	return &Map{
		View:       view,
		Background: DefaultBackgroundColor,
	}
}

func (m *Map) AddShapes(layer *ShapeLayer) {
	m.Layers = append(m.Layers, layer)
}

func (m *Map) AddRaster(layer *RasterLayer) {
	m.Layers = append(m.Layers, layer)
}

func (m *Map) AddMarker(lat, lng float64, title string, marker *styling.Marker, data interface{}) {
	m.Markers = append(m.Markers, &PositionedMarker{
		Lat:    lat,
		Lng:    lng,
		Title:  title,
		Marker: marker,
		Data:   data,
	})
}

func (m *Map) AddTextLabel(text string, lat, lng float64, style styling.TextStyle) {
	m.Labels = append(m.Labels, &TextLabel{
		Text:  text,
		Lat:   lat,
		Lng:   lng,
		Style: style,
	})
}

// SetLegend sets the legend. nil removes it.
func (m *Map) SetLegend(legend *Legend) {
	m.Legend = legend
}

type ChoroplethOptions struct {
	choropleth.Options
	Line *styling.LineFormat
}

func DefaultChoroplethOptions() ChoroplethOptions {
	return ChoroplethOptions{
		Options: choropleth.DefaultOptions(),
	}
}

// AddChoropleth classifies the regions and adds one shape layer per resulting color,
// selecting the regions of that color. Each bin gets a legend symbol.
func (m *Map) AddChoropleth(geometryFile string, regions []choropleth.Item, options ChoroplethOptions) (*choropleth.Result, errorsx.Error) {
	result, err := choropleth.Classify(regions, options.Options)
	if err != nil {
		return nil, errorsx.Wrap(err, "geometryFile", geometryFile)
	}

	for _, group := range result.StyleGroups {
		var selectors []Selector
		for _, member := range group.Members {
			selectors = append(selectors, Selector{
				Property: member.IDProperty,
				Value:    member.IDValue,
			})
		}

		fill := group.Color
		m.AddShapes(NewShapeLayer(geometryFile, options.Line, &fill, selectors))
	}

	for i, entry := range result.LegendEntries {
		symbol := styling.NewMarker(fmt.Sprintf("choropleth-%d-%d", m.choroplethCount, i), entry.Color, entry.Label)
		m.LegendSymbols = append(m.LegendSymbols, symbol)
	}
	m.choroplethCount++

	return result, nil
}
