package maprenderer

import (
	"errors"
	"sort"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/jamesrr39/smappy/rendersink"
	"github.com/jamesrr39/smappy/styling"
)

var ErrUnsupportedLegendShape = errors.New("UnsupportedLegendShape: legend symbols can only be circles")

// LegendLayout is the geometry of a legend, in nominal pixels
type LegendLayout struct {
	Box       rendersink.Box
	Radius    float64
	Offset    float64
	RowPitch  float64
	TextStyle styling.TextStyle
}

func legendTextStyle(scale float64) styling.TextStyle {
	style := styling.DefaultTextStyle()
	style.Size = 24 * scale
	style.FillColor = styling.Black
	style.HaloRadius = 0
	return style
}

// legendMetrics returns the symbol radius, the padding and the distance between rows, for the legend scale
func legendMetrics(scale float64) (radius, offset, rowPitch float64) {
	radius = 12 * scale
	offset = 8 * scale
	rowPitch = 2*radius + 12*scale
	return radius, offset, rowPitch
}

// LegendBoxSize returns the size of the legend box for count symbols
func LegendBoxSize(scale, widestLabel float64, count int) (float64, float64) {
	radius, offset, rowPitch := legendMetrics(scale)

	width := 2*radius + 3*offset + widestLabel
	height := rowPitch*float64(count) + offset
	return width, height
}

// NewLegendLayout measures the symbol labels and anchors the legend box in a corner of the canvas
func NewLegendLayout(sink rendersink.Sink, symbols []*styling.Marker, legend *mapmodel.Legend) (*LegendLayout, errorsx.Error) {
	err := legend.Validate()
	if err != nil {
		return nil, err
	}

	textStyle := legendTextStyle(legend.Scale)

	var widest float64
	for _, symbol := range symbols {
		box, err := sink.TextBoundingBox(symbol.Label, textStyle)
		if err != nil {
			return nil, errorsx.Wrap(err, "label", symbol.Label)
		}
		if box.Width() > widest {
			widest = box.Width()
		}
	}

	radius, offset, rowPitch := legendMetrics(legend.Scale)
	boxWidth, boxHeight := LegendBoxSize(legend.Scale, widest, len(symbols))
	canvasWidth, canvasHeight := sink.Size()

	var x1, y1 float64
	switch legend.Vertical {
	case mapmodel.VerticalPositionTop:
		y1 = offset
	case mapmodel.VerticalPositionBottom:
		y1 = float64(canvasHeight) - (boxHeight + offset)
	}

	switch legend.Horizontal {
	case mapmodel.HorizontalPositionLeft:
		x1 = offset
	case mapmodel.HorizontalPositionRight:
		x1 = float64(canvasWidth) - (offset + boxWidth)
	}

	return &LegendLayout{
		Box: rendersink.Box{
			Left:   x1,
			Top:    y1,
			Right:  x1 + boxWidth,
			Bottom: y1 + boxHeight,
		},
		Radius:    radius,
		Offset:    offset,
		RowPitch:  rowPitch,
		TextStyle: textStyle,
	}, nil
}

// RenderLegend draws the legend box, and a symbol and label for each of the symbols, in order
func RenderLegend(sink rendersink.Sink, symbols []*styling.Marker, legend *mapmodel.Legend) errorsx.Error {
	for _, symbol := range symbols {
		if symbol.Shape != styling.ShapeCircle {
			return errorsx.Wrap(ErrUnsupportedLegendShape, "shape", symbol.Shape.String(), "symbolID", symbol.ID)
		}
	}

	layout, err := NewLegendLayout(sink, symbols, legend)
	if err != nil {
		return err
	}

	box := layout.Box
	border := &styling.LineFormat{Color: styling.Black, Width: 2 * legend.Scale}
	sink.Polygon([]rendersink.Point{
		{X: box.Left, Y: box.Top},
		{X: box.Right, Y: box.Top},
		{X: box.Right, Y: box.Bottom},
		{X: box.Left, Y: box.Bottom},
	}, border, styling.White)

	symbolOutline := &styling.LineFormat{Color: styling.Black, Width: 1}
	for i, symbol := range symbols {
		displacement := layout.RowPitch * float64(i)

		center := rendersink.Point{
			X: box.Left + layout.Offset + layout.Radius,
			Y: box.Top + layout.Offset + layout.Radius + displacement,
		}
		sink.Circle(center, layout.Radius, symbol.FillColor, symbolOutline)

		textPosition := rendersink.Point{
			X: box.Left + 2*layout.Offset + 2*layout.Radius,
			Y: box.Top + layout.Offset + displacement,
		}
		err = sink.Text(textPosition, symbol.Label, layout.TextStyle)
		if err != nil {
			return errorsx.Wrap(err, "label", symbol.Label)
		}
	}

	return nil
}

// legendSymbols lists the choropleth symbols, then one symbol per distinct labelled marker style
func legendSymbols(m *mapmodel.Map) []*styling.Marker {
	var symbols []*styling.Marker
	symbols = append(symbols, m.LegendSymbols...)

	seen := make(map[string]bool)
	for _, positioned := range m.Markers {
		marker := positioned.Marker
		if marker == nil || marker.Label == "" || seen[marker.ID] {
			continue
		}
		seen[marker.ID] = true
		symbols = append(symbols, marker)
	}

	if m.Legend != nil && m.Legend.SortKey != nil {
		sortKey := m.Legend.SortKey
		sort.SliceStable(symbols, func(i, j int) bool {
			return sortKey(symbols[i]) < sortKey(symbols[j])
		})
	}

	return symbols
}
