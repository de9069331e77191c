package maprenderer

import (
	"testing"

	snapshot "github.com/jamesrr39/go-snapshot-testing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/jamesrr39/smappy/rendersink"
	"github.com/jamesrr39/smappy/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = styling.MustParseColor("#ff0000")
	blue = styling.MustParseColor("#0000ff")
)

func Test_LegendBoxSize(t *testing.T) {
	for _, scale := range []float64{0.5, 1, 2} {
		width, firstHeight := LegendBoxSize(scale, 50, 1)
		assert.Equal(t, 2*12*scale+3*8*scale+50, width)

		_, previousHeight := LegendBoxSize(scale, 50, 1)
		for count := 2; count < 6; count++ {
			_, height := LegendBoxSize(scale, 50, count)
			assert.InDelta(t, 36*scale, height-previousHeight, 1e-9)
			previousHeight = height
		}

		assert.InDelta(t, 36*scale+8*scale, firstHeight, 1e-9)
	}
}

func Test_RenderLegend(t *testing.T) {
	sink := newRecordingSink(200, 100)
	symbols := []*styling.Marker{
		styling.NewMarker("a", red, "low"),
		styling.NewMarker("b", blue, "high"),
	}

	err := RenderLegend(sink, symbols, mapmodel.DefaultLegend())
	require.Nil(t, err)

	snapshot.AssertMatchesSnapshot(t, "top_right", snapshot.NewTextSnapshot(sink.String()))
}

func Test_NewLegendLayout_corners(t *testing.T) {
	symbols := []*styling.Marker{
		styling.NewMarker("a", red, "low"),
		styling.NewMarker("b", blue, "high"),
	}

	tests := []struct {
		name       string
		vertical   mapmodel.VerticalPosition
		horizontal mapmodel.HorizontalPosition
		want       rendersink.Box
	}{
		{"top left", mapmodel.VerticalPositionTop, mapmodel.HorizontalPositionLeft, rendersink.Box{Left: 8, Top: 8, Right: 104, Bottom: 88}},
		{"top right", mapmodel.VerticalPositionTop, mapmodel.HorizontalPositionRight, rendersink.Box{Left: 96, Top: 8, Right: 192, Bottom: 88}},
		{"bottom left", mapmodel.VerticalPositionBottom, mapmodel.HorizontalPositionLeft, rendersink.Box{Left: 8, Top: 12, Right: 104, Bottom: 92}},
		{"bottom right", mapmodel.VerticalPositionBottom, mapmodel.HorizontalPositionRight, rendersink.Box{Left: 96, Top: 12, Right: 192, Bottom: 92}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legend := &mapmodel.Legend{Vertical: tt.vertical, Horizontal: tt.horizontal, Scale: 1}

			layout, err := NewLegendLayout(newRecordingSink(200, 100), symbols, legend)
			require.Nil(t, err)

			assert.Equal(t, tt.want, layout.Box)
		})
	}
}

func Test_RenderLegend_errors(t *testing.T) {
	triangle := styling.NewMarker("t", red, "triangle")
	triangle.Shape = styling.ShapeTriangle

	sink := newRecordingSink(200, 100)
	err := RenderLegend(sink, []*styling.Marker{styling.NewMarker("a", red, "low"), triangle}, mapmodel.DefaultLegend())
	require.NotNil(t, err)
	assert.Equal(t, ErrUnsupportedLegendShape, errorsx.Cause(err))
	assert.Empty(t, sink.ops, "nothing should be drawn when a symbol can't be")

	err = RenderLegend(sink, []*styling.Marker{styling.NewMarker("a", red, "low")}, &mapmodel.Legend{Vertical: "middle", Horizontal: mapmodel.HorizontalPositionLeft, Scale: 1})
	require.NotNil(t, err)
}

func Test_legendSymbols(t *testing.T) {
	view, err := mapmodel.NewMapView(5, 10, 45, 50, 100, 100)
	require.Nil(t, err)

	choroplethSymbol := styling.NewMarker("choropleth-0-0", blue, "b: choropleth")
	city := styling.NewMarker("city", red, "c: city")
	unlabelled := styling.NewMarker("unlabelled", red, "")
	village := styling.NewMarker("village", red, "a: village")

	m := mapmodel.NewMap(view)
	m.LegendSymbols = []*styling.Marker{choroplethSymbol}
	m.AddMarker(59.9, 10.7, "Oslo", city, nil)
	m.AddMarker(60.4, 5.3, "Bergen", city, nil)
	m.AddMarker(60, 6, "", unlabelled, nil)
	m.AddMarker(61, 7, "Flåm", village, nil)

	m.SetLegend(mapmodel.DefaultLegend())
	assert.Equal(t, []*styling.Marker{choroplethSymbol, city, village}, legendSymbols(m))

	legend := mapmodel.DefaultLegend()
	legend.SortKey = func(marker *styling.Marker) string {
		return marker.Label
	}
	m.SetLegend(legend)
	assert.Equal(t, []*styling.Marker{village, choroplethSymbol, city}, legendSymbols(m))
}
