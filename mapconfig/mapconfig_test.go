package mapconfig

import (
	"strings"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/jamesrr39/smappy/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const norwayDescription = `
view:
  west: 4
  east: 32
  south: 57
  north: 72
  width: 800
  height: 600
background: "#ffffff"
shapes:
  - file: shapes/countries.geojson
    line: {color: black, width: 1, dash: {length: 4, gap: 2}}
    fill: "rgb(50%, 50%, 50%)"
    opacity: 0.5
    selectors:
      - {property: name, value: Norway}
rasters:
  - file: /rasters/elevation.asc
    stops:
      - {value: 0, color: "#00ff00"}
      - {value: 2000, color: "#ffffff"}
choropleths:
  - file: shapes/counties.geojson
    levels: 2
    regions:
      - {property: id, value: 1, data: 10}
      - {property: id, value: 2, data: 20}
      - {property: id, value: 3}
textStyles:
  big:
    size: 40
    fill: "#ff0000"
    halo: black
    haloRadius: 2
markerStyles:
  city:
    shape: circle
    fill: "#0000ff"
    scale: 5
    title: next
    text: big
    label: Cities
    line: {width: 1}
markers:
  - {lat: 59.9, lng: 10.7, title: Oslo, marker: city}
labels:
  - {text: Norway, lat: 62, lng: 9}
legend:
  vertical: bottom
  horizontal: left
  scale: 2
  sortKey: label
`

func Test_LoadMap(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.MkdirAll("/maps", 0700))
	require.NoError(t, fs.WriteFile("/maps/norway.yaml", []byte(norwayDescription), 0600))

	m, err := LoadMap(fs, "/maps/norway.yaml")
	require.Nil(t, err)

	assert.Equal(t, 4.0, m.View.West)
	assert.Equal(t, 72.0, m.View.North)
	assert.Equal(t, 800, m.View.Width)
	assert.Equal(t, styling.White, m.Background)

	// 1 shape layer, 1 raster layer, then 1 shape layer per choropleth color group
	require.Len(t, m.Layers, 5)

	shapes := m.Layers[0].(*mapmodel.ShapeLayer)
	assert.Equal(t, "/maps/shapes/countries.geojson", shapes.GeometryFile)
	assert.Equal(t, 0.5, shapes.FillOpacity)
	assert.Equal(t, "#808080", shapes.FillColor.Hex())
	assert.Equal(t, []mapmodel.Selector{{Property: "name", Value: "Norway"}}, shapes.Selectors)
	require.NotNil(t, shapes.Line)
	assert.Equal(t, &styling.DashPattern{Length: 4, Gap: 2}, shapes.Line.Dash)

	raster := m.Layers[1].(*mapmodel.RasterLayer)
	assert.Equal(t, "/rasters/elevation.asc", raster.RasterFile)
	require.Len(t, raster.Stops, 2)
	assert.Equal(t, 2000.0, raster.Stops[1].Threshold)

	choroplethLayer := m.Layers[2].(*mapmodel.ShapeLayer)
	assert.Equal(t, "/maps/shapes/counties.geojson", choroplethLayer.GeometryFile)

	require.Len(t, m.LegendSymbols, 2)
	assert.Equal(t, "10 - 15", m.LegendSymbols[0].Label)

	require.Len(t, m.Markers, 1)
	marker := m.Markers[0].Marker
	assert.Equal(t, "city", marker.ID)
	assert.Equal(t, 5.0, marker.Radius())
	assert.Equal(t, styling.TitleModeNextToSymbol, marker.TitleMode)
	assert.Equal(t, 40.0, marker.TextStyle.Size)
	assert.Equal(t, styling.Black, marker.Line.Color)

	require.Len(t, m.Labels, 1)
	assert.Equal(t, styling.DefaultTextStyle(), m.Labels[0].Style)

	require.NotNil(t, m.Legend)
	assert.Equal(t, mapmodel.VerticalPositionBottom, m.Legend.Vertical)
	assert.Equal(t, mapmodel.HorizontalPositionLeft, m.Legend.Horizontal)
	assert.Equal(t, 2.0, m.Legend.Scale)
	require.NotNil(t, m.Legend.SortKey)
	assert.Equal(t, "Cities", m.Legend.SortKey(marker))
}

func Test_Description_Build_errors(t *testing.T) {
	view := "view: {west: 4, east: 32, south: 57, north: 72, width: 800, height: 600}\n"

	tests := []struct {
		name        string
		yaml        string
		expectedErr error
	}{
		{"unknown key", view + "colour: red\n", nil},
		{"degenerate view", "view: {west: 4, east: 4, south: 57, north: 72, width: 800, height: 600}\n", mapmodel.ErrDegenerateView},
		{"bad background", view + "background: not-a-color\n", styling.ErrUnsupportedColorSpec},
		{"unknown marker style", view + "markers:\n  - {lat: 1, lng: 2, marker: missing}\n", nil},
		{"unknown shape", view + "markerStyles:\n  x: {shape: hexagon}\n", styling.ErrUnknownShape},
		{"unknown text style", view + "labels:\n  - {text: a, lat: 1, lng: 2, style: missing}\n", nil},
		{"bad legend sort key", view + "legend: {sortKey: size}\n", nil},
		{"bad legend position", view + "legend: {vertical: middle}\n", nil},
		{"raster without stops", view + "rasters:\n  - {file: a.asc}\n", nil},
		{"shape without file", view + "shapes:\n  - {fill: red}\n", nil},
		{"bad opacity", view + "shapes:\n  - {file: a.shp, opacity: 2}\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			description, err := Parse(strings.NewReader(tt.yaml))
			if err == nil {
				_, err = description.Build(RelativeTo("/maps"))
			}

			require.NotNil(t, err)
			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, errorsx.Cause(err))
			}
		})
	}
}

func Test_RelativeTo(t *testing.T) {
	resolve := RelativeTo("/maps")

	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"a.shp", "/maps/a.shp", false},
		{"../data/a.shp", "/data/a.shp", false},
		{"/abs/a.shp", "/abs/a.shp", false},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := resolve(tt.path)
			if tt.wantErr {
				require.NotNil(t, err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
