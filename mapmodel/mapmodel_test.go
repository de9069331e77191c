package mapmodel

import (
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/smappy/choropleth"
	"github.com/jamesrr39/smappy/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewMapView(t *testing.T) {
	view, err := NewMapView(5, 10, 45, 50, 100, 100)
	require.Nil(t, err)
	assert.Equal(t, MapView{West: 5, East: 10, South: 45, North: 50, Width: 100, Height: 100}, *view)

	tests := []struct {
		name                     string
		west, east, south, north float64
	}{
		{"zero width", 5, 5, 45, 50},
		{"zero height", 5, 10, 45, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapView(tt.west, tt.east, tt.south, tt.north, 100, 100)
			require.NotNil(t, err)
			assert.Equal(t, ErrDegenerateView, errorsx.Cause(err))
		})
	}

	_, err = NewMapView(5, 10, 45, 50, 0, 100)
	require.NotNil(t, err)
	assert.NotEqual(t, ErrDegenerateView, errorsx.Cause(err))
}

func Test_Selector_Matches(t *testing.T) {
	properties := map[string]interface{}{
		"name": "Oslo",
		"code": float64(301),
	}

	tests := []struct {
		name     string
		selector Selector
		want     bool
	}{
		{"string match", Selector{"name", "Oslo"}, true},
		{"string mismatch", Selector{"name", "Bergen"}, false},
		{"number against int", Selector{"code", 301}, true},
		{"number against text", Selector{"code", "301"}, true},
		{"missing property", Selector{"county", "Oslo"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.selector.Matches(properties))
		})
	}
}

func Test_MatchesAny(t *testing.T) {
	properties := map[string]interface{}{"name": "Oslo"}

	assert.True(t, MatchesAny(nil, properties))
	assert.True(t, MatchesAny([]Selector{{"name", "Bergen"}, {"name", "Oslo"}}, properties))
	assert.False(t, MatchesAny([]Selector{{"name", "Bergen"}, {"name", "Trondheim"}}, properties))
}

func Test_NewRasterLayer(t *testing.T) {
	_, err := NewRasterLayer("elevation.asc", nil)
	require.NotNil(t, err)

	_, err = NewRasterLayer("elevation.asc", []ColorStop{{Threshold: 10}, {Threshold: 5}})
	require.NotNil(t, err)

	layer, err := NewRasterLayer("elevation.asc", []ColorStop{{Threshold: 0, Color: styling.Black}, {Threshold: 100, Color: styling.White}})
	require.Nil(t, err)
	assert.Len(t, layer.Stops, 2)
}

func Test_Legend_Validate(t *testing.T) {
	assert.Nil(t, DefaultLegend().Validate())

	legend := DefaultLegend()
	legend.Vertical = "middle"
	assert.NotNil(t, legend.Validate())

	legend = DefaultLegend()
	legend.Scale = 0
	assert.NotNil(t, legend.Validate())
}

func Test_Map_AddChoropleth(t *testing.T) {
	view, err := NewMapView(5, 10, 45, 50, 100, 100)
	require.Nil(t, err)

	m := NewMap(view)
	assert.Equal(t, DefaultBackgroundColor, m.Background)

	options := DefaultChoroplethOptions()
	options.Levels = 2

	regions := []choropleth.Item{
		{IDProperty: "id", IDValue: "a", Value: choropleth.FloatPtr(10)},
		{IDProperty: "id", IDValue: "b", Value: choropleth.FloatPtr(20)},
		{IDProperty: "id", IDValue: "c", Value: choropleth.FloatPtr(11)},
		{IDProperty: "id", IDValue: "d"},
	}

	result, err := m.AddChoropleth("regions.geojson", regions, options)
	require.Nil(t, err)
	require.Len(t, result.StyleGroups, 3)

	require.Len(t, m.Layers, 3)
	firstLayer, ok := m.Layers[0].(*ShapeLayer)
	require.True(t, ok)
	assert.Equal(t, "regions.geojson", firstLayer.GeometryFile)
	assert.Equal(t, []Selector{{"id", "a"}, {"id", "c"}}, firstLayer.Selectors)
	require.NotNil(t, firstLayer.FillColor)
	assert.Equal(t, result.Colors[0], *firstLayer.FillColor)

	undefinedLayer := m.Layers[2].(*ShapeLayer)
	assert.Equal(t, choropleth.DefaultUndefinedColor, *undefinedLayer.FillColor)

	require.Len(t, m.LegendSymbols, 2)
	assert.Equal(t, "10 - 15", m.LegendSymbols[0].Label)
	assert.Equal(t, "choropleth-0-0", m.LegendSymbols[0].ID)

	_, err = m.AddChoropleth("regions.geojson", regions, options)
	require.Nil(t, err)
	assert.Equal(t, "choropleth-1-0", m.LegendSymbols[2].ID)

	_, err = m.AddChoropleth("regions.geojson", []choropleth.Item{{IDProperty: "id", IDValue: "d"}}, options)
	require.NotNil(t, err)
	assert.Equal(t, choropleth.ErrEmptyDataSet, errorsx.Cause(err))
}
