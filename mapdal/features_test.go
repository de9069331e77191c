package mapdal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = orb.Ring{{5, 45}, {10, 45}, {10, 50}, {5, 50}, {5, 45}}

func Test_Paths(t *testing.T) {
	line := orb.LineString{{5, 45}, {10, 50}}

	tests := []struct {
		name     string
		geometry orb.Geometry
		want     []Path
	}{
		{"polygon", orb.Polygon{square, square}, []Path{{square, true}, {square, true}}},
		{"multi polygon", orb.MultiPolygon{{square}, {square, square}}, []Path{{square, true}, {square, true}, {square, true}}},
		{"line string", line, []Path{{line, false}}},
		{"multi line string", orb.MultiLineString{line, line}, []Path{{line, false}, {line, false}}},
		{"null", nil, nil},
		{"point", orb.Point{5, 45}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paths(tt.geometry))
		})
	}
}

func Test_IsDrawable(t *testing.T) {
	assert.Nil(t, IsDrawable(nil))
	assert.Nil(t, IsDrawable(orb.Polygon{square}))

	err := IsDrawable(orb.Point{1, 2})
	require.NotNil(t, err)
	assert.Equal(t, ErrUnknownGeometryType, errorsx.Cause(err))
}

func Test_FilterFeatures(t *testing.T) {
	features := []*Feature{
		{Properties: map[string]interface{}{"name": "Oslo"}},
		{Properties: map[string]interface{}{"name": "Bergen"}},
		{Properties: map[string]interface{}{"name": "Trondheim"}},
	}

	assert.Len(t, FilterFeatures(features, nil), 3)

	filtered := FilterFeatures(features, []mapmodel.Selector{{Property: "name", Value: "Oslo"}, {Property: "name", Value: "Trondheim"}})
	require.Len(t, filtered, 2)
	assert.Equal(t, "Oslo", filtered[0].Properties["name"])
	assert.Equal(t, "Trondheim", filtered[1].Properties["name"])
}

const featureCollectionJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "properties": {"name": "square", "code": 1}, "geometry": {"type": "Polygon", "coordinates": [[[5,45],[10,45],[10,50],[5,50],[5,45]]]}},
		{"type": "Feature", "properties": {"name": "river"}, "geometry": {"type": "LineString", "coordinates": [[5,45],[10,50]]}},
		{"type": "Feature", "properties": {"name": "deleted"}, "geometry": null}
	]
}`

func Test_FileFeatureSource_GeoJSON(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.WriteFile("/regions.geojson", []byte(featureCollectionJSON), 0644))
	require.NoError(t, fs.WriteFile("/feature.json", []byte(`{"type": "Feature", "properties": {"name": "line"}, "geometry": {"type": "MultiLineString", "coordinates": [[[5,45],[10,50]],[[6,46],[7,47]]]}}`), 0644))
	require.NoError(t, fs.WriteFile("/geometry.json", []byte(`{"type": "Polygon", "coordinates": [[[5,45],[10,45],[10,50],[5,45]]]}`), 0644))

	source := NewFileFeatureSource(fs)

	features, err := source.ReadFeatures("/regions.geojson")
	require.Nil(t, err)
	require.Len(t, features, 3)

	assert.Equal(t, "square", features[0].Properties["name"])
	assert.Equal(t, float64(1), features[0].Properties["code"])
	assert.Equal(t, []Path{{square, true}}, Paths(features[0].Geometry))
	assert.Len(t, Paths(features[1].Geometry), 1)
	assert.Nil(t, features[2].Geometry)
	assert.Empty(t, Paths(features[2].Geometry))

	features, err = source.ReadFeatures("/feature.json")
	require.Nil(t, err)
	require.Len(t, features, 1)
	assert.Len(t, Paths(features[0].Geometry), 2)

	features, err = source.ReadFeatures("/geometry.json")
	require.Nil(t, err)
	require.Len(t, features, 1)
	assert.Empty(t, features[0].Properties)
	assert.Len(t, Paths(features[0].Geometry), 1)

	_, err = source.ReadFeatures("/regions.kml")
	require.NotNil(t, err)
	assert.Equal(t, ErrUnsupportedSourceType, errorsx.Cause(err))

	_, err = source.ReadFeatures("/missing.geojson")
	require.NotNil(t, err)
}

func Test_FileFeatureSource_Shapefile(t *testing.T) {
	source := NewFileFeatureSource(gofs.NewOsFs())

	features, err := source.ReadFeatures(filepath.Join("testdata", "regions.shp"))
	require.Nil(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, "Oslo", features[0].Properties["NAME"])
	paths := Paths(features[0].Geometry)
	require.Len(t, paths, 2)
	assert.True(t, paths[0].Closed)
	assert.Equal(t, []orb.Point(square), paths[0].Points)
	assert.Len(t, paths[1].Points, 4)

	assert.Equal(t, "Deleted", features[1].Properties["NAME"])
	assert.Nil(t, features[1].Geometry)
	assert.Empty(t, Paths(features[1].Geometry))

	filtered := FilterFeatures(features, []mapmodel.Selector{{Property: "NAME", Value: "Oslo"}})
	require.Len(t, filtered, 1)
	assert.Same(t, features[0], filtered[0])

	features, err = source.ReadFeatures(filepath.Join("testdata", "rivers.shp"))
	require.Nil(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "Glomma", features[0].Properties["NAME"])
	paths = Paths(features[0].Geometry)
	require.Len(t, paths, 1)
	assert.False(t, paths[0].Closed)
}

func Test_FileFeatureSource_TruncatedShapefile(t *testing.T) {
	dir := t.TempDir()

	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		data, err := os.ReadFile(filepath.Join("testdata", "regions"+ext))
		require.NoError(t, err)

		if ext == ".shp" {
			// cut the file off part way through the first polygon's points
			data = data[:200]
		}

		err = os.WriteFile(filepath.Join(dir, "regions"+ext), data, 0600)
		require.NoError(t, err)
	}

	features, err := NewFileFeatureSource(gofs.NewOsFs()).ReadFeatures(filepath.Join(dir, "regions.shp"))
	require.NotNil(t, err)
	assert.Nil(t, features)
}
