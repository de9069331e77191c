package mapdal

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/paulmach/orb"
)

var (
	ErrUnsupportedSourceType = errors.New("unsupported source file type")
	// ErrUnknownGeometryType is only used for diagnostics. Unknown geometry is drawn as nothing.
	ErrUnknownGeometryType = errors.New("UnknownGeometryType: geometry type not drawable")
)

type Feature struct {
	// Geometry is nil for records without geometry
	Geometry   orb.Geometry
	Properties map[string]interface{}
}

// Path is a list of lng/lat points. Closed paths are polygon rings, and can be filled.
type Path struct {
	Points []orb.Point
	Closed bool
}

type FeatureSource interface {
	ReadFeatures(path string) ([]*Feature, errorsx.Error)
}

// FileFeatureSource reads GeoJSON files through fs, and shapefiles from the OS filesystem
type FileFeatureSource struct {
	fs gofs.Fs
}

func NewFileFeatureSource(fs gofs.Fs) *FileFeatureSource {
	return &FileFeatureSource{fs}
}

func (s *FileFeatureSource) ReadFeatures(path string) ([]*Feature, errorsx.Error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return readShapefile(path)
	case ".json", ".geojson":
		return readGeoJSON(s.fs, path)
	default:
		return nil, errorsx.Wrap(ErrUnsupportedSourceType, "path", path)
	}
}

// FilterFeatures keeps the features matching at least one selector. No selectors keeps everything.
func FilterFeatures(features []*Feature, selectors []mapmodel.Selector) []*Feature {
	if len(selectors) == 0 {
		return features
	}

	var filtered []*Feature
	for _, feature := range features {
		if mapmodel.MatchesAny(selectors, feature.Properties) {
			filtered = append(filtered, feature)
		}
	}
	return filtered
}

// Paths flattens the geometry into rings and lines. Geometry that can't be drawn as a path gives no paths.
func Paths(geometry orb.Geometry) []Path {
	switch g := geometry.(type) {
	case orb.Polygon:
		return ringPaths(g)
	case orb.MultiPolygon:
		var paths []Path
		for _, polygon := range g {
			paths = append(paths, ringPaths(polygon)...)
		}
		return paths
	case orb.Ring:
		return ringPaths(orb.Polygon{g})
	case orb.LineString:
		return []Path{{Points: g}}
	case orb.MultiLineString:
		var paths []Path
		for _, lineString := range g {
			paths = append(paths, Path{Points: lineString})
		}
		return paths
	case orb.Collection:
		var paths []Path
		for _, child := range g {
			paths = append(paths, Paths(child)...)
		}
		return paths
	default:
		return nil
	}
}

func ringPaths(polygon orb.Polygon) []Path {
	var paths []Path
	for _, ring := range polygon {
		paths = append(paths, Path{Points: ring, Closed: true})
	}
	return paths
}

// IsDrawable reports whether Paths understands the geometry type. nil (no geometry) is not an error.
func IsDrawable(geometry orb.Geometry) errorsx.Error {
	switch geometry.(type) {
	case nil, orb.Polygon, orb.MultiPolygon, orb.Ring, orb.LineString, orb.MultiLineString, orb.Collection:
		return nil
	default:
		return errorsx.Wrap(ErrUnknownGeometryType, "type", geometry.GeoJSONType())
	}
}
