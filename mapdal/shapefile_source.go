package mapdal

import (
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

func readShapefile(path string) ([]*Feature, errorsx.Error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}
	defer reader.Close()

	fields := reader.Fields()

	var features []*Feature
	for reader.Next() {
		row, shape := reader.Shape()

		properties := make(map[string]interface{}, len(fields))
		for fieldIndex, field := range fields {
			// fixed width dbf values are padded with spaces or NULs
			properties[field.String()] = strings.Trim(reader.ReadAttribute(row, fieldIndex), " \x00")
		}

		features = append(features, &Feature{
			Geometry:   shapeToGeometry(shape),
			Properties: properties,
		})
	}

	// Next stops on truncated or corrupt records as well as at the end of the file
	err = reader.Err()
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path, "featuresRead", len(features))
	}

	return features, nil
}

func shapeToGeometry(shape shp.Shape) orb.Geometry {
	switch s := shape.(type) {
	case *shp.Polygon:
		return polygonGeometry(s.Parts, s.Points)
	case *shp.PolygonZ:
		return polygonGeometry(s.Parts, s.Points)
	case *shp.PolyLine:
		return polyLineGeometry(s.Parts, s.Points)
	case *shp.PolyLineZ:
		return polyLineGeometry(s.Parts, s.Points)
	default:
		// *shp.Null for deleted records, and point types which aren't drawn as paths
		return nil
	}
}

func polygonGeometry(parts []int32, points []shp.Point) orb.Geometry {
	var polygon orb.Polygon
	for _, part := range splitParts(parts, points) {
		polygon = append(polygon, orb.Ring(part))
	}
	return polygon
}

func polyLineGeometry(parts []int32, points []shp.Point) orb.Geometry {
	var lines orb.MultiLineString
	for _, part := range splitParts(parts, points) {
		lines = append(lines, orb.LineString(part))
	}
	if len(lines) == 1 {
		return lines[0]
	}
	return lines
}

// splitParts cuts the shapefile's flat point list up at the part start indexes
func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	var result [][]orb.Point
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if start < 0 || int(start) > end || end > len(points) {
			continue
		}

		var part []orb.Point
		for _, p := range points[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		result = append(result, part)
	}
	return result
}
