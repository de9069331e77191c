package mapdal

import (
	"encoding/json"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/paulmach/orb/geojson"
)

type geojsonTypeProbe struct {
	Type string `json:"type"`
}

// readGeoJSON accepts a FeatureCollection, a single Feature or a bare geometry
func readGeoJSON(fs gofs.Fs, path string) ([]*Feature, errorsx.Error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	var probe geojsonTypeProbe
	err = json.Unmarshal(data, &probe)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", path)
		}

		var features []*Feature
		for _, f := range fc.Features {
			features = append(features, fromGeoJSONFeature(f))
		}
		return features, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", path)
		}
		return []*Feature{fromGeoJSONFeature(f)}, nil
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", path, "type", probe.Type)
		}
		return []*Feature{{Geometry: g.Geometry(), Properties: map[string]interface{}{}}}, nil
	}
}

func fromGeoJSONFeature(f *geojson.Feature) *Feature {
	properties := map[string]interface{}(f.Properties)
	if properties == nil {
		properties = make(map[string]interface{})
	}

	return &Feature{
		Geometry:   f.Geometry,
		Properties: properties,
	}
}
