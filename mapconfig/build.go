package mapconfig

import (
	"path/filepath"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/smappy/choropleth"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/jamesrr39/smappy/styling"
)

const (
	SortKeyLabel = "label"
	SortKeyID    = "id"
)

// LoadMap reads the description at path and builds the map, with file paths relative to the description's directory
func LoadMap(fs gofs.Fs, path string) (*mapmodel.Map, errorsx.Error) {
	description, err := Load(fs, path)
	if err != nil {
		return nil, err
	}

	return description.Build(RelativeTo(filepath.Dir(path)))
}

// Build converts the description into a map. Every file path is passed through resolvePath.
func (d *Description) Build(resolvePath PathResolver) (*mapmodel.Map, errorsx.Error) {
	view, err := mapmodel.NewMapView(d.View.West, d.View.East, d.View.South, d.View.North, d.View.Width, d.View.Height)
	if err != nil {
		return nil, err
	}

	m := mapmodel.NewMap(view)

	if d.Background != "" {
		m.Background, err = styling.ParseColor(d.Background)
		if err != nil {
			return nil, errorsx.Wrap(err, "field", "background")
		}
	}

	for i, shape := range d.Shapes {
		layer, err := shape.build(resolvePath)
		if err != nil {
			return nil, errorsx.Wrap(err, "shapeIndex", i)
		}
		m.AddShapes(layer)
	}

	for i, raster := range d.Rasters {
		layer, err := raster.build(resolvePath)
		if err != nil {
			return nil, errorsx.Wrap(err, "rasterIndex", i)
		}
		m.AddRaster(layer)
	}

	for i, choroplethConfig := range d.Choropleths {
		err := choroplethConfig.addTo(m, resolvePath)
		if err != nil {
			return nil, errorsx.Wrap(err, "choroplethIndex", i)
		}
	}

	textStyles := make(map[string]styling.TextStyle)
	for id, textStyleConfig := range d.TextStyles {
		textStyle, err := textStyleConfig.build()
		if err != nil {
			return nil, errorsx.Wrap(err, "textStyle", id)
		}
		textStyles[id] = textStyle
	}

	markerStyles := make(map[string]*styling.Marker)
	for id, markerStyleConfig := range d.MarkerStyles {
		marker, err := markerStyleConfig.build(id, textStyles)
		if err != nil {
			return nil, errorsx.Wrap(err, "markerStyle", id)
		}
		markerStyles[id] = marker
	}

	for i, markerConfig := range d.Markers {
		marker, ok := markerStyles[markerConfig.Marker]
		if !ok {
			return nil, errorsx.Errorf("marker %d (%q): unknown marker style %q", i, markerConfig.Title, markerConfig.Marker)
		}
		m.AddMarker(markerConfig.Lat, markerConfig.Lng, markerConfig.Title, marker, markerConfig.Data)
	}

	for i, labelConfig := range d.Labels {
		style, err := lookupTextStyle(textStyles, labelConfig.Style)
		if err != nil {
			return nil, errorsx.Wrap(err, "labelIndex", i)
		}
		m.AddTextLabel(labelConfig.Text, labelConfig.Lat, labelConfig.Lng, style)
	}

	if d.Legend != nil {
		legend, err := d.Legend.build()
		if err != nil {
			return nil, errorsx.Wrap(err, "field", "legend")
		}
		m.SetLegend(legend)
	}

	return m, nil
}

func parseOptionalColor(spec string) (*styling.Color, errorsx.Error) {
	if spec == "" {
		return nil, nil
	}

	c, err := styling.ParseColor(spec)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (lc *LineConfig) build() (*styling.LineFormat, errorsx.Error) {
	if lc == nil {
		return nil, nil
	}

	lineColor := styling.Black
	if lc.Color != "" {
		var err errorsx.Error
		lineColor, err = styling.ParseColor(lc.Color)
		if err != nil {
			return nil, err
		}
	}

	var dash *styling.DashPattern
	if lc.Dash != nil {
		dash = &styling.DashPattern{Length: lc.Dash.Length, Gap: lc.Dash.Gap}
	}

	return styling.NewLineFormat(lineColor, lc.Width, dash)
}

func (sc ShapeConfig) build(resolvePath PathResolver) (*mapmodel.ShapeLayer, errorsx.Error) {
	path, err := resolvePath(sc.File)
	if err != nil {
		return nil, err
	}

	line, err := sc.Line.build()
	if err != nil {
		return nil, errorsx.Wrap(err, "field", "line")
	}

	fill, err := parseOptionalColor(sc.Fill)
	if err != nil {
		return nil, errorsx.Wrap(err, "field", "fill")
	}

	var selectors []mapmodel.Selector
	for _, selector := range sc.Selectors {
		selectors = append(selectors, mapmodel.Selector{
			Property: selector.Property,
			Value:    selector.Value,
		})
	}

	layer := mapmodel.NewShapeLayer(path, line, fill, selectors)
	if sc.Opacity != nil {
		if *sc.Opacity < 0 || *sc.Opacity > 1 {
			return nil, errorsx.Errorf("opacity must be between 0 and 1, but was %f", *sc.Opacity)
		}
		layer.FillOpacity = *sc.Opacity
	}

	return layer, nil
}

func (rc RasterConfig) build(resolvePath PathResolver) (*mapmodel.RasterLayer, errorsx.Error) {
	path, err := resolvePath(rc.File)
	if err != nil {
		return nil, err
	}

	var stops []mapmodel.ColorStop
	for i, stop := range rc.Stops {
		stopColor, err := styling.ParseColor(stop.Color)
		if err != nil {
			return nil, errorsx.Wrap(err, "stopIndex", i)
		}
		stops = append(stops, mapmodel.ColorStop{Threshold: stop.Value, Color: stopColor})
	}

	return mapmodel.NewRasterLayer(path, stops)
}

func (cc ChoroplethConfig) addTo(m *mapmodel.Map, resolvePath PathResolver) errorsx.Error {
	path, err := resolvePath(cc.File)
	if err != nil {
		return err
	}

	options := mapmodel.DefaultChoroplethOptions()
	if cc.Levels != 0 {
		if cc.Levels < 0 {
			return errorsx.Errorf("levels must be positive, but was %d", cc.Levels)
		}
		options.Levels = cc.Levels
	}

	if cc.UndefinedColor != "" {
		options.UndefinedColor, err = styling.ParseColor(cc.UndefinedColor)
		if err != nil {
			return errorsx.Wrap(err, "field", "undefinedColor")
		}
	}

	options.Line, err = cc.Line.build()
	if err != nil {
		return errorsx.Wrap(err, "field", "line")
	}

	var regions []choropleth.Item
	for _, region := range cc.Regions {
		regions = append(regions, choropleth.Item{
			IDProperty: region.Property,
			IDValue:    region.Value,
			Value:      region.Data,
		})
	}

	_, err = m.AddChoropleth(path, regions, options)
	if err != nil {
		return err
	}

	return nil
}

func (tc TextStyleConfig) build() (styling.TextStyle, errorsx.Error) {
	fill, err := parseOptionalColor(tc.Fill)
	if err != nil {
		return styling.TextStyle{}, errorsx.Wrap(err, "field", "fill")
	}

	halo, err := parseOptionalColor(tc.Halo)
	if err != nil {
		return styling.TextStyle{}, errorsx.Wrap(err, "field", "halo")
	}

	return styling.NewTextStyle(tc.Font, tc.Size, fill, halo, tc.HaloRadius)
}

// lookupTextStyle returns the named text style. An empty id is the default text style.
func lookupTextStyle(textStyles map[string]styling.TextStyle, id string) (styling.TextStyle, errorsx.Error) {
	if id == "" {
		return styling.DefaultTextStyle(), nil
	}

	style, ok := textStyles[id]
	if !ok {
		return styling.TextStyle{}, errorsx.Errorf("unknown text style %q", id)
	}

	return style, nil
}

func (mc MarkerStyleConfig) build(id string, textStyles map[string]styling.TextStyle) (*styling.Marker, errorsx.Error) {
	fill := styling.Black
	if mc.Fill != "" {
		var err errorsx.Error
		fill, err = styling.ParseColor(mc.Fill)
		if err != nil {
			return nil, errorsx.Wrap(err, "field", "fill")
		}
	}

	marker := styling.NewMarker(id, fill, mc.Label)

	if mc.Shape != "" {
		shape, err := styling.ParseShape(mc.Shape)
		if err != nil {
			return nil, err
		}
		marker.Shape = shape
	}

	if mc.Scale < 0 {
		return nil, errorsx.Errorf("scale must not be negative, but was %f", mc.Scale)
	}
	marker.Scale = mc.Scale

	titleMode, err := styling.ParseTitleMode(mc.Title)
	if err != nil {
		return nil, err
	}
	marker.TitleMode = titleMode

	marker.TextStyle, err = lookupTextStyle(textStyles, mc.Text)
	if err != nil {
		return nil, err
	}

	marker.Line, err = mc.Line.build()
	if err != nil {
		return nil, errorsx.Wrap(err, "field", "line")
	}

	return marker, nil
}

func (lc *LegendConfig) build() (*mapmodel.Legend, errorsx.Error) {
	legend := mapmodel.DefaultLegend()

	if lc.Vertical != "" {
		legend.Vertical = mapmodel.VerticalPosition(lc.Vertical)
	}
	if lc.Horizontal != "" {
		legend.Horizontal = mapmodel.HorizontalPosition(lc.Horizontal)
	}
	if lc.Scale != 0 {
		legend.Scale = lc.Scale
	}

	switch lc.SortKey {
	case "":
	case SortKeyLabel:
		legend.SortKey = func(marker *styling.Marker) string {
			return marker.Label
		}
	case SortKeyID:
		legend.SortKey = func(marker *styling.Marker) string {
			return marker.ID
		}
	default:
		return nil, errorsx.Errorf("unknown legend sort key %q, expected %q or %q", lc.SortKey, SortKeyLabel, SortKeyID)
	}

	err := legend.Validate()
	if err != nil {
		return nil, err
	}

	return legend, nil
}
