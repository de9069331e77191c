package maprenderer

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/smappy/mapdal"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/jamesrr39/smappy/projection"
	"github.com/jamesrr39/smappy/rasteroverlay"
	"github.com/jamesrr39/smappy/rendersink"
	"github.com/jamesrr39/smappy/styling"
)

type Options struct {
	// Supersample is the raster antialiasing factor. It has no effect on vector output.
	Supersample int
}

func DefaultOptions() Options {
	return Options{
		Supersample: rendersink.DefaultSupersample,
	}
}

// MapRenderer draws a mapmodel.Map to a PNG or PDF file.
// It holds no state between renders, so one MapRenderer can be used for many concurrent renders.
type MapRenderer struct {
	logger        *logpkg.Logger
	fs            gofs.Fs
	featureSource mapdal.FeatureSource
	compositor    *rasteroverlay.Compositor
	options       Options
}

func NewMapRenderer(logger *logpkg.Logger, fs gofs.Fs, featureSource mapdal.FeatureSource, options Options) *MapRenderer {
	if options.Supersample <= 0 {
		options.Supersample = rendersink.DefaultSupersample
	}

	return &MapRenderer{
		logger:        logger,
		fs:            fs,
		featureSource: featureSource,
		compositor:    rasteroverlay.NewCompositor(logger),
		options:       options,
	}
}

// Render draws the map and writes it to path, adding the format's extension if path doesn't already have it.
// It returns the path written to.
func (mr *MapRenderer) Render(ctx context.Context, m *mapmodel.Map, format rendersink.Format, path string) (string, errorsx.Error) {
	if m.View == nil {
		return "", errorsx.Errorf("map has no view")
	}

	err := m.View.Validate()
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(filepath.Ext(path), format.Extension()) {
		path += format.Extension()
	}

	sink, err := rendersink.NewSink(format, m.View.Width, m.View.Height, rendersink.Options{Supersample: mr.options.Supersample})
	if err != nil {
		return "", err
	}

	projector, err := projection.Build(m.View, m.View.Width, m.View.Height)
	if err != nil {
		return "", err
	}

	mr.logger.Info("rendering %dx%d %s map with %d layers, %d markers and %d labels to %q", m.View.Width, m.View.Height, format, len(m.Layers), len(m.Markers), len(m.Labels), path)

	r := &render{
		MapRenderer: mr,
		m:           m,
		sink:        sink,
		projector:   projector,
		placer:      NewLabelPlacer(mr.logger),
	}

	err = r.draw(ctx)
	if err != nil {
		return "", err
	}

	endSpan := startSpan(ctx, "write")
	err = sink.Write(mr.fs, path)
	endSpan()
	if err != nil {
		return "", errorsx.Wrap(err, "path", path)
	}

	if m.View.Transform != nil {
		err = m.View.Transform(path)
		if err != nil {
			return "", errorsx.Wrap(err, "path", path)
		}
	}

	mr.logger.Info("rendered map to %q", path)

	return path, nil
}

// render is the state of a single Render call
type render struct {
	*MapRenderer
	m         *mapmodel.Map
	sink      rendersink.Sink
	projector *projection.Projector
	placer    *LabelPlacer
}

func (r *render) draw(ctx context.Context) errorsx.Error {
	r.drawBackground()

	for i, layer := range r.m.Layers {
		var err errorsx.Error
		switch layer := layer.(type) {
		case *mapmodel.ShapeLayer:
			endSpan := startSpan(ctx, fmt.Sprintf("shape layer %d: %q", i, layer.GeometryFile))
			err = r.drawShapeLayer(layer)
			endSpan()
		case *mapmodel.RasterLayer:
			endSpan := startSpan(ctx, fmt.Sprintf("raster layer %d: %q", i, layer.RasterFile))
			err = r.drawRasterLayer(layer)
			endSpan()
		default:
			err = errorsx.Errorf("unknown layer type: %T", layer)
		}
		if err != nil {
			return errorsx.Wrap(err, "layerIndex", i)
		}
	}

	endSpan := startSpan(ctx, "markers and labels")
	defer endSpan()

	for _, marker := range r.m.Markers {
		err := r.drawMarker(marker)
		if err != nil {
			return errorsx.Wrap(err, "markerTitle", marker.Title)
		}
	}

	for _, label := range r.m.Labels {
		err := r.drawTextLabel(label)
		if err != nil {
			return errorsx.Wrap(err, "label", label.Text)
		}
	}

	if r.m.Legend != nil {
		symbols := legendSymbols(r.m)
		if len(symbols) != 0 {
			err := RenderLegend(r.sink, symbols, r.m.Legend)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *render) drawBackground() {
	width, height := r.sink.Size()
	r.sink.Polygon([]rendersink.Point{
		{X: 0, Y: 0},
		{X: float64(width), Y: 0},
		{X: float64(width), Y: float64(height)},
		{X: 0, Y: float64(height)},
	}, nil, r.m.Background)
}

func (r *render) project(lng, lat float64) rendersink.Point {
	x, y := r.projector.Project(lng, lat)
	return rendersink.Point{X: x, Y: y}
}

func (r *render) drawShapeLayer(layer *mapmodel.ShapeLayer) errorsx.Error {
	features, err := r.featureSource.ReadFeatures(layer.GeometryFile)
	if err != nil {
		return err
	}

	features = mapdal.FilterFeatures(features, layer.Selectors)

	var fill color.Color
	if layer.FillColor != nil {
		if layer.FillOpacity <= 0 || layer.FillOpacity >= 1 {
			fill = *layer.FillColor
		} else {
			fill = layer.FillColor.WithOpacity(layer.FillOpacity)
		}
	}

	var pathCount int
	for _, feature := range features {
		drawableErr := mapdal.IsDrawable(feature.Geometry)
		if drawableErr != nil {
			r.logger.Debug("skipping feature in %q: %s", layer.GeometryFile, drawableErr.Error())
			continue
		}

		for _, path := range mapdal.Paths(feature.Geometry) {
			points := make([]rendersink.Point, len(path.Points))
			for i, point := range path.Points {
				points[i] = r.project(point.Lon(), point.Lat())
			}

			if path.Closed {
				r.sink.Polygon(points, layer.Line, fill)
			} else if layer.Line != nil {
				r.sink.Line(points, layer.Line)
			}
			pathCount++
		}
	}

	r.logger.Debug("shape layer %q: drew %d paths from %d features", layer.GeometryFile, pathCount, len(features))

	return nil
}

func (r *render) drawRasterLayer(layer *mapmodel.RasterLayer) errorsx.Error {
	dataset, err := mapdal.OpenRasterDataset(r.fs, layer.RasterFile)
	if err != nil {
		return err
	}
	defer dataset.Close()

	err = r.compositor.Composite(r.sink, r.m.View, r.projector, dataset, layer.Stops)
	if err != nil {
		return errorsx.Wrap(err, "rasterFile", layer.RasterFile)
	}

	return nil
}

func (r *render) drawMarker(positioned *mapmodel.PositionedMarker) errorsx.Error {
	marker := positioned.Marker
	if marker == nil {
		return errorsx.Errorf("marker has no style")
	}

	center := r.project(positioned.Lng, positioned.Lat)
	radius := marker.Radius()

	switch marker.Shape {
	case styling.ShapeCircle:
		r.sink.Circle(center, radius, marker.FillColor, marker.Line)
	case styling.ShapeSquare:
		r.sink.Polygon(squarePoints(center, radius), marker.Line, marker.FillColor)
	case styling.ShapeTriangle:
		r.sink.Polygon(trianglePoints(center, radius), marker.Line, marker.FillColor)
	default:
		return errorsx.Wrap(styling.ErrUnknownShape, "shape", int(marker.Shape))
	}

	if positioned.Title == "" {
		return nil
	}

	switch marker.TitleMode {
	case styling.TitleModeInsideSymbol:
		box, err := r.sink.TextBoundingBox(positioned.Title, marker.TextStyle)
		if err != nil {
			return err
		}
		position := rendersink.Point{
			X: center.X - box.Width()/2,
			Y: center.Y - box.Height()/2,
		}
		return r.sink.Text(position, positioned.Title, marker.TextStyle)
	case styling.TitleModeNextToSymbol:
		return r.placeText(center, positioned.Title, marker.TextStyle, radius)
	}

	return nil
}

func (r *render) drawTextLabel(label *mapmodel.TextLabel) errorsx.Error {
	return r.placeText(r.project(label.Lng, label.Lat), label.Text, label.Style, 0)
}

func (r *render) placeText(anchor rendersink.Point, text string, style styling.TextStyle, clearance float64) errorsx.Error {
	box, err := r.sink.TextBoundingBox(text, style)
	if err != nil {
		return err
	}

	position := r.placer.Place(anchor, text, box, clearance)

	return r.sink.Text(position, text, style)
}

func squarePoints(center rendersink.Point, radius float64) []rendersink.Point {
	return []rendersink.Point{
		{X: center.X - radius, Y: center.Y - radius},
		{X: center.X + radius, Y: center.Y - radius},
		{X: center.X + radius, Y: center.Y + radius},
		{X: center.X - radius, Y: center.Y + radius},
	}
}

// trianglePoints is an upward pointing equilateral triangle inscribed in the marker's circle
func trianglePoints(center rendersink.Point, radius float64) []rendersink.Point {
	points := make([]rendersink.Point, 3)
	for i := range points {
		angle := -math.Pi/2 + float64(i)*2*math.Pi/3
		points[i] = rendersink.Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return points
}
