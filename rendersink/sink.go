package rendersink

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/smappy/styling"
	"github.com/llgcode/draw2d"
)

var ErrUnsupportedFormat = errors.New("UnsupportedFormat: output format not supported")

// Point is a position on the canvas, in nominal pixels. 0,0 is the top left.
type Point struct {
	X float64
	Y float64
}

// Box is an axis aligned rectangle on the canvas, in nominal pixels
type Box struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (b Box) Width() float64 {
	return b.Right - b.Left
}

func (b Box) Height() float64 {
	return b.Bottom - b.Top
}

// Translate returns the box moved by p
func (b Box) Translate(p Point) Box {
	return Box{
		Left:   b.Left + p.X,
		Top:    b.Top + p.Y,
		Right:  b.Right + p.X,
		Bottom: b.Bottom + p.Y,
	}
}

// Sink is a drawing surface. All coordinates and sizes are given in nominal pixels,
// whatever the resolution the implementation draws at.
type Sink interface {
	// Size is the nominal canvas size
	Size() (width, height int)
	// Polygon draws a closed ring. A nil line and nil fill draws nothing.
	Polygon(points []Point, line *styling.LineFormat, fill color.Color)
	// Line draws an open path
	Line(points []Point, line *styling.LineFormat)
	Circle(center Point, radius float64, fill color.Color, line *styling.LineFormat)
	// TextBoundingBox measures text drawn with its top left corner at 0,0
	TextBoundingBox(text string, style styling.TextStyle) (Box, errorsx.Error)
	// Text draws a single line of text with its top left corner at pt
	Text(pt Point, text string, style styling.TextStyle) errorsx.Error
	// Bitmap composites img onto the canvas at origin, one image pixel per nominal pixel.
	// Only pixels where mask is 255 are drawn.
	Bitmap(img image.Image, mask *image.Alpha, origin Point) errorsx.Error
	// Write encodes the canvas to path
	Write(fs gofs.Fs, path string) errorsx.Error
}

type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

var AllFormats = []Format{FormatPNG, FormatPDF}

func ParseFormat(name string) (Format, errorsx.Error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, supported := range AllFormats {
		if format == supported {
			return format, nil
		}
	}

	return "", errorsx.Wrap(ErrUnsupportedFormat, "format", name)
}

// Extension returns the file extension for the format, including the leading "."
func (f Format) Extension() string {
	return "." + string(f)
}

type Options struct {
	// Supersample is the factor the raster sink draws at. Ignored by the vector sink.
	Supersample int
}

const DefaultSupersample = 4

func DefaultOptions() Options {
	return Options{
		Supersample: DefaultSupersample,
	}
}

func NewSink(format Format, width, height int, options Options) (Sink, errorsx.Error) {
	switch format {
	case FormatPNG:
		return NewRasterSink(width, height, options.Supersample), nil
	case FormatPDF:
		return NewVectorSink(width, height), nil
	default:
		return nil, errorsx.Wrap(ErrUnsupportedFormat, "format", format)
	}
}

// scaler multiplies every coordinate and width passed through it
type scaler float64

func (s scaler) point(p Point) (float64, float64) {
	return p.X * float64(s), p.Y * float64(s)
}

// tracePath adds the points to the current path of gc. Nothing is added for an empty path.
func tracePath(gc draw2d.GraphicContext, points []Point, scale scaler, closed bool) bool {
	if len(points) == 0 {
		return false
	}

	gc.BeginPath()
	for i, p := range points {
		x, y := scale.point(p)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	if closed {
		gc.Close()
	}
	return true
}

func applyLineFormat(gc draw2d.GraphicContext, line *styling.LineFormat, scale scaler) {
	gc.SetStrokeColor(line.Color)
	gc.SetLineWidth(line.Width * float64(scale))

	dash := line.Dash.Array()
	for i := range dash {
		dash[i] *= float64(scale)
	}
	gc.SetLineDash(dash, 0)
}

func hasStroke(line *styling.LineFormat) bool {
	return line != nil && line.Width > 0
}

// fillAndStroke draws the current path of gc. Fill goes underneath the outline.
func fillAndStroke(gc draw2d.GraphicContext, line *styling.LineFormat, fill color.Color, scale scaler) {
	if fill != nil {
		gc.SetFillColor(fill)
	}
	if hasStroke(line) {
		applyLineFormat(gc, line, scale)
	}

	switch {
	case fill != nil && hasStroke(line):
		gc.FillStroke()
	case fill != nil:
		gc.Fill()
	case hasStroke(line):
		gc.Stroke()
	}
}

// haloOffsets gives the positions the halo color is painted at, around each glyph
func haloOffsets(radius float64) []Point {
	if radius <= 0 {
		return nil
	}

	const steps = 16
	var offsets []Point
	for _, ring := range []float64{radius / 2, radius} {
		for i := 0; i < steps; i++ {
			angle := 2 * math.Pi * float64(i) / steps
			offsets = append(offsets, Point{X: ring * math.Cos(angle), Y: ring * math.Sin(angle)})
		}
	}
	return offsets
}
