package rendersink

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/smappy/fonts"
	"github.com/jamesrr39/smappy/styling"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// RasterSink draws onto an in-memory image, Supersample times bigger than the nominal size.
// The image is shrunk down to the nominal size when it is written, which smooths the edges.
type RasterSink struct {
	width, height int
	scale         scaler
	img           *image.RGBA
	gc            *draw2dimg.GraphicContext
}

func NewRasterSink(width, height, supersample int) *RasterSink {
	if supersample < 1 {
		supersample = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width*supersample, height*supersample))

	return &RasterSink{
		width:  width,
		height: height,
		scale:  scaler(supersample),
		img:    img,
		gc:     draw2dimg.NewGraphicContext(img),
	}
}

func (s *RasterSink) Size() (int, int) {
	return s.width, s.height
}

func (s *RasterSink) Polygon(points []Point, line *styling.LineFormat, fill color.Color) {
	if fill == nil && !hasStroke(line) {
		return
	}

	if !tracePath(s.gc, points, s.scale, true) {
		return
	}

	fillAndStroke(s.gc, line, fill, s.scale)
}

func (s *RasterSink) Line(points []Point, line *styling.LineFormat) {
	if !hasStroke(line) || len(points) < 2 {
		return
	}

	tracePath(s.gc, points, s.scale, false)
	fillAndStroke(s.gc, line, nil, s.scale)
}

func (s *RasterSink) Circle(center Point, radius float64, fill color.Color, line *styling.LineFormat) {
	if fill == nil && !hasStroke(line) {
		return
	}

	x, y := s.scale.point(center)

	s.gc.BeginPath()
	draw2dkit.Circle(s.gc, x, y, radius*float64(s.scale))
	fillAndStroke(s.gc, line, fill, s.scale)
}

func (s *RasterSink) face(style styling.TextStyle, scale float64) (*truetype.Font, font.Face, errorsx.Error) {
	ttFont, err := fonts.Lookup(style.FontName)
	if err != nil {
		return nil, nil, err
	}

	face := truetype.NewFace(ttFont, &truetype.Options{
		Size: style.Size * scale,
		DPI:  72,
	})

	return ttFont, face, nil
}

func (s *RasterSink) TextBoundingBox(text string, style styling.TextStyle) (Box, errorsx.Error) {
	_, face, err := s.face(style, float64(s.scale))
	if err != nil {
		return Box{}, err
	}
	defer face.Close()

	return measureText(face, text, float64(s.scale)), nil
}

func measureText(face font.Face, text string, scale float64) Box {
	metrics := face.Metrics()
	advance := font.MeasureString(face, text)

	return Box{
		Right:  fixedToFloat(advance) / scale,
		Bottom: fixedToFloat(metrics.Ascent+metrics.Descent) / scale,
	}
}

func (s *RasterSink) Text(pt Point, text string, style styling.TextStyle) errorsx.Error {
	ttFont, face, err := s.face(style, float64(s.scale))
	if err != nil {
		return err
	}
	defer face.Close()

	x, y := s.scale.point(pt)
	baseline := y + fixedToFloat(face.Metrics().Ascent)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttFont)
	ctx.SetFontSize(style.Size * float64(s.scale))
	ctx.SetClip(s.img.Bounds())
	ctx.SetDst(s.img)

	ctx.SetSrc(image.NewUniform(style.HaloColor))
	for _, offset := range haloOffsets(style.HaloRadius * float64(s.scale)) {
		_, drawErr := ctx.DrawString(text, floatToFixedPoint(x+offset.X, baseline+offset.Y))
		if drawErr != nil {
			return errorsx.Wrap(drawErr, "text", text)
		}
	}

	ctx.SetSrc(image.NewUniform(style.FillColor))
	_, drawErr := ctx.DrawString(text, floatToFixedPoint(x, baseline))
	if drawErr != nil {
		return errorsx.Wrap(drawErr, "text", text)
	}

	return nil
}

func (s *RasterSink) Bitmap(img image.Image, mask *image.Alpha, origin Point) errorsx.Error {
	bounds := img.Bounds()
	if mask != nil && !mask.Bounds().Eq(bounds) {
		return errorsx.Errorf("mask bounds %v don't match image bounds %v", mask.Bounds(), bounds)
	}

	x, y := s.scale.point(origin)
	factor := float64(s.scale)
	dstRect := image.Rect(
		int(math.Round(x)),
		int(math.Round(y)),
		int(math.Round(x+float64(bounds.Dx())*factor)),
		int(math.Round(y+float64(bounds.Dy())*factor)),
	)

	options := &xdraw.Options{}
	if mask != nil {
		options.SrcMask = mask
		options.SrcMaskP = bounds.Min
	}

	xdraw.NearestNeighbor.Scale(s.img, dstRect, img, bounds, draw.Over, options)

	return nil
}

// Image returns the canvas shrunk to the nominal size
func (s *RasterSink) Image() *image.RGBA {
	if s.scale == 1 {
		return s.img
	}

	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), draw.Src, nil)
	return dst
}

func (s *RasterSink) Write(fs gofs.Fs, path string) errorsx.Error {
	img := s.Image()

	file, err := fs.Create(path)
	if err != nil {
		return errorsx.Wrap(err, "path", path)
	}
	defer file.Close()

	err = png.Encode(file, img)
	if err != nil {
		return errorsx.Wrap(err, "path", path)
	}

	err = file.Close()
	if err != nil {
		return errorsx.Wrap(err, "path", path)
	}

	return nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixedPoint(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(x * 64)),
		Y: fixed.Int26_6(math.Round(y * 64)),
	}
}
