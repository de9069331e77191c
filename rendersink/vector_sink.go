package rendersink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"unicode/utf8"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/smappy/styling"
	"github.com/jung-kurt/gofpdf"
	"github.com/llgcode/draw2d/draw2dpdf"
)

const (
	// vector documents use the PDF core font; the style's font name is not embedded
	vectorFontFamily = "Helvetica"
	// ascent of the core font, as a fraction of the font size
	vectorFontAscent = 0.8
)

// VectorSink draws a single page PDF document, one point per nominal pixel.
// Text metrics come from the PDF core font, so they are only an approximation of the
// raster metrics for the same style.
type VectorSink struct {
	width, height int
	pdf           *gofpdf.Fpdf
	gc            *draw2dpdf.GraphicContext
	translate     func(string) string
	imageCount    int
}

func NewVectorSink(width, height int) *VectorSink {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size: gofpdf.SizeType{
			Wd: float64(width),
			Ht: float64(height),
		},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	return &VectorSink{
		width:     width,
		height:    height,
		pdf:       pdf,
		gc:        draw2dpdf.NewGraphicContext(pdf),
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (s *VectorSink) Size() (int, int) {
	return s.width, s.height
}

func (s *VectorSink) setFill(fill color.Color) {
	c := color.NRGBAModel.Convert(fill).(color.NRGBA)
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (s *VectorSink) resetAlpha() {
	s.pdf.SetAlpha(1, "Normal")
}

func (s *VectorSink) Polygon(points []Point, line *styling.LineFormat, fill color.Color) {
	if len(points) == 0 {
		return
	}

	if fill != nil {
		var pdfPoints []gofpdf.PointType
		for _, p := range points {
			pdfPoints = append(pdfPoints, gofpdf.PointType{X: p.X, Y: p.Y})
		}

		s.setFill(fill)
		s.pdf.Polygon(pdfPoints, "F")
		s.resetAlpha()
	}

	if hasStroke(line) {
		tracePath(s.gc, points, 1, true)
		fillAndStroke(s.gc, line, nil, 1)
	}
}

func (s *VectorSink) Line(points []Point, line *styling.LineFormat) {
	if !hasStroke(line) || len(points) < 2 {
		return
	}

	tracePath(s.gc, points, 1, false)
	fillAndStroke(s.gc, line, nil, 1)
}

func (s *VectorSink) Circle(center Point, radius float64, fill color.Color, line *styling.LineFormat) {
	if fill != nil {
		s.setFill(fill)
		s.pdf.Circle(center.X, center.Y, radius, "F")
		s.resetAlpha()
	}

	if hasStroke(line) {
		r, g, b := line.Color.RGB8()
		s.pdf.SetDrawColor(int(r), int(g), int(b))
		s.pdf.SetLineWidth(line.Width)
		s.pdf.SetDashPattern(line.Dash.Array(), 0)
		s.pdf.Circle(center.X, center.Y, radius, "D")
		s.pdf.SetDashPattern(nil, 0)
	}
}

func (s *VectorSink) TextBoundingBox(text string, style styling.TextStyle) (Box, errorsx.Error) {
	s.pdf.SetFont(vectorFontFamily, "", style.Size)
	width := s.pdf.GetStringWidth(s.translate(text))
	if width == 0 && text != "" {
		width = float64(utf8.RuneCountInString(text)) * style.Size / 2
	}

	return Box{
		Right:  width,
		Bottom: style.Size,
	}, nil
}

func (s *VectorSink) Text(pt Point, text string, style styling.TextStyle) errorsx.Error {
	s.pdf.SetFont(vectorFontFamily, "", style.Size)
	encoded := s.translate(text)
	baseline := pt.Y + style.Size*vectorFontAscent

	r, g, b := style.HaloColor.RGB8()
	s.pdf.SetTextColor(int(r), int(g), int(b))
	for _, offset := range haloOffsets(style.HaloRadius) {
		s.pdf.Text(pt.X+offset.X, baseline+offset.Y, encoded)
	}

	r, g, b = style.FillColor.RGB8()
	s.pdf.SetTextColor(int(r), int(g), int(b))
	s.pdf.Text(pt.X, baseline, encoded)

	if s.pdf.Err() {
		return errorsx.Wrap(s.pdf.Error(), "text", text)
	}

	return nil
}

func (s *VectorSink) Bitmap(img image.Image, mask *image.Alpha, origin Point) errorsx.Error {
	bounds := img.Bounds()
	if mask != nil && !mask.Bounds().Eq(bounds) {
		return errorsx.Errorf("mask bounds %v don't match image bounds %v", mask.Bounds(), bounds)
	}

	withAlpha := image.NewNRGBA(bounds)
	draw.Draw(withAlpha, bounds, img, bounds.Min, draw.Src)
	if mask != nil {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := withAlpha.PixOffset(x, y)
				withAlpha.Pix[i+3] = mask.AlphaAt(x, y).A
			}
		}
	}

	buf := bytes.NewBuffer(nil)
	err := png.Encode(buf, withAlpha)
	if err != nil {
		return errorsx.Wrap(err)
	}

	s.imageCount++
	name := fmt.Sprintf("bitmap-%d", s.imageCount)
	options := gofpdf.ImageOptions{ImageType: "PNG"}

	s.pdf.RegisterImageOptionsReader(name, options, buf)
	s.pdf.ImageOptions(name, origin.X, origin.Y, float64(bounds.Dx()), float64(bounds.Dy()), false, options, 0, "")

	if s.pdf.Err() {
		return errorsx.Wrap(s.pdf.Error(), "imageName", name)
	}

	return nil
}

func (s *VectorSink) Write(fs gofs.Fs, path string) errorsx.Error {
	if s.pdf.Err() {
		return errorsx.Wrap(s.pdf.Error(), "path", path)
	}

	file, err := fs.Create(path)
	if err != nil {
		return errorsx.Wrap(err, "path", path)
	}
	defer file.Close()

	err = s.pdf.Output(file)
	if err != nil {
		return errorsx.Wrap(err, "path", path)
	}

	err = file.Close()
	if err != nil {
		return errorsx.Wrap(err, "path", path)
	}

	return nil
}
