package maprenderer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/smappy/rendersink"
	"github.com/jamesrr39/smappy/styling"
)

// recordingSink logs every drawing operation as a line of text.
// Text is measured as half the font size per byte wide, and the font size high.
type recordingSink struct {
	width, height int
	ops           []string
}

func newRecordingSink(width, height int) *recordingSink {
	return &recordingSink{width: width, height: height}
}

func (s *recordingSink) Size() (int, int) {
	return s.width, s.height
}

func (s *recordingSink) Polygon(points []rendersink.Point, line *styling.LineFormat, fill color.Color) {
	s.ops = append(s.ops, fmt.Sprintf("polygon %s line=%s fill=%s", formatPoints(points), formatLine(line), formatFill(fill)))
}

func (s *recordingSink) Line(points []rendersink.Point, line *styling.LineFormat) {
	s.ops = append(s.ops, fmt.Sprintf("line %s line=%s", formatPoints(points), formatLine(line)))
}

func (s *recordingSink) Circle(center rendersink.Point, radius float64, fill color.Color, line *styling.LineFormat) {
	s.ops = append(s.ops, fmt.Sprintf("circle %s r=%.1f line=%s fill=%s", formatPoint(center), radius, formatLine(line), formatFill(fill)))
}

func (s *recordingSink) TextBoundingBox(text string, style styling.TextStyle) (rendersink.Box, errorsx.Error) {
	return rendersink.Box{
		Right:  float64(len(text)) * style.Size / 2,
		Bottom: style.Size,
	}, nil
}

func (s *recordingSink) Text(pt rendersink.Point, text string, style styling.TextStyle) errorsx.Error {
	s.ops = append(s.ops, fmt.Sprintf("text %s [%s] size=%.1f fill=%s", formatPoint(pt), text, style.Size, style.FillColor.Hex()))
	return nil
}

func (s *recordingSink) Bitmap(img image.Image, mask *image.Alpha, origin rendersink.Point) errorsx.Error {
	s.ops = append(s.ops, fmt.Sprintf("bitmap %s %dx%d", formatPoint(origin), img.Bounds().Dx(), img.Bounds().Dy()))
	return nil
}

func (s *recordingSink) Write(fs gofs.Fs, path string) errorsx.Error {
	err := fs.WriteFile(path, []byte(s.String()), 0600)
	if err != nil {
		return errorsx.Wrap(err)
	}
	return nil
}

func (s *recordingSink) String() string {
	var sb strings.Builder
	for _, op := range s.ops {
		sb.WriteString(op)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatPoint(p rendersink.Point) string {
	return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
}

func formatPoints(points []rendersink.Point) string {
	var formatted []string
	for _, p := range points {
		formatted = append(formatted, formatPoint(p))
	}
	return strings.Join(formatted, " ")
}

func formatLine(line *styling.LineFormat) string {
	if line == nil {
		return "none"
	}
	return fmt.Sprintf("%s/%.1f", line.Color.Hex(), line.Width)
}

func formatFill(fill color.Color) string {
	if fill == nil {
		return "none"
	}
	return styling.FromColor(fill).Hex()
}
