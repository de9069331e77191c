package styling

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var ErrUnsupportedColorSpec = errors.New("unsupported color spec")

// Color is an opaque RGB color, each channel between 0 and 1.
// It implements color.Color, so it can be handed straight to the drawing libraries.
type Color struct {
	R float64
	G float64
	B float64
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

var rgbPercentRegexp = regexp.MustCompile(`^rgb\(\s*([0-9]+(?:\.[0-9]+)?)%\s*,\s*([0-9]+(?:\.[0-9]+)?)%\s*,\s*([0-9]+(?:\.[0-9]+)?)%\s*\)$`)

// ParseColor accepts "#rrggbb" (or "#rgb"), "rgb(10%, 20%, 30%)" or a named color ("black", "white", "red", ...)
func ParseColor(spec string) (Color, errorsx.Error) {
	spec = strings.TrimSpace(spec)

	matches := rgbPercentRegexp.FindStringSubmatch(spec)
	if matches != nil {
		var channels [3]float64
		for i, match := range matches[1:] {
			percent, err := strconv.ParseFloat(match, 64)
			if err != nil {
				return Color{}, errorsx.Wrap(err, "spec", spec)
			}
			channels[i] = clampUnit(percent / 100)
		}
		return Color{channels[0], channels[1], channels[2]}, nil
	}

	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(spec)
		if err != nil {
			return Color{}, errorsx.Wrap(ErrUnsupportedColorSpec, "spec", spec)
		}
		return Color{c.R, c.G, c.B}, nil
	}

	named, ok := colornames.Map[strings.ToLower(spec)]
	if ok {
		return FromColor(named), nil
	}

	return Color{}, errorsx.Wrap(ErrUnsupportedColorSpec, "spec", spec)
}

// MustParseColor is for color constants known at compile time
func MustParseColor(spec string) Color {
	c, err := ParseColor(spec)
	if err != nil {
		panic(fmt.Sprintf("couldn't parse color %q: %s", spec, err.Error()))
	}
	return c
}

// FromColor converts any color.Color, discarding alpha.
func FromColor(c color.Color) Color {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float64(nrgba.R) / 255,
		G: float64(nrgba.G) / 255,
		B: float64(nrgba.B) / 255,
	}
}

// Hex returns the lower case "#rrggbb" form of the color
func (c Color) Hex() string {
	r, g, b := c.RGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func (c Color) String() string {
	return c.Hex()
}

// RGB8 returns each channel scaled to 0-255, rounded half up
func (c Color) RGB8() (uint8, uint8, uint8) {
	return to255(c.R), to255(c.G), to255(c.B)
}

// RGBA implements color.Color. The color is always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: to255(c.R), G: to255(c.G), B: to255(c.B), A: 0xff}.RGBA()
}

// WithOpacity returns the color as a non-premultiplied color with the given opacity (0 to 1)
func (c Color) WithOpacity(opacity float64) color.NRGBA {
	r, g, b := c.RGB8()
	return color.NRGBA{R: r, G: g, B: b, A: to255(opacity)}
}

// Lerp linearly interpolates each channel. t=0 gives c, t=1 gives other.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func to255(v float64) uint8 {
	return uint8(math.Floor(clampUnit(v)*255 + 0.5))
}
