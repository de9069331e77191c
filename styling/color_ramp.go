package styling

import (
	"math"
)

// positions this close to an anchor snap to it, so float noise from i/n sampling doesn't blend
const anchorEpsilon = 1e-9

// ColorRamp is a perceptual color scale, defined by evenly spaced anchor colors
type ColorRamp []Color

// MagmaRamp is sampled from the magma colormap at 0, 0.1, 0.2, ... 1
var MagmaRamp = ColorRamp{
	MustParseColor("#000004"),
	MustParseColor("#140e36"),
	MustParseColor("#3b0f70"),
	MustParseColor("#641a80"),
	MustParseColor("#8c2981"),
	MustParseColor("#b73779"),
	MustParseColor("#de4968"),
	MustParseColor("#f7705c"),
	MustParseColor("#fe9f6d"),
	MustParseColor("#fecf92"),
	MustParseColor("#fcfdbf"),
}

// At returns the ramp color at position t (0 to 1). Between anchors the colors are blended in Lab space.
func (ramp ColorRamp) At(t float64) Color {
	if len(ramp) == 0 {
		return Black
	}
	if len(ramp) == 1 {
		return ramp[0]
	}

	t = clampUnit(t)
	scaled := t * float64(len(ramp)-1)
	lowIndex := int(math.Floor(scaled))
	if lowIndex >= len(ramp)-1 {
		return ramp[len(ramp)-1]
	}

	fraction := scaled - float64(lowIndex)
	if fraction < anchorEpsilon {
		return ramp[lowIndex]
	}
	if fraction > 1-anchorEpsilon {
		return ramp[lowIndex+1]
	}

	blended := ramp[lowIndex].colorful().BlendLab(ramp[lowIndex+1].colorful(), fraction).Clamped()
	return Color{blended.R, blended.G, blended.B}
}

// Sample returns count colors evenly spaced along the ramp, from start to end (inclusive)
func (ramp ColorRamp) Sample(count int) []Color {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []Color{ramp.At(0)}
	}

	colors := make([]Color, count)
	for i := range colors {
		colors[i] = ramp.At(float64(i) / float64(count-1))
	}
	return colors
}
