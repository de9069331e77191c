package rasteroverlay

import (
	"image"
	"image/color"

	"github.com/jamesrr39/smappy/styling"
)

const (
	maskUnset    uint8 = 0
	maskNoData   uint8 = 128
	maskRendered uint8 = 255
)

// Buffer is the canvas-sized overlay the raster is sampled into, before it is handed to the sink.
// Each pixel is unset (never sampled), no-data (sampled, but below the lowest stop) or rendered.
type Buffer struct {
	width, height int
	colors        []styling.Color
	mask          []uint8
}

func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		colors: make([]styling.Color, width*height),
		mask:   make([]uint8, width*height),
	}
}

func (b *Buffer) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return y*b.width + x, true
}

// Set marks the pixel as rendered. Out of range pixels are ignored.
func (b *Buffer) Set(x, y int, c styling.Color) bool {
	i, ok := b.index(x, y)
	if !ok {
		return false
	}

	b.colors[i] = c
	b.mask[i] = maskRendered
	return true
}

// SetNoData marks the pixel as sampled without a value, unless it has already been rendered
func (b *Buffer) SetNoData(x, y int) bool {
	i, ok := b.index(x, y)
	if !ok {
		return false
	}

	if b.mask[i] != maskRendered {
		b.mask[i] = maskNoData
	}
	return true
}

func (b *Buffer) At(x, y int) (styling.Color, bool) {
	i, ok := b.index(x, y)
	if !ok || b.mask[i] != maskRendered {
		return styling.Color{}, false
	}
	return b.colors[i], true
}

// FillGaps fills runs of unset pixels lying between two rendered pixels, first along each row
// and then along each column. A no-data pixel ends the run.
func (b *Buffer) FillGaps() {
	for y := 0; y < b.height; y++ {
		b.fillLine(y*b.width, 1, b.width)
	}
	for x := 0; x < b.width; x++ {
		b.fillLine(x, b.width, b.height)
	}
}

// fillLine walks count pixels from start, stride apart
func (b *Buffer) fillLine(start, stride, count int) {
	previous := -1
	for n := 0; n < count; n++ {
		i := start + n*stride

		switch b.mask[i] {
		case maskNoData:
			previous = -1
		case maskRendered:
			if previous >= 0 && n-previous > 1 {
				from := b.colors[start+previous*stride]
				to := b.colors[i]
				gap := float64(n - previous)
				for k := previous + 1; k < n; k++ {
					j := start + k*stride
					b.colors[j] = from.Lerp(to, float64(k-previous)/gap)
					b.mask[j] = maskRendered
				}
			}
			previous = n
		}
	}
}

// Image returns the colors and a mask which is opaque for rendered pixels and transparent otherwise
func (b *Buffer) Image() (*image.RGBA, *image.Alpha) {
	bounds := image.Rect(0, 0, b.width, b.height)
	img := image.NewRGBA(bounds)
	mask := image.NewAlpha(bounds)

	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			i := y*b.width + x
			if b.mask[i] != maskRendered {
				continue
			}

			r, g, bl := b.colors[i].RGB8()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bl, A: 0xff})
			mask.SetAlpha(x, y, color.Alpha{A: 0xff})
		}
	}

	return img, mask
}
