package rasteroverlay

import (
	"errors"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/smappy/mapdal"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/jamesrr39/smappy/projection"
	"github.com/jamesrr39/smappy/rendersink"
	"github.com/jamesrr39/smappy/styling"
)

var ErrNoColorStops = errors.New("raster layer has no color stops")

const maxNorthSearchSteps = 200

type Compositor struct {
	logger *logpkg.Logger
}

func NewCompositor(logger *logpkg.Logger) *Compositor {
	return &Compositor{logger}
}

// Composite samples the dataset onto a canvas-sized overlay, fills the gaps between the sampled
// cells and draws the result onto the sink. The projector must be built for the sink's nominal size.
func (c *Compositor) Composite(sink rendersink.Sink, view *mapmodel.MapView, projector *projection.Projector, dataset mapdal.RasterDataset, stops []mapmodel.ColorStop) errorsx.Error {
	if len(stops) == 0 {
		return errorsx.Wrap(ErrNoColorStops)
	}

	width, height := sink.Size()
	buffer := NewBuffer(width, height)

	north := FindCorrectNorth(view, projector)
	canvasEastLng, canvasSouthLat := projector.Unproject(float64(width), float64(height))

	startRow, startCol := dataset.CellAt(view.West, north)
	endRow, endCol := dataset.CellAt(canvasEastLng, math.Min(canvasSouthLat, view.South))

	rows, cols := dataset.Size()
	fromRow, toRow := clampRange(startRow, endRow, rows)
	fromCol, toCol := clampRange(startCol, endCol, cols)

	noData, hasNoData := dataset.NoDataValue()

	var sampled, skipped, outsideCanvas int
	for row := fromRow; row <= toRow; row++ {
		for col := fromCol; col <= toCol; col++ {
			value, err := dataset.ValueAt(row, col)
			if err != nil {
				if errorsx.Cause(err) == mapdal.ErrRasterIndexOutOfRange {
					skipped++
					continue
				}
				return errorsx.Wrap(err)
			}

			lng, lat := dataset.CoordAt(row, col)
			x, y := projector.Project(lng, lat)
			px, py := int(math.Floor(x)), int(math.Floor(y))

			var inCanvas bool
			if (hasNoData && value == noData) || value < stops[0].Threshold {
				inCanvas = buffer.SetNoData(px, py)
			} else {
				inCanvas = buffer.Set(px, py, ValueToColor(value, stops))
			}

			if inCanvas {
				sampled++
			} else {
				outsideCanvas++
			}
		}
	}

	c.logger.Debug("raster overlay: sampled %d cells (rows %d-%d, cols %d-%d). %d skipped, %d outside of the canvas", sampled, fromRow, toRow, fromCol, toCol, skipped, outsideCanvas)

	buffer.FillGaps()

	img, mask := buffer.Image()

	return sink.Bitmap(img, mask, rendersink.Point{})
}

func clampRange(a, b, size int) (int, int) {
	from, to := a, b
	if from > to {
		from, to = to, from
	}

	if from < 0 {
		from = 0
	}
	if to > size-1 {
		to = size - 1
	}
	return from, to
}

// FindCorrectNorth finds the latitude which is projected onto the top edge of the canvas (within one pixel).
// This is north of the view's north edge when the projected view box had to be made taller.
func FindCorrectNorth(view *mapmodel.MapView, projector *projection.Projector) float64 {
	lat := view.North
	step := math.Abs(view.North-view.South) / 2
	previousSign := 0

	for i := 0; i < maxNorthSearchSteps; i++ {
		_, y := projector.Project(view.West, lat)
		if math.Abs(y) <= 1 {
			return lat
		}

		// y grows going south, so a positive y means the latitude is too far south
		sign := 1
		if y < 0 {
			sign = -1
		}

		if previousSign != 0 && sign != previousSign {
			step /= 2
		}
		previousSign = sign

		lat = math.Min(89.9, math.Max(-89.9, lat+float64(sign)*step))
	}

	return lat
}

// ValueToColor maps the value onto the color ramp defined by the stops, interpolating between the enclosing pair.
// Values outside of the stops take the color of the nearest stop.
func ValueToColor(value float64, stops []mapmodel.ColorStop) styling.Color {
	if value <= stops[0].Threshold {
		return stops[0].Color
	}

	for i := 1; i < len(stops); i++ {
		low, high := stops[i-1], stops[i]
		if value > high.Threshold {
			continue
		}

		span := high.Threshold - low.Threshold
		if span == 0 {
			return high.Color
		}
		return low.Color.Lerp(high.Color, (value-low.Threshold)/span)
	}

	return stops[len(stops)-1].Color
}
