package projection

import (
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Projector maps WGS84 coordinates onto a canvas, via spherical web mercator.
// The projected view box is made square, so the map is never stretched.
type Projector struct {
	// bounds in meters, after the box has been made square
	westM, eastM, southM, northM float64

	pixelWidth, pixelHeight float64
}

func Build(view *mapmodel.MapView, pixelWidth, pixelHeight int) (*Projector, errorsx.Error) {
	northWest := project.WGS84.ToMercator(orb.Point{view.West, view.North})
	southEast := project.WGS84.ToMercator(orb.Point{view.East, view.South})

	westM, northM := northWest[0], northWest[1]
	eastM, southM := southEast[0], southEast[1]

	if westM == eastM || northM == southM {
		return nil, errorsx.Wrap(mapmodel.ErrDegenerateView, "west", view.West, "east", view.East, "south", view.South, "north", view.North)
	}

	width := eastM - westM
	height := northM - southM
	side := math.Max(math.Abs(width), math.Abs(height))

	// grow the short side, away from the west and south edges
	eastM = westM + math.Copysign(side, width)
	northM = southM + math.Copysign(side, height)

	return &Projector{
		westM:       westM,
		eastM:       eastM,
		southM:      southM,
		northM:      northM,
		pixelWidth:  float64(pixelWidth),
		pixelHeight: float64(pixelHeight),
	}, nil
}

// Project returns the canvas position of a point (lng, lat in degrees)
func (p *Projector) Project(lng, lat float64) (float64, float64) {
	return p.ProjectMeters(project.WGS84.ToMercator(orb.Point{lng, lat}))
}

// ProjectMeters returns the canvas position of an already projected (web mercator) point
func (p *Projector) ProjectMeters(point orb.Point) (float64, float64) {
	x := (p.westM - point[0]) / (p.westM - p.eastM) * p.pixelWidth
	y := (point[1] - p.northM) / (p.southM - p.northM) * p.pixelHeight
	return x, y
}

// Unproject returns the point (lng, lat in degrees) at a canvas position
func (p *Projector) Unproject(x, y float64) (float64, float64) {
	xM := p.westM - x/p.pixelWidth*(p.westM-p.eastM)
	yM := p.northM + y/p.pixelHeight*(p.southM-p.northM)
	point := project.Mercator.ToWGS84(orb.Point{xM, yM})
	return point[0], point[1]
}

// BoundsMeters returns the square box in web mercator meters
func (p *Projector) BoundsMeters() (west, east, south, north float64) {
	return p.westM, p.eastM, p.southM, p.northM
}
