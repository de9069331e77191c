package maprenderer

import (
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/smappy/rendersink"
)

// labelNudge moves labels down slightly from the anchor's centre line, in nominal pixels
const labelNudge = 2

// LabelPlacer puts labels to the right of their anchor, and keeps track of where they went.
// It does not move labels that collide; collisions are only logged.
type LabelPlacer struct {
	logger *logpkg.Logger
	placed []rendersink.Box
}

func NewLabelPlacer(logger *logpkg.Logger) *LabelPlacer {
	return &LabelPlacer{logger: logger}
}

// Place returns the top left corner for the label, and records the label's box.
// box is the label's size, as given by the sink's TextBoundingBox.
func (lp *LabelPlacer) Place(anchor rendersink.Point, text string, box rendersink.Box, clearance float64) rendersink.Point {
	position := rendersink.Point{
		X: anchor.X + clearance,
		Y: anchor.Y - box.Height()/2 + labelNudge,
	}

	candidate := rendersink.Box{
		Left:   position.X,
		Top:    position.Y,
		Right:  position.X + box.Width(),
		Bottom: position.Y + box.Height(),
	}

	if lp.Overlaps(candidate) {
		lp.logger.Debug("label %q at (%.1f, %.1f) conflicts with an already placed label", text, position.X, position.Y)
	}

	lp.placed = append(lp.placed, candidate)

	return position
}

// Overlaps checks if the candidate's top edge crosses the left edge of any placed box.
// Other kinds of overlap are not detected.
func (lp *LabelPlacer) Overlaps(candidate rendersink.Box) bool {
	for _, placed := range lp.placed {
		crossesHorizontally := candidate.Left <= placed.Left && placed.Left <= candidate.Right
		crossesVertically := placed.Top <= candidate.Top && candidate.Top <= placed.Bottom
		if crossesHorizontally && crossesVertically {
			return true
		}
	}
	return false
}

// Placed returns the boxes of all labels placed so far, in the order they were placed
func (lp *LabelPlacer) Placed() []rendersink.Box {
	return lp.placed
}
