package choropleth

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/smappy/styling"
)

var ErrEmptyDataSet = errors.New("EmptyDataSet: no items with a value to classify")

const DefaultLevels = 10

var DefaultUndefinedColor = styling.Color{R: 0.6, G: 0.6, B: 0.6}

// Item is a region, identified by IDProperty == IDValue, with an optional value
type Item struct {
	IDProperty string
	IDValue    interface{}
	// Value is nil when there is no data for the region
	Value *float64
}

// Member identifies one region inside a StyleGroup
type Member struct {
	IDProperty string
	IDValue    interface{}
}

// StyleGroup is all the regions sharing one color
type StyleGroup struct {
	Color     styling.Color
	Undefined bool
	Members   []Member
}

type LegendEntry struct {
	Label string
	Color styling.Color
	Low   float64
	High  float64
}

type LabelFormatter func(low, high float64) string

func DefaultLabelFormatter(low, high float64) string {
	return fmt.Sprintf("%s - %s", formatNumber(low), formatNumber(high))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type Options struct {
	Levels         int
	UndefinedColor styling.Color
	LabelFormatter LabelFormatter
	Ramp           styling.ColorRamp
}

// DefaultOptions returns a new set of options each call
func DefaultOptions() Options {
	return Options{
		Levels:         DefaultLevels,
		UndefinedColor: DefaultUndefinedColor,
		LabelFormatter: DefaultLabelFormatter,
		Ramp:           styling.MagmaRamp,
	}
}

type Result struct {
	StyleGroups   []*StyleGroup
	LegendEntries []*LegendEntry
	// Colors are the Levels+1 bin colors
	Colors []styling.Color
}

// Classify buckets the items into Levels+1 equal width bins between the smallest and largest value.
// Items are grouped by color, in the order each color is first seen.
func Classify(items []Item, options Options) (*Result, errorsx.Error) {
	if options.Levels <= 0 {
		return nil, errorsx.Errorf("levels must be positive, but was %d", options.Levels)
	}
	if options.LabelFormatter == nil {
		options.LabelFormatter = DefaultLabelFormatter
	}
	if len(options.Ramp) == 0 {
		options.Ramp = styling.MagmaRamp
	}

	lowest, biggest, ok := valueRange(items)
	if !ok {
		return nil, errorsx.Wrap(ErrEmptyDataSet, "itemCount", len(items))
	}

	binWidth := (biggest - lowest) / float64(options.Levels)
	colors := options.Ramp.Sample(options.Levels + 1)

	var groups []*StyleGroup
	groupIndexes := make(map[string]int)
	for _, item := range items {
		var (
			color     styling.Color
			undefined bool
		)
		if item.Value == nil {
			color = options.UndefinedColor
			undefined = true
		} else {
			color = colors[Bin(*item.Value, lowest, binWidth, options.Levels)]
		}

		key := fmt.Sprintf("%t:%s", undefined, color.Hex())
		groupIndex, ok := groupIndexes[key]
		if !ok {
			groupIndex = len(groups)
			groupIndexes[key] = groupIndex
			groups = append(groups, &StyleGroup{Color: color, Undefined: undefined})
		}
		groups[groupIndex].Members = append(groups[groupIndex].Members, Member{
			IDProperty: item.IDProperty,
			IDValue:    item.IDValue,
		})
	}

	var entries []*LegendEntry
	for i := 0; i < options.Levels; i++ {
		low := lowest + float64(i)*binWidth
		high := lowest + float64(i+1)*binWidth
		entries = append(entries, &LegendEntry{
			Label: options.LabelFormatter(low, high),
			Color: colors[i],
			Low:   low,
			High:  high,
		})
	}

	return &Result{
		StyleGroups:   groups,
		LegendEntries: entries,
		Colors:        colors,
	}, nil
}

// Bin returns the bin index for value, rounding half up and clamped to [0, levels].
// With a zero bin width (all values equal) everything lands in bin 0.
func Bin(value, lowest, binWidth float64, levels int) int {
	if binWidth == 0 {
		return 0
	}

	bin := int(math.Floor((value-lowest)/binWidth + 0.5))
	if bin < 0 {
		return 0
	}
	if bin > levels {
		return levels
	}
	return bin
}

func valueRange(items []Item) (float64, float64, bool) {
	lowest := math.Inf(1)
	biggest := math.Inf(-1)
	found := false
	for _, item := range items {
		if item.Value == nil {
			continue
		}
		found = true
		lowest = math.Min(lowest, *item.Value)
		biggest = math.Max(biggest, *item.Value)
	}
	return lowest, biggest, found
}

// FloatPtr is a helper for building Items
func FloatPtr(v float64) *float64 {
	return &v
}
