// Package plotting renders control-region comparison figures: a stacked
// background, overlaid data and signal series, and a data/background ratio
// panel underneath. The y-axis range is chosen so the legend box never sits
// on top of the bins drawn behind it.
package plotting

import (
	"math"

	"github.com/pastika/LongExerciseSusyTopTag/src/hist"
)

// PadMargins are the fractional margins of a pad, each in [0, 1).
type PadMargins struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// LegendBox is the legend rectangle in normalized pad coordinates.
// (X1, Y1) is the bottom-left corner, (X2, Y2) the top-right.
type LegendBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Sentinel start values for the range scan. A series with no qualifying bins
// leaves the accumulator untouched.
const (
	UnsetMin = 9e99
	UnsetMax = -9e99
)

// epsBin is the threshold below which a bin counts as empty when looking for
// the smallest positive value.
const epsBin = 1e-10

// RangeResult accumulates the y-extent of every series drawn on one pad.
// Min is the smallest strictly positive bin value seen (log-scale floor
// candidate), Max the largest bin value, and ZoneMax the largest value among
// only the bins lying horizontally behind the legend. Use NewRangeResult to
// start from the sentinels.
type RangeResult struct {
	Min     float64
	Max     float64
	ZoneMax float64
}

// NewRangeResult returns an accumulator at its sentinel state.
func NewRangeResult() *RangeResult {
	return &RangeResult{Min: UnsetMin, Max: UnsetMax, ZoneMax: UnsetMax}
}

// Merge folds one series' scan results into the running state. Max and
// ZoneMax only ever grow, Min only ever shrinks, so series order does not
// matter.
func (r *RangeResult) Merge(min, max, zoneMax float64) {
	if min < r.Min {
		r.Min = min
	}
	if max > r.Max {
		r.Max = max
	}
	if zoneMax > r.ZoneMax {
		r.ZoneMax = zoneMax
	}
}

// Observe scans one series and merges it into the accumulator. withErr adds
// each bin's uncertainty to its value before any comparison, which is how
// data points (drawn with error bars) claim the room their bars occupy.
func (r *RangeResult) Observe(s *hist.Series, m PadMargins, legendLeftX float64, withErr bool) {
	min, max := SeriesMinMax(s, withErr)
	r.Merge(min, max, ZoneMax(s, m, legendLeftX, withErr))
}

func binValue(s *hist.Series, i int, withErr bool) float64 {
	v := s.Value(i)
	if withErr {
		v += s.Err(i)
	}
	return v
}

// SeriesMinMax scans every bin of s and returns the smallest value above
// epsBin and the largest value. Bins at or below epsBin count for the max
// but are ignored for the min, so an all-zero series reports UnsetMin.
func SeriesMinMax(s *hist.Series, withErr bool) (min, max float64) {
	min, max = UnsetMin, UnsetMax
	for i := 0; i < s.Bins(); i++ {
		v := binValue(s, i, withErr)
		if v > max {
			max = v
		}
		if v > epsBin && v < min {
			min = v
		}
	}
	return min, max
}

// zoneThreshold maps the legend's left edge from normalized pad coordinates
// into bin-index space, assuming the n bins span the plotting area evenly.
// The result is truncated toward zero and clamped to [0, n].
func zoneThreshold(n int, m PadMargins, legendLeftX float64) int {
	span := (1 - m.Right) - m.Left
	t := int(float64(n) * (legendLeftX - m.Left) / span)
	if t < 0 {
		t = 0
	}
	if t > n {
		t = n
	}
	return t
}

// ZoneMax returns the largest value among the bins at or past the legend's
// left edge, or UnsetMax when no bin qualifies.
func ZoneMax(s *hist.Series, m PadMargins, legendLeftX float64, withErr bool) float64 {
	max := UnsetMax
	for i := zoneThreshold(s.Bins(), m, legendLeftX); i < s.Bins(); i++ {
		if v := binValue(s, i, withErr); v > max {
			max = v
		}
	}
	return max
}

// AxisRange picks the y-axis bounds for the upper pad from the accumulated
// extents so that the legend, drawn at leg, clears the bins behind it.
//
// On a log axis the floor is the fixed 0.2 policy value and the ceiling gets
// one decade of headroom; when the zone maximum would reach into the decades
// covered by the legend, the ceiling is raised exponentially just far enough
// that the legend's bottom edge lands on the zone maximum's decade. The
// linear branch is the additive analogue with a 1.3 headroom factor.
func AxisRange(r *RangeResult, logY bool, leg LegendBox, m PadMargins) (lo, hi float64) {
	max := r.Max
	padFrac := (leg.Y2 - m.Bottom) / ((1 - m.Top) - m.Bottom)
	if logY {
		floor := math.Min(0.2, math.Max(0.2, 0.05*r.Min))
		legSpan := (math.Log10(3*max) - math.Log10(floor)) * padFrac
		legMin := legSpan + math.Log10(floor)
		if math.Log10(r.ZoneMax) > legMin {
			scale := (math.Log10(r.ZoneMax) - math.Log10(floor)) / (legMin - math.Log10(floor))
			max = math.Pow(max/floor, scale) * floor
		}
		return floor, 10 * max
	}
	legMin := 1.2 * max * padFrac
	if r.ZoneMax > legMin {
		max *= r.ZoneMax / legMin
	}
	return 0, 1.3 * max
}
