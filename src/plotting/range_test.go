package plotting

import (
	"math"
	"testing"

	"github.com/pastika/LongExerciseSusyTopTag/src/hist"
)

var (
	testMargins = PadMargins{Left: 0.12, Right: 0.06, Top: 0.08, Bottom: 0}
	testLegend  = LegendBox{X1: 0.50, Y1: 0.56, X2: 0.89, Y2: 0.88}
)

func seriesOf(t *testing.T, values, errs []float64) *hist.Series {
	t.Helper()
	edges := make([]float64, len(values)+1)
	for i := range edges {
		edges[i] = float64(i)
	}
	s, err := hist.New("test", edges, values, errs)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	return s
}

func near(a, b, rel float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= rel*math.Max(math.Abs(a), math.Abs(b))
}

func TestSeriesMinMax_IgnoresEmptyBinsForMin(t *testing.T) {
	s := seriesOf(t, []float64{0, 3, 0.5, 8, 0}, nil)
	min, max := SeriesMinMax(s, false)
	if min != 0.5 || max != 8 {
		t.Fatalf("got min=%v max=%v", min, max)
	}
}

func TestSeriesMinMax_WithUncertainty(t *testing.T) {
	s := seriesOf(t, []float64{1, 5}, []float64{0.5, 4})
	min, max := SeriesMinMax(s, true)
	if min != 1.5 || max != 9 {
		t.Fatalf("with err: min=%v max=%v", min, max)
	}
	min, max = SeriesMinMax(s, false)
	if min != 1 || max != 5 {
		t.Fatalf("without err: min=%v max=%v", min, max)
	}
}

func TestSeriesMinMax_AllZeroSeries(t *testing.T) {
	s := seriesOf(t, []float64{0, 0, 0}, nil)
	min, max := SeriesMinMax(s, false)
	if min != UnsetMin {
		t.Fatalf("all-zero series should leave min unset, got %v", min)
	}
	if max != 0 {
		t.Fatalf("all-zero series max should be 0, got %v", max)
	}
}

func TestSeriesMinMax_NegativeBins(t *testing.T) {
	s := seriesOf(t, []float64{-5, -2}, nil)
	min, max := SeriesMinMax(s, false)
	if min != UnsetMin || max != -2 {
		t.Fatalf("got min=%v max=%v", min, max)
	}
}

func TestZoneMax_LegendAtLeftMarginIncludesAllBins(t *testing.T) {
	vals := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	s := seriesOf(t, vals, nil)
	got := ZoneMax(s, testMargins, testMargins.Left, false)
	if got != 10 {
		t.Fatalf("zone max: %v", got)
	}
	// even further left maps below bin zero and still covers everything
	if got := ZoneMax(s, testMargins, 0.05, false); got != 10 {
		t.Fatalf("zone max left of margin: %v", got)
	}
}

func TestZoneMax_LegendAtRightMarginIncludesNoBins(t *testing.T) {
	s := seriesOf(t, []float64{10, 9, 8}, nil)
	if got := ZoneMax(s, testMargins, 1-testMargins.Right, false); got != UnsetMax {
		t.Fatalf("expected sentinel, got %v", got)
	}
	if got := ZoneMax(s, testMargins, 0.99, false); got != UnsetMax {
		t.Fatalf("expected sentinel past the margin, got %v", got)
	}
}

func TestZoneMax_InteriorThreshold(t *testing.T) {
	// threshold = int(10 * (0.50-0.12) / 0.82) = 4, so bins 4..9 are in zone
	vals := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	s := seriesOf(t, vals, nil)
	if got := ZoneMax(s, testMargins, 0.50, false); got != 6 {
		t.Fatalf("zone max over trailing bins: %v", got)
	}
	// uncertainty grows the in-zone values too
	errs := make([]float64, len(vals))
	errs[9] = 10
	s = seriesOf(t, vals, errs)
	if got := ZoneMax(s, testMargins, 0.50, true); got != 11 {
		t.Fatalf("zone max with uncertainty: %v", got)
	}
}

func TestMerge_MonotonicAndOrderIndependent(t *testing.T) {
	data := seriesOf(t, []float64{4, 40, 2}, []float64{1, 6, 0})
	bg := seriesOf(t, []float64{50, 8, 0.25}, nil)
	sig := seriesOf(t, []float64{0, 0, 0}, nil)

	observe := func(order []*hist.Series, withErr []bool) *RangeResult {
		r := NewRangeResult()
		for i, s := range order {
			r.Observe(s, testMargins, testLegend.X1, withErr[i])
		}
		return r
	}

	a := observe([]*hist.Series{data, bg, sig}, []bool{true, false, false})
	b := observe([]*hist.Series{sig, bg, data}, []bool{false, false, true})
	if *a != *b {
		t.Fatalf("merge depends on order: %+v vs %+v", a, b)
	}
	if a.Min != 0.25 || a.Max != 50 {
		t.Fatalf("merged extents: %+v", a)
	}
	// threshold = int(3*(0.50-0.12)/0.82) = 1, zone bins 1..2
	if a.ZoneMax != 46 {
		t.Fatalf("merged zone max: %v", a.ZoneMax)
	}

	// a later all-zero series must not reset anything
	a.Observe(sig, testMargins, testLegend.X1, false)
	if a.Min != 0.25 || a.Max != 50 || a.ZoneMax != 46 {
		t.Fatalf("all-zero series corrupted the merge: %+v", a)
	}
}

func TestObserve_RoundTripMatchesHandScan(t *testing.T) {
	s := seriesOf(t, []float64{3, 0, 7, 1}, []float64{1, 0, 2, 0})
	r := NewRangeResult()
	r.Observe(s, testMargins, testLegend.X1, true)

	min, max := SeriesMinMax(s, true)
	zone := ZoneMax(s, testMargins, testLegend.X1, true)
	if r.Min != min || r.Max != max || r.ZoneMax != zone {
		t.Fatalf("observe %+v, hand scan min=%v max=%v zone=%v", r, min, max, zone)
	}
}

func TestAxisRange_LogNoRescale(t *testing.T) {
	r := &RangeResult{Min: 1, Max: 100, ZoneMax: 50}
	lo, hi := AxisRange(r, true, testLegend, testMargins)
	if lo != 0.2 {
		t.Fatalf("log floor: %v", lo)
	}
	if hi != 1000 {
		t.Fatalf("upper bound should be exactly 10*max with no rescale, got %v", hi)
	}
}

func TestAxisRange_LogRescaleRaisesCeiling(t *testing.T) {
	r := &RangeResult{Min: 1, Max: 100, ZoneMax: 1e4}
	lo, hi := AxisRange(r, true, testLegend, testMargins)
	if lo != 0.2 {
		t.Fatalf("log floor: %v", lo)
	}
	if hi <= 1000 {
		t.Fatalf("ceiling should rise above the no-overlap bound, got %v", hi)
	}

	// a taller zone pushes the ceiling strictly higher
	r2 := &RangeResult{Min: 1, Max: 100, ZoneMax: 1e6}
	_, hi2 := AxisRange(r2, true, testLegend, testMargins)
	if hi2 <= hi {
		t.Fatalf("ceiling not monotonic in zone max: %v vs %v", hi2, hi)
	}
}

func TestAxisRange_LogRescaleClosedForm(t *testing.T) {
	// Build a zone max that makes the rescale exponent exactly 2. Then
	// max' = (max/floor)^2 * floor and the bound is 10*max'.
	const floor = 0.2
	padFrac := (testLegend.Y2 - testMargins.Bottom) / ((1 - testMargins.Top) - testMargins.Bottom)
	legMin := (math.Log10(3*100)-math.Log10(floor))*padFrac + math.Log10(floor)
	zone := math.Pow(10, 2*legMin-math.Log10(floor))

	r := &RangeResult{Min: 1, Max: 100, ZoneMax: zone}
	_, hi := AxisRange(r, true, testLegend, testMargins)
	want := 10 * math.Pow(100/floor, 2) * floor // 500000
	if !near(hi, want, 1e-9) {
		t.Fatalf("closed-form rescale: got %v want %v", hi, want)
	}
}

func TestAxisRange_LogZoneAtCollisionBoundaryDoesNotRescale(t *testing.T) {
	padFrac := (testLegend.Y2 - testMargins.Bottom) / ((1 - testMargins.Top) - testMargins.Bottom)
	legMin := (math.Log10(3*100)-math.Log10(0.2))*padFrac + math.Log10(0.2)
	r := &RangeResult{Min: 1, Max: 100, ZoneMax: math.Pow(10, legMin)}
	_, hi := AxisRange(r, true, testLegend, testMargins)
	if !near(hi, 1000, 1e-12) {
		t.Fatalf("boundary zone should not trigger rescale, got %v", hi)
	}
}

func TestAxisRange_LogFloorPolicyIsFixed(t *testing.T) {
	for _, min := range []float64{1e-8, 0.5, 1, 4, 1e6, UnsetMin} {
		r := &RangeResult{Min: min, Max: 100, ZoneMax: UnsetMax}
		lo, _ := AxisRange(r, true, testLegend, testMargins)
		if lo != 0.2 {
			t.Fatalf("min=%v: floor %v, want the fixed 0.2", min, lo)
		}
	}
}

func TestAxisRange_LogSentinelZoneIsHarmless(t *testing.T) {
	r := &RangeResult{Min: 1, Max: 100, ZoneMax: UnsetMax}
	lo, hi := AxisRange(r, true, testLegend, testMargins)
	if lo != 0.2 || hi != 1000 {
		t.Fatalf("sentinel zone changed the bounds: (%v, %v)", lo, hi)
	}
}

func TestAxisRange_LinearNoRescale(t *testing.T) {
	// legendMin = 1.2*10*(0.88/0.92) = 11.478..., zone 9 stays below it
	r := &RangeResult{Min: 0, Max: 10, ZoneMax: 9}
	lo, hi := AxisRange(r, false, testLegend, testMargins)
	if lo != 0 {
		t.Fatalf("linear floor: %v", lo)
	}
	if want := 1.3 * 10.0; !near(hi, want, 1e-12) {
		t.Fatalf("linear bound: got %v want %v", hi, want)
	}
}

func TestAxisRange_LinearRescale(t *testing.T) {
	r := &RangeResult{Min: 0, Max: 10, ZoneMax: 30}
	_, hi := AxisRange(r, false, testLegend, testMargins)
	padFrac := (testLegend.Y2 - testMargins.Bottom) / ((1 - testMargins.Top) - testMargins.Bottom)
	legMin := 1.2 * 10.0 * padFrac
	want := 1.3 * (10.0 * (30.0 / legMin))
	if !near(hi, want, 1e-12) {
		t.Fatalf("linear rescale: got %v want %v", hi, want)
	}

	_, hiSentinel := AxisRange(&RangeResult{Min: 0, Max: 10, ZoneMax: UnsetMax}, false, testLegend, testMargins)
	if !near(hiSentinel, 13, 1e-12) {
		t.Fatalf("sentinel zone should not rescale: %v", hiSentinel)
	}
}
