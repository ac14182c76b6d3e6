package plotting

import (
	"image/color"
	"testing"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/pastika/LongExerciseSusyTopTag/src/hist"
)

func mustSeries(t *testing.T, name string, edges, values, errs []float64) *hist.Series {
	t.Helper()
	s, err := hist.New(name, edges, values, errs)
	if err != nil {
		t.Fatalf("series %q: %v", name, err)
	}
	return s
}

func TestScatter_LogFloorFiltersAndClamps(t *testing.T) {
	s := mustSeries(t, "h",
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.05, 5, 0, 1},
		[]float64{0.01, 10, 0, 0.3})

	pts := scatter(s, true, 0.2)
	if pts.Len() != 2 {
		t.Fatalf("points: got %d want 2", pts.Len())
	}
	x, y := pts.XY(0)
	if x != 1.5 || y != 5 {
		t.Fatalf("point 0: (%v, %v)", x, y)
	}
	down, up := pts.YError(0)
	if !near(down, 4.8, 1e-12) || up != 10 {
		t.Fatalf("point 0 errors: (%v, %v)", down, up)
	}
	x, y = pts.XY(1)
	if x != 3.5 || y != 1 {
		t.Fatalf("point 1: (%v, %v)", x, y)
	}
	down, up = pts.YError(1)
	if down != 0.3 || up != 0.3 {
		t.Fatalf("point 1 errors: (%v, %v)", down, up)
	}
}

func TestScatter_LinearKeepsEverything(t *testing.T) {
	s := mustSeries(t, "h",
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.05, 5, 0, 1},
		[]float64{0.01, 10, 0, 0.3})

	pts := scatter(s, false, 0.2)
	if pts.Len() != 4 {
		t.Fatalf("points: got %d want 4", pts.Len())
	}
	down, up := pts.YError(1)
	if down != 10 || up != 10 {
		t.Fatalf("linear errors must stay symmetric: (%v, %v)", down, up)
	}
}

func TestRatioScatter_DropsZeroDenominatorMarkers(t *testing.T) {
	s := mustSeries(t, "ratio",
		[]float64{0, 1, 2, 3},
		[]float64{1.2, 0, 0.8},
		[]float64{0.1, 0, 0.2})

	pts := ratioScatter(s)
	if pts.Len() != 2 {
		t.Fatalf("points: got %d want 2", pts.Len())
	}
	x, y := pts.XY(1)
	if x != 2.5 || y != 0.8 {
		t.Fatalf("point 1: (%v, %v)", x, y)
	}
	down, up := pts.YError(0)
	if down != 0.1 || up != 0.1 {
		t.Fatalf("point 0 errors: (%v, %v)", down, up)
	}
}

func testFigure(t *testing.T) *figure {
	t.Helper()
	edges := []float64{100, 200, 300, 400}
	data := mustSeries(t, "data", edges, []float64{9, 4, 1}, nil)
	bg := mustSeries(t, "bg", edges, []float64{8, 4, 2}, nil)
	ratio, err := data.Divide(bg)
	if err != nil {
		t.Fatalf("ratio: %v", err)
	}
	return &figure{
		xLabel: "x",
		yLabel: "Events",
		yLo:    0,
		yHi:    13,
		data:   sample{label: "Data", color: color.NRGBA{A: 255}, series: data},
		bgs:    []sample{{label: "bg", color: color.NRGBA{R: 255, A: 255}, series: bg}},
		ratio:  ratio,
		legend: DefaultLegendBox,
	}
}

func TestBuild_AxisRangesAndLabels(t *testing.T) {
	f := testFigure(t)
	rp := f.build(vg.Length(800), vg.Length(800))

	if rp.Top.Y.Min != 0 || rp.Top.Y.Max != 13 {
		t.Fatalf("top y range: [%v, %v]", rp.Top.Y.Min, rp.Top.Y.Max)
	}
	// no explicit x range: bin edges of the data series
	if rp.Top.X.Min != 100 || rp.Top.X.Max != 400 {
		t.Fatalf("top x range: [%v, %v]", rp.Top.X.Min, rp.Top.X.Max)
	}
	if rp.Bottom.X.Min != rp.Top.X.Min || rp.Bottom.X.Max != rp.Top.X.Max {
		t.Fatalf("pads disagree on x: [%v, %v] vs [%v, %v]",
			rp.Top.X.Min, rp.Top.X.Max, rp.Bottom.X.Min, rp.Bottom.X.Max)
	}
	if rp.Bottom.Y.Min != ratioYMin || rp.Bottom.Y.Max != ratioYMax {
		t.Fatalf("ratio y range: [%v, %v]", rp.Bottom.Y.Min, rp.Bottom.Y.Max)
	}
	if rp.Bottom.Y.Label.Text != "Data / BG" {
		t.Fatalf("ratio label: %q", rp.Bottom.Y.Label.Text)
	}
	if rp.Bottom.X.Label.Text != "x" || rp.Top.Y.Label.Text != "Events" {
		t.Fatalf("axis labels: %q / %q", rp.Bottom.X.Label.Text, rp.Top.Y.Label.Text)
	}
	if _, ok := rp.Top.Y.Scale.(plot.LogScale); ok {
		t.Fatalf("linear figure must not get a log scale")
	}
}

func TestBuild_ExplicitRangeAndLogScale(t *testing.T) {
	f := testFigure(t)
	f.logY = true
	f.xMin, f.xMax = 150, 350
	f.yLo, f.yHi = 0.2, 1000
	rp := f.build(vg.Length(800), vg.Length(800))

	if rp.Top.X.Min != 150 || rp.Top.X.Max != 350 {
		t.Fatalf("explicit x range ignored: [%v, %v]", rp.Top.X.Min, rp.Top.X.Max)
	}
	if _, ok := rp.Top.Y.Scale.(plot.LogScale); !ok {
		t.Fatalf("log figure must get a log scale")
	}
	if rp.Top.Y.Min != 0.2 || rp.Top.Y.Max != 1000 {
		t.Fatalf("top y range: [%v, %v]", rp.Top.Y.Min, rp.Top.Y.Max)
	}
}

func TestLegendLabel(t *testing.T) {
	s := mustSeries(t, "QCD", []float64{0, 1}, []float64{120000}, nil)
	if got := legendLabel(sample{label: "QCD", series: s}); got != "QCD (1.2e+05)" {
		t.Fatalf("legend label: %q", got)
	}
}
