// Package report summarizes the event yields of every control region into a
// text table and a small comparison chart, as a cross-check alongside the
// per-histogram figures.
package report

import (
	"bytes"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pastika/LongExerciseSusyTopTag/src/store"
	"github.com/pastika/LongExerciseSusyTopTag/src/types"
)

// Yield holds one region's integrated event counts for the reference
// histogram, including under/overflow.
type Yield struct {
	Region     string  `json:"region"`
	Data       float64 `json:"data"`
	Background float64 `json:"background"`
	Ratio      float64 `json:"ratio"`
}

// Collect sums the reference histogram for every region's data sample and
// background stack. Regions with missing inputs are skipped with a warning;
// an error is returned only when nothing could be collected at all.
//
// The config must already have its input paths resolved.
func Collect(pool *store.Pool, cfg types.Config, histName string) ([]Yield, error) {
	var out []Yield
	for _, region := range cfg.Regions {
		name := region.Name + "/" + histName
		data, err := pool.Get(region.Data.File, name)
		if err != nil {
			store.Warnf("yields: region %s: %v", region.Name, err)
			continue
		}
		bg := 0.0
		ok := true
		for _, s := range cfg.Backgrounds {
			h, err := pool.Get(s.File, name)
			if err != nil {
				store.Warnf("yields: region %s: %v", region.Name, err)
				ok = false
				break
			}
			bg += h.Integral()
		}
		if !ok {
			continue
		}
		y := Yield{Region: region.Name, Data: data.Integral(), Background: bg}
		if bg != 0 {
			y.Ratio = y.Data / bg
		}
		out = append(out, y)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("report: no region yielded %q", histName)
	}
	return out, nil
}

// WriteTable prints the yields as an aligned text table.
func WriteTable(w io.Writer, ys []Yield) {
	fmt.Fprintf(w, "%-12s %14s %14s %9s\n", "REGION", "DATA", "BACKGROUND", "DATA/BG")
	for _, y := range ys {
		fmt.Fprintf(w, "%-12s %14.4e %14.4e %9.3f\n", y.Region, y.Data, y.Background, y.Ratio)
	}
}

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
		DotWidth:    4,
		DotColor:    col,
	}
}

// seriesXY guards against single-point series, which the chart library
// refuses to range over; the lone point is simply repeated.
func seriesXY(xs, ys []float64) ([]float64, []float64) {
	if len(xs) == 1 {
		return []float64{xs[0], xs[0] + 1}, []float64{ys[0], ys[0]}
	}
	return xs, ys
}

// Chart renders data versus total background per region as a PNG.
func Chart(ys []Yield, width, height int) ([]byte, error) {
	if len(ys) == 0 {
		return nil, fmt.Errorf("report: no yields to chart")
	}
	xs := make([]float64, len(ys))
	dataY := make([]float64, len(ys))
	bgY := make([]float64, len(ys))
	ticks := make([]chart.Tick, len(ys))
	minY, maxY := ys[0].Data, ys[0].Data
	for i, y := range ys {
		xs[i] = float64(i)
		dataY[i] = y.Data
		bgY[i] = y.Background
		ticks[i] = chart.Tick{Value: float64(i), Label: y.Region}
		for _, v := range []float64{y.Data, y.Background} {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}
	lo, hi := niceAxisBounds(minY, maxY)

	dxs, dys := seriesXY(xs, dataY)
	bxs, bys := seriesXY(xs, bgY)
	ch := chart.Chart{
		Title:      "Control-region yields",
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			Name:  "events",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: niceTicks(lo, hi, 6),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Data", XValues: dxs, YValues: dys, Style: pointStyle(chart.ColorBlack)},
			chart.ContinuousSeries{Name: "Background", XValues: bxs, YValues: bys, Style: pointStyle(chart.ColorBlue)},
		},
	}
	ch.Width = width
	ch.Height = height
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("report: render: %w", err)
	}
	return buf.Bytes(), nil
}
