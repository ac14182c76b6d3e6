package plotting

import (
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pastika/LongExerciseSusyTopTag/src/hist"
	"github.com/pastika/LongExerciseSusyTopTag/src/store"
	"github.com/pastika/LongExerciseSusyTopTag/src/types"
)

// Entry is one input slot of a comparison plot: where the histograms live
// and how to present them.
type Entry struct {
	Label string
	File  string
	Color color.NRGBA
}

// NewEntry resolves a configured sample into an Entry.
func NewEntry(s types.Sample) (Entry, error) {
	c, err := types.ParseColor(s.Color)
	if err != nil {
		return Entry{}, fmt.Errorf("sample %q: %w", s.Label, err)
	}
	return Entry{Label: s.Label, File: s.File, Color: c}, nil
}

// Plotter renders the comparison figures of one control region: a fixed data
// sample, a stack of backgrounds and optional signal overlays, shared across
// every histogram of the region.
type Plotter struct {
	pool *store.Pool
	data Entry
	bgs  []Entry
	sigs []Entry

	// OutDir receives the rendered images.
	OutDir string
	// LumiPb is the integrated luminosity stamped on each figure, in 1/pb.
	LumiPb float64
	// Legend is the legend box position driving both layout and the
	// y-range collision logic.
	Legend LegendBox
	// Size is the square canvas extent in pixels.
	Size int
}

// NewPlotter builds a Plotter with the standard geometry.
func NewPlotter(pool *store.Pool, data Entry, bgs, sigs []Entry) *Plotter {
	return &Plotter{
		pool:   pool,
		data:   data,
		bgs:    bgs,
		sigs:   sigs,
		OutDir: ".",
		LumiPb: types.DefaultLumiPb,
		Legend: DefaultLegendBox,
		Size:   DefaultCanvasSize,
	}
}

// OutputName maps a histogram path to its image file name, replacing the
// path separators: "ttbar/HT" becomes "ttbar_HT.png".
func OutputName(histPath string) string {
	return strings.ReplaceAll(histPath, "/", "_") + ".png"
}

func (p *Plotter) fetch(e Entry, def types.PlotDef) (*hist.Series, error) {
	s, err := p.pool.Get(e.File, def.Name)
	if err != nil {
		return nil, fmt.Errorf("plot %q: sample %q: %w", def.Name, e.Label, err)
	}
	if def.Rebin > 1 {
		s = s.Rebin(def.Rebin)
	}
	return s, nil
}

// Plot renders the comparison figure for one histogram path and writes it as
// a PNG under OutDir, returning the written path. When an input file or
// histogram is absent the returned error wraps store.NotFoundError so the
// caller can skip the plot and keep going.
func (p *Plotter) Plot(def types.PlotDef) (string, error) {
	defer store.TimeTrack(time.Now(), "plot "+def.Name)

	if len(p.bgs) == 0 {
		return "", fmt.Errorf("plot %q: no backgrounds configured", def.Name)
	}

	data, err := p.fetch(p.data, def)
	if err != nil {
		return "", err
	}

	bgs := make([]sample, len(p.bgs))
	parts := make([]*hist.Series, len(p.bgs))
	for i, e := range p.bgs {
		s, err := p.fetch(e, def)
		if err != nil {
			return "", err
		}
		bgs[i] = sample{label: e.Label, color: e.Color, series: s}
		parts[i] = s
	}
	bgSum, err := hist.Sum("background", parts...)
	if err != nil {
		return "", fmt.Errorf("plot %q: %w", def.Name, err)
	}

	sigs := make([]sample, len(p.sigs))
	for i, e := range p.sigs {
		s, err := p.fetch(e, def)
		if err != nil {
			return "", err
		}
		sigs[i] = sample{label: e.Label, color: e.Color, series: s}
	}

	// Data claims headroom for its error bars; stacked background and
	// signal overlays count bare values.
	r := NewRangeResult()
	r.Observe(data, UpperPadMargins, p.Legend.X1, true)
	r.Observe(bgSum, UpperPadMargins, p.Legend.X1, false)
	for _, sg := range sigs {
		r.Observe(sg.series, UpperPadMargins, p.Legend.X1, false)
	}
	yLo, yHi := AxisRange(r, def.LogY, p.Legend, UpperPadMargins)

	ratio, err := data.Divide(bgSum)
	if err != nil {
		return "", fmt.Errorf("plot %q: %w", def.Name, err)
	}

	yLabel := def.YLabel
	if yLabel == "" {
		yLabel = "Events"
	}
	fig := &figure{
		xLabel: def.XLabel,
		yLabel: yLabel,
		logY:   def.LogY,
		xMin:   def.XMin,
		xMax:   def.XMax,
		yLo:    yLo,
		yHi:    yHi,
		data:   sample{label: p.data.Label, color: p.data.Color, series: data},
		bgs:    bgs,
		sigs:   sigs,
		ratio:  ratio,
		legend: p.Legend,
	}
	img := annotate(fig.render(p.Size), p.LumiPb)

	path := filepath.Join(p.OutDir, OutputName(def.Name))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("plot %q: %w", def.Name, err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return "", fmt.Errorf("plot %q: encode: %w", def.Name, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("plot %q: %w", def.Name, err)
	}
	store.Debugf("wrote %s", path)
	return path, nil
}
