package plotting

import (
	"fmt"
	"image"
	"image/color"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/pastika/LongExerciseSusyTopTag/src/hist"
)

// Pad geometry and legend placement, in normalized pad coordinates.
var (
	UpperPadMargins  = PadMargins{Left: 0.12, Right: 0.06, Top: 0.08, Bottom: 0}
	DefaultLegendBox = LegendBox{X1: 0.50, Y1: 0.56, X2: 0.89, Y2: 0.88}
)

const (
	// DefaultCanvasSize is the width and height of the output image in pixels.
	DefaultCanvasSize = 800

	ratioPadFraction = 0.3
	ratioYMin        = 0.5
	ratioYMax        = 1.5
)

// sample is one drawable series with its legend label and color.
type sample struct {
	label  string
	color  color.NRGBA
	series *hist.Series
}

// figure carries everything needed to draw one comparison plot: the resolved
// series, the axis decision from AxisRange and the cosmetic labels.
type figure struct {
	xLabel, yLabel string
	logY           bool
	xMin, xMax     float64 // honored when xMin < xMax
	yLo, yHi       float64

	data   sample
	bgs    []sample // config order; first entry is drawn on top of the stack
	sigs   []sample
	ratio  *hist.Series
	legend LegendBox
}

func toH1D(s *hist.Series) *hbook.H1D {
	h := hbook.NewH1DFromEdges(s.Edges())
	for i := 0; i < s.Bins(); i++ {
		h.Fill(s.Center(i), s.Value(i))
	}
	return h
}

// scatter turns a series into points with y error bars. On a log axis,
// points below the floor are dropped and error bars are cut at the floor so
// the transform never sees a non-positive coordinate.
func scatter(s *hist.Series, logY bool, floor float64) *hbook.S2D {
	pts := make([]hbook.Point2D, 0, s.Bins())
	for i := 0; i < s.Bins(); i++ {
		v, e := s.Value(i), s.Err(i)
		if logY && v < floor {
			continue
		}
		lo := e
		if logY && v-lo < floor {
			lo = v - floor
		}
		pts = append(pts, hbook.Point2D{X: s.Center(i), Y: v, ErrY: hbook.Range{Min: lo, Max: e}})
	}
	return hbook.NewS2D(pts...)
}

// ratioScatter drops the 0 +- 0 bins that mark a zero denominator (or no
// data at all); everything else keeps its propagated uncertainty.
func ratioScatter(s *hist.Series) *hbook.S2D {
	pts := make([]hbook.Point2D, 0, s.Bins())
	for i := 0; i < s.Bins(); i++ {
		v, e := s.Value(i), s.Err(i)
		if v == 0 && e == 0 {
			continue
		}
		pts = append(pts, hbook.Point2D{X: s.Center(i), Y: v, ErrY: hbook.Range{Min: e, Max: e}})
	}
	return hbook.NewS2D(pts...)
}

func horizontalGrid() *plotter.Grid {
	g := plotter.NewGrid()
	g.Vertical.Color = nil
	return g
}

// build assembles the two-pad figure. w and h are the full canvas extent and
// are only used to convert the legend offsets into absolute lengths.
func (f *figure) build(w, h vg.Length) *hplot.RatioPlot {
	rp := hplot.NewRatioPlot()
	rp.Ratio = ratioPadFraction
	top, bot := rp.Top, rp.Bottom

	xlo, xhi := f.xMin, f.xMax
	if xlo >= xhi {
		xlo, xhi = f.data.series.XMin(), f.data.series.XMax()
	}

	top.Y.Label.Text = f.yLabel
	top.Y.Label.TextStyle.Font.Size = vg.Points(14)
	top.Y.Tick.Label.Font.Size = vg.Points(11)
	top.X.Min, top.X.Max = xlo, xhi
	top.X.Tick.Marker = plot.ConstantTicks(nil) // bin labels belong to the ratio pad
	top.Add(horizontalGrid())

	if f.logY {
		top.Y.Scale = plot.LogScale{}
		top.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	top.Y.Min, top.Y.Max = f.yLo, f.yHi

	// The stack draws its first histogram at the bottom, while the config
	// order puts the dominant process first, on top. Feed it reversed and
	// keep handles for the legend.
	hmap := make([]*hplot.H1D, len(f.bgs))
	stacked := make([]*hplot.H1D, 0, len(f.bgs))
	for i := len(f.bgs) - 1; i >= 0; i-- {
		b := f.bgs[i]
		hh := hplot.NewH1D(toH1D(b.series), hplot.WithLogY(f.logY))
		hh.FillColor = b.color
		hh.LineStyle.Color = b.color
		hh.LineStyle.Width = vg.Points(1)
		hh.Infos.Style = hplot.HInfoNone
		hmap[i] = hh
		stacked = append(stacked, hh)
	}
	if len(stacked) > 0 {
		top.Add(hplot.NewHStack(stacked, hplot.WithLogY(f.logY)))
	}

	sigPlots := make([]*hplot.H1D, len(f.sigs))
	for i, sg := range f.sigs {
		hh := hplot.NewH1D(toH1D(sg.series), hplot.WithLogY(f.logY))
		hh.FillColor = nil
		hh.LineStyle.Color = sg.color
		hh.LineStyle.Width = vg.Points(3)
		hh.Infos.Style = hplot.HInfoNone
		sigPlots[i] = hh
		top.Add(hh)
	}

	pts := hplot.NewS2D(scatter(f.data.series, f.logY, f.yLo), hplot.WithYErrBars(true))
	pts.GlyphStyle = draw.GlyphStyle{
		Color:  color.Black,
		Radius: vg.Points(2.5),
		Shape:  draw.CircleGlyph{},
	}
	top.Add(pts)

	top.Legend.Add(legendLabel(f.data), pts)
	for i, b := range f.bgs {
		top.Legend.Add(legendLabel(b), hmap[i])
	}
	// Signal legend entries carry no yield count.
	for i, sg := range f.sigs {
		top.Legend.Add(sg.label, sigPlots[i])
	}
	top.Legend.Top = true
	top.Legend.TextStyle.Font.Size = vg.Points(11)
	top.Legend.XOffs = -vg.Length(1-f.legend.X2) * w
	top.Legend.YOffs = -vg.Length((1-f.legend.Y2)*(1-ratioPadFraction)) * h

	bot.X.Label.Text = f.xLabel
	bot.X.Label.TextStyle.Font.Size = vg.Points(14)
	bot.X.Tick.Label.Font.Size = vg.Points(11)
	bot.Y.Label.Text = "Data / BG"
	bot.Y.Label.TextStyle.Font.Size = vg.Points(12)
	bot.Y.Tick.Label.Font.Size = vg.Points(10)
	bot.X.Min, bot.X.Max = xlo, xhi
	bot.Y.Min, bot.Y.Max = ratioYMin, ratioYMax
	bot.Add(horizontalGrid())

	rpts := hplot.NewS2D(ratioScatter(f.ratio), hplot.WithYErrBars(true))
	rpts.GlyphStyle = draw.GlyphStyle{
		Color:  color.Black,
		Radius: vg.Points(2),
		Shape:  draw.CircleGlyph{},
	}
	bot.Add(rpts)

	return rp
}

// legendLabel is "<label> (<integral>)" with the count in compact scientific
// form, e.g. "QCD (1.2e+05)".
func legendLabel(s sample) string {
	return fmt.Sprintf("%s (%0.1e)", s.label, s.series.Integral())
}

// render draws the figure onto a fresh raster canvas of size px by px pixels.
func (f *figure) render(px int) image.Image {
	w := vg.Length(px)
	h := vg.Length(px)
	c := vgimg.NewWith(vgimg.UseDPI(72), vgimg.UseWH(w, h))
	dc := draw.New(c)
	f.build(w, h).Draw(dc)
	return c.Image()
}
