package plotting

import (
	"fmt"
	"image"
	"image/color"
	idraw "image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LumiLabel renders an integrated luminosity given in 1/pb the way it is
// quoted on plots, e.g. 36100 -> "36.1 fb^-1 (13 TeV)".
func LumiLabel(lumiPb float64) string {
	return fmt.Sprintf("%0.1f fb^-1 (13 TeV)", lumiPb/1000)
}

// annotate stamps the experiment labels onto a rendered figure: "CMS" and
// "Preliminary" over the upper pad's left margin and the luminosity string
// right-aligned at the upper pad's right margin.
func annotate(img image.Image, lumiPb float64) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	idraw.Draw(rgba, b, img, b.Min, idraw.Src)

	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}

	w := b.Dx()
	h := b.Dy()
	m := UpperPadMargins
	// Baseline sits just inside the upper pad's top margin; the upper pad
	// spans the top (1 - ratioPadFraction) of the canvas.
	y := b.Min.Y + int((m.Top-0.017)*(1-ratioPadFraction)*float64(h))
	if y < b.Min.Y+face.Metrics().Ascent.Ceil() {
		y = b.Min.Y + face.Metrics().Ascent.Ceil()
	}

	// Double-strike "CMS" one pixel apart stands in for a bold face.
	x := b.Min.X + int(m.Left*float64(w))
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString("CMS")
	dr.Dot = fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y)}
	dr.DrawString("CMS")

	dr.Dot = fixed.Point26_6{X: fixed.I(b.Min.X + int((m.Left+0.11)*float64(w))), Y: fixed.I(y)}
	dr.DrawString("Preliminary")

	lumi := LumiLabel(lumiPb)
	tw := dr.MeasureString(lumi).Ceil()
	dr.Dot = fixed.Point26_6{X: fixed.I(b.Min.X + int((1-m.Right)*float64(w)) - tw), Y: fixed.I(y)}
	dr.DrawString(lumi)

	return rgba
}
