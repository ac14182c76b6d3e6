// Package types defines the configuration schema for the control-region
// comparison plots: which samples feed each region, how they are colored and
// labelled, and which histograms get drawn with what axis cosmetics.
package types

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Sample points at one input file and says how to present its histograms.
type Sample struct {
	Label string `json:"label"`
	File  string `json:"file"`
	Color string `json:"color,omitempty"` // "#rrggbb"; empty means black
}

// Region is one control region: a name (the directory prefix of its
// histograms) and the data sample recorded for it.
type Region struct {
	Name string `json:"name"`
	Data Sample `json:"data"`
}

// PlotDef describes one histogram to draw. Name is the histogram path
// without the region prefix. XMin/XMax are honored only when XMin < XMax;
// a Rebin of 0 or 1 leaves the binning alone.
type PlotDef struct {
	Name   string  `json:"name"`
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label,omitempty"` // defaults to "Events"
	LogY   bool    `json:"log_y,omitempty"`
	XMin   float64 `json:"x_min,omitempty"`
	XMax   float64 `json:"x_max,omitempty"`
	Rebin  int     `json:"rebin,omitempty"`
}

// Config is the complete plotting job description.
type Config struct {
	// InputDir is prefixed to every sample file path.
	InputDir string `json:"input_dir,omitempty"`
	// LumiPb is the integrated luminosity in 1/pb stamped on the figures.
	LumiPb      float64   `json:"lumi_pb,omitempty"`
	Backgrounds []Sample  `json:"backgrounds"`
	Signals     []Sample  `json:"signals,omitempty"`
	Regions     []Region  `json:"regions"`
	Plots       []PlotDef `json:"plots"`
}

// ParseColor decodes a "#rrggbb" or "#rrggbbaa" hex color. The empty string
// is opaque black, for samples that never specify one (the data points).
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{A: 255}, nil
	}
	hx := strings.TrimPrefix(s, "#")
	if len(hx) != 6 && len(hx) != 8 {
		return color.NRGBA{}, fmt.Errorf("types: color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hx, 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("types: color %q: %v", s, err)
	}
	c := color.NRGBA{A: 255}
	if len(hx) == 8 {
		c.A = uint8(v & 0xff)
		v >>= 8
	}
	c.B = uint8(v & 0xff)
	c.G = uint8((v >> 8) & 0xff)
	c.R = uint8((v >> 16) & 0xff)
	return c, nil
}
