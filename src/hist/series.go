// Package hist holds binned one-dimensional series and the small amount of
// arithmetic the comparison plots need: summing stacks, ratios with error
// propagation and coarser rebinning.
package hist

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
)

// Series is an immutable 1D binned distribution. Bin i spans
// [edges[i], edges[i+1]) and carries a value and an absolute uncertainty.
// Operations return new Series and never mutate their receivers.
type Series struct {
	name   string
	edges  []float64 // len = Bins()+1, strictly increasing
	values []float64
	errs   []float64

	total    float64 // sum of weights including under/overflow, when known
	hasTotal bool
}

// New builds a Series from bin edges, per-bin values and absolute
// uncertainties. errs may be nil, in which case all uncertainties are zero.
func New(name string, edges, values, errs []float64) (*Series, error) {
	if len(edges) != len(values)+1 {
		return nil, fmt.Errorf("hist: %d edges for %d bins (want %d)", len(edges), len(values), len(values)+1)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("hist: series %q has no bins", name)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("hist: series %q edges not increasing at index %d (%g >= %g)", name, i, edges[i-1], edges[i])
		}
	}
	if errs != nil && len(errs) != len(values) {
		return nil, fmt.Errorf("hist: series %q has %d uncertainties for %d bins", name, len(errs), len(values))
	}
	s := &Series{
		name:   name,
		edges:  append([]float64(nil), edges...),
		values: append([]float64(nil), values...),
	}
	if errs == nil {
		s.errs = make([]float64, len(values))
	} else {
		s.errs = append([]float64(nil), errs...)
	}
	return s, nil
}

// FromH1D converts an hbook histogram. Bin uncertainties are taken as
// sqrt(sum of squared weights) and the total keeps under/overflow content.
func FromH1D(h *hbook.H1D) *Series {
	bins := h.Binning.Bins
	n := len(bins)
	s := &Series{
		name:   h.Name(),
		edges:  make([]float64, n+1),
		values: make([]float64, n),
		errs:   make([]float64, n),
	}
	for i, b := range bins {
		s.edges[i] = b.XMin()
		s.values[i] = b.SumW()
		s.errs[i] = math.Sqrt(b.SumW2())
	}
	s.edges[n] = bins[n-1].XMax()
	s.total = h.SumW()
	s.hasTotal = true
	return s
}

// Name returns the series name (the histogram path it was loaded from).
func (s *Series) Name() string { return s.name }

// Bins returns the number of bins.
func (s *Series) Bins() int { return len(s.values) }

// Value returns the content of bin i.
func (s *Series) Value(i int) float64 { return s.values[i] }

// Err returns the absolute uncertainty of bin i.
func (s *Series) Err(i int) float64 { return s.errs[i] }

// Center returns the midpoint of bin i.
func (s *Series) Center(i int) float64 { return 0.5 * (s.edges[i] + s.edges[i+1]) }

// Width returns the width of bin i.
func (s *Series) Width(i int) float64 { return s.edges[i+1] - s.edges[i] }

// XMin returns the lower edge of the first bin.
func (s *Series) XMin() float64 { return s.edges[0] }

// XMax returns the upper edge of the last bin.
func (s *Series) XMax() float64 { return s.edges[len(s.edges)-1] }

// Edges returns a copy of the bin edges.
func (s *Series) Edges() []float64 { return append([]float64(nil), s.edges...) }

// Values returns a copy of the bin contents.
func (s *Series) Values() []float64 { return append([]float64(nil), s.values...) }

// Integral returns the total sum of weights. When the series came from a
// stored histogram this includes under/overflow, matching the counts quoted
// in legends; otherwise it is the in-range sum.
func (s *Series) Integral() float64 {
	if s.hasTotal {
		return s.total
	}
	sum := 0.0
	for _, v := range s.values {
		sum += v
	}
	return sum
}

// WithName returns a copy of s renamed to name.
func (s *Series) WithName(name string) *Series {
	out := s.clone()
	out.name = name
	return out
}

func (s *Series) clone() *Series {
	return &Series{
		name:     s.name,
		edges:    append([]float64(nil), s.edges...),
		values:   append([]float64(nil), s.values...),
		errs:     append([]float64(nil), s.errs...),
		total:    s.total,
		hasTotal: s.hasTotal,
	}
}

func (s *Series) compatible(o *Series) error {
	if len(s.values) != len(o.values) {
		return fmt.Errorf("hist: %q has %d bins, %q has %d", s.name, len(s.values), o.name, len(o.values))
	}
	for i := range s.edges {
		if s.edges[i] != o.edges[i] {
			return fmt.Errorf("hist: %q and %q disagree on edge %d (%g vs %g)", s.name, o.name, i, s.edges[i], o.edges[i])
		}
	}
	return nil
}

// Add returns the bin-wise sum of s and o. Uncertainties combine in
// quadrature. The binnings must match exactly.
func (s *Series) Add(o *Series) (*Series, error) {
	if err := s.compatible(o); err != nil {
		return nil, err
	}
	out := s.clone()
	for i := range out.values {
		out.values[i] += o.values[i]
		out.errs[i] = math.Hypot(out.errs[i], o.errs[i])
	}
	out.hasTotal = s.hasTotal && o.hasTotal
	out.total = s.total + o.total
	return out, nil
}

// Sum adds any number of series with matching binnings. It returns an error
// when the list is empty.
func Sum(name string, ss ...*Series) (*Series, error) {
	if len(ss) == 0 {
		return nil, fmt.Errorf("hist: sum %q of no series", name)
	}
	out := ss[0]
	for _, s := range ss[1:] {
		var err error
		out, err = out.Add(s)
		if err != nil {
			return nil, err
		}
	}
	return out.WithName(name), nil
}

// Divide returns the bin-wise ratio s/o with standard uncorrelated error
// propagation. Bins where the denominator is zero come out as exactly zero
// value and zero uncertainty so callers can recognise and suppress them.
func (s *Series) Divide(o *Series) (*Series, error) {
	if err := s.compatible(o); err != nil {
		return nil, err
	}
	out := s.clone()
	out.hasTotal = false
	out.total = 0
	for i := range out.values {
		num, den := s.values[i], o.values[i]
		if den == 0 {
			out.values[i] = 0
			out.errs[i] = 0
			continue
		}
		out.values[i] = num / den
		ne, de := s.errs[i], o.errs[i]
		out.errs[i] = math.Sqrt(ne*ne*den*den+de*de*num*num) / (den * den)
	}
	return out, nil
}

// Rebin merges groups of k adjacent bins. Values add, uncertainties combine
// in quadrature. When the bin count is not a multiple of k the trailing
// remainder bins are dropped from the axis; their content stays in the
// integral, like overflow. k <= 1 returns the series unchanged.
func (s *Series) Rebin(k int) *Series {
	if k <= 1 || s.Bins() < k {
		return s
	}
	n := s.Bins() / k
	out := &Series{
		name:     s.name,
		edges:    make([]float64, n+1),
		values:   make([]float64, n),
		errs:     make([]float64, n),
		total:    s.total,
		hasTotal: s.hasTotal,
	}
	for i := 0; i <= n; i++ {
		out.edges[i] = s.edges[i*k]
	}
	for i := 0; i < n; i++ {
		var v, e2 float64
		for j := i * k; j < (i+1)*k; j++ {
			v += s.values[j]
			e2 += s.errs[j] * s.errs[j]
		}
		out.values[i] = v
		out.errs[i] = math.Sqrt(e2)
	}
	if !out.hasTotal {
		// Keep the dropped remainder in the integral.
		out.total = 0
		for _, v := range s.values {
			out.total += v
		}
		out.hasTotal = true
	}
	return out
}
