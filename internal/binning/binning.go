package binning

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go-hep.org/x/hep/hbook"
)

// ErrEdgeMismatch is returned when merging sets with different bin edges.
var ErrEdgeMismatch = errors.New("bin edges do not match")

// Bin is one centrality class.
type Bin struct {
	UpperEdge float64
	Hist      *hbook.H1D
	SoW       *Counter
}

// HistFactory allocates the histogram of the i-th bin.
type HistFactory func(i int, upperEdge float64) (*hbook.H1D, error)

// Set is the ordered list of centrality bins.
type Set struct {
	edges []float64
	bins  []*Bin
}

// NewSet allocates one bin per edge. Edges must be finite and strictly increasing.
func NewSet(edges []float64, newHist HistFactory) (*Set, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("at least one bin edge is required")
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return nil, fmt.Errorf("bin edge %d is not finite: %v", i, e)
		}
		if i > 0 && e <= edges[i-1] {
			return nil, fmt.Errorf("bin edges must be strictly increasing: %v after %v", e, edges[i-1])
		}
	}

	s := &Set{
		edges: append([]float64(nil), edges...),
		bins:  make([]*Bin, len(edges)),
	}
	for i, e := range edges {
		h, err := newHist(i, e)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate histogram for bin %v: %w", e, err)
		}
		if h == nil {
			return nil, fmt.Errorf("failed to allocate histogram for bin %v", e)
		}
		s.bins[i] = &Bin{
			UpperEdge: e,
			Hist:      h,
			SoW:       &Counter{},
		}
	}
	return s, nil
}

// Find returns the bin with the smallest upper edge strictly greater than c.
// The boolean is false when c is at or above the last edge, or NaN.
func (s *Set) Find(c float64) (*Bin, bool) {
	i := sort.Search(len(s.edges), func(i int) bool { return s.edges[i] > c })
	if i == len(s.edges) {
		return nil, false
	}
	return s.bins[i], true
}

// Bins returns the bins in edge order.
func (s *Set) Bins() []*Bin {
	return s.bins
}

// Edges returns a copy of the upper edges.
func (s *Set) Edges() []float64 {
	return append([]float64(nil), s.edges...)
}

// Len returns the number of bins.
func (s *Set) Len() int {
	return len(s.bins)
}

// Merge adds the histograms and counters of o into s, bin by bin.
func (s *Set) Merge(o *Set) error {
	if len(s.edges) != len(o.edges) {
		return fmt.Errorf("%w: %d bins vs %d", ErrEdgeMismatch, len(s.edges), len(o.edges))
	}
	for i := range s.edges {
		if s.edges[i] != o.edges[i] {
			return fmt.Errorf("%w: edge %d is %v vs %v", ErrEdgeMismatch, i, s.edges[i], o.edges[i])
		}
	}

	for i, b := range s.bins {
		other := o.bins[i]
		ann := b.Hist.Ann
		b.Hist = hbook.AddH1D(b.Hist, other.Hist)
		b.Hist.Ann = ann
		b.SoW.Add(other.SoW)
	}
	return nil
}
