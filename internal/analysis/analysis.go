package analysis

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/mrzor/centrality-eta/internal/binning"
	"github.com/mrzor/centrality-eta/internal/event"
	"github.com/mrzor/centrality-eta/internal/selection"
	"go-hep.org/x/hep/hbook"
)

// Name is the analysis identifier used in output paths.
const Name = "ALICE_2013_I1225979"

// ErrFinalized is returned when an accumulator is used after Finalize.
var ErrFinalized = errors.New("analysis already finalized")

// Axis is a uniform histogram axis.
type Axis struct {
	Bins int
	Min  float64
	Max  float64
}

// Config holds the binning of the measurement.
type Config struct {
	Edges []float64 // Centrality upper edges
	Eta   Axis
}

// DefaultConfig returns the binning of the published measurement.
func DefaultConfig() Config {
	return Config{
		Edges: []float64{5, 10, 20, 30},
		Eta:   Axis{Bins: 17, Min: -3.5, Max: 5.0},
	}
}

// Outcome classifies what happened to one event.
type Outcome int

const (
	Vetoed    Outcome = iota // Trigger coincidence not satisfied
	Unmatched                // Centrality outside every bin
	Accepted                 // Filled into a bin
)

func (o Outcome) String() string {
	switch o {
	case Vetoed:
		return "vetoed"
	case Unmatched:
		return "unmatched"
	case Accepted:
		return "accepted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Stats tallies event outcomes.
type Stats struct {
	Events    int64
	Vetoed    int64
	Unmatched int64
	Accepted  int64
	SumW      float64 // Sum of weights over all analysed events
}

func (s *Stats) add(o Stats) {
	s.Events += o.Events
	s.Vetoed += o.Vetoed
	s.Unmatched += o.Unmatched
	s.Accepted += o.Accepted
	s.SumW += o.SumW
}

// Accumulator is the centrality-binned eta accumulator.
type Accumulator struct {
	cfg       Config
	proj      Projections
	bins      *binning.Set
	stats     Stats
	finalized bool
}

// New validates the projections and books one histogram and counter per edge.
func New(cfg Config, proj Projections) (*Accumulator, error) {
	if err := proj.validate(); err != nil {
		return nil, fmt.Errorf("analysis setup: %w", err)
	}

	bins, err := binning.NewSet(cfg.Edges, etaHistFactory(cfg.Eta))
	if err != nil {
		return nil, fmt.Errorf("analysis setup: %w", err)
	}

	return &Accumulator{
		cfg:  cfg,
		proj: proj,
		bins: bins,
	}, nil
}

// HistPath returns the output path of the i-th eta histogram.
func HistPath(i int) string {
	return fmt.Sprintf("/%s/d01-x01-y%02d", Name, i+1)
}

// CounterPath returns the output path of the i-th sum-of-weights counter.
func CounterPath(i int) string {
	return fmt.Sprintf("/%s/sow_%d", Name, i)
}

func etaHistFactory(axis Axis) binning.HistFactory {
	return func(i int, upperEdge float64) (*hbook.H1D, error) {
		if axis.Bins <= 0 {
			return nil, fmt.Errorf("eta axis needs a positive bin count, got %d", axis.Bins)
		}
		if !(axis.Min < axis.Max) {
			return nil, fmt.Errorf("eta axis range is empty: [%v, %v)", axis.Min, axis.Max)
		}

		h := hbook.NewH1D(axis.Bins, axis.Min, axis.Max)
		h.Ann["name"] = fmt.Sprintf("d01-x01-y%02d", i+1)
		h.Ann["path"] = HistPath(i)
		h.Ann["title"] = fmt.Sprintf("dN/deta, centrality < %g%%", upperEdge)
		return h, nil
	}
}

// Trigger applies the 2-out-of-3 coincidence of the forward, backward and central votes.
func Trigger(fwd, bwd, central bool) bool {
	votes := 0
	for _, v := range []bool{fwd, bwd, central} {
		if v {
			votes++
		}
	}
	return votes >= 2
}

func nonEmpty(sel selection.Selection, ev *event.Event) (bool, error) {
	particles, err := sel.Select(ev)
	if err != nil {
		return false, fmt.Errorf("event %d: %s: %w", ev.Number, sel.Name(), err)
	}
	return len(particles) > 0, nil
}

// Analyze processes one event. Vetoed and unmatched events leave every bin untouched.
func (a *Accumulator) Analyze(ev *event.Event) (Outcome, error) {
	if a.finalized {
		return Vetoed, ErrFinalized
	}

	fwd, err := nonEmpty(a.proj.Forward, ev)
	if err != nil {
		return Vetoed, err
	}
	bwd, err := nonEmpty(a.proj.Backward, ev)
	if err != nil {
		return Vetoed, err
	}
	spd, err := nonEmpty(a.proj.Central, ev)
	if err != nil {
		return Vetoed, err
	}

	a.stats.Events++
	a.stats.SumW += ev.Weight

	if !Trigger(fwd, bwd, spd) {
		a.stats.Vetoed++
		return Vetoed, nil
	}

	c, err := a.proj.Centrality.Centrality(ev)
	if err != nil {
		return Vetoed, fmt.Errorf("event %d: centrality: %w", ev.Number, err)
	}

	bin, ok := a.bins.Find(c)
	if !ok {
		a.stats.Unmatched++
		return Unmatched, nil
	}

	// Select before filling so a failing cut cannot leave the bin half-filled.
	primaries, err := a.proj.Primary.Select(ev)
	if err != nil {
		return Vetoed, fmt.Errorf("event %d: %s: %w", ev.Number, a.proj.Primary.Name(), err)
	}

	bin.SoW.Fill(ev.Weight)
	for _, p := range primaries {
		if p.AbsCharge() > 0 {
			bin.Hist.Fill(p.Eta, ev.Weight)
		}
	}

	a.stats.Accepted++
	return Accepted, nil
}

// Merge adds the bins and tallies of o into a.
func (a *Accumulator) Merge(o *Accumulator) error {
	if a.finalized || o.finalized {
		return ErrFinalized
	}
	if err := a.bins.Merge(o.bins); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	a.stats.add(o.stats)
	return nil
}

// BinReport summarizes one centrality bin after finalization.
type BinReport struct {
	UpperEdge  float64
	SumW       float64
	Events     int64
	Entries    int64
	Integral   float64 // Sum of in-range bin heights after scaling
	Degenerate bool    // No weight accumulated; histogram left unscaled
}

// Report is the result of Finalize.
type Report struct {
	Bins     []BinReport
	Warnings []string
}

// Finalize scales every histogram by the inverse of its bin's sum of weights.
// Bins without a usable sum of weights are left unscaled and reported.
func (a *Accumulator) Finalize() (*Report, error) {
	if a.finalized {
		return nil, ErrFinalized
	}
	a.finalized = true

	report := &Report{}
	for _, b := range a.bins.Bins() {
		sumW := b.SoW.SumW()
		br := BinReport{
			UpperEdge: b.UpperEdge,
			SumW:      sumW,
			Events:    b.SoW.Entries(),
			Entries:   b.Hist.Entries(),
		}

		if sumW == 0 || math.IsNaN(sumW) || math.IsInf(sumW, 0) {
			br.Degenerate = true
			msg := fmt.Sprintf("centrality bin < %g: sum of weights is %v, histogram left unscaled", b.UpperEdge, sumW)
			report.Warnings = append(report.Warnings, msg)
			log.Printf("Warning: %s", msg)
		} else {
			b.Hist.Scale(1 / sumW)
		}

		br.Integral = inRangeIntegral(b.Hist)
		report.Bins = append(report.Bins, br)
	}
	return report, nil
}

func inRangeIntegral(h *hbook.H1D) float64 {
	var sum float64
	for i := 0; i < h.Len(); i++ {
		_, y := h.XY(i)
		sum += y
	}
	return sum
}

// Bins returns the centrality bins in edge order.
func (a *Accumulator) Bins() []*binning.Bin {
	return a.bins.Bins()
}

// Stats returns the outcome tallies.
func (a *Accumulator) Stats() Stats {
	return a.stats
}

// Config returns the binning the accumulator was booked with.
func (a *Accumulator) Config() Config {
	return a.cfg
}

// Finalized reports whether Finalize has run.
func (a *Accumulator) Finalized() bool {
	return a.finalized
}
