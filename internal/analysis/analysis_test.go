package analysis

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/mrzor/centrality-eta/internal/centrality"
	"github.com/mrzor/centrality-eta/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSelection returns the same particles for every event.
type fixedSelection struct {
	name      string
	particles []event.Particle
	err       error
}

func (s fixedSelection) Name() string { return s.name }

func (s fixedSelection) Select(_ *event.Event) ([]event.Particle, error) {
	return s.particles, s.err
}

// fixedCentrality returns the same centrality for every event.
type fixedCentrality float64

func (fixedCentrality) Method() string { return "fixed" }

func (c fixedCentrality) Centrality(_ *event.Event) (float64, error) {
	return float64(c), nil
}

var hit = []event.Particle{{Status: 1, Eta: 3, Pt: 1, Charge: 1}}

func stubProjections(fwd, bwd, spd bool, c float64, primaries []event.Particle) Projections {
	vote := func(name string, on bool) fixedSelection {
		if on {
			return fixedSelection{name: name, particles: hit}
		}
		return fixedSelection{name: name}
	}
	return Projections{
		Forward:    vote(ForwardName, fwd),
		Backward:   vote(BackwardName, bwd),
		Central:    vote(CentralName, spd),
		Primary:    fixedSelection{name: PrimaryName, particles: primaries},
		Centrality: fixedCentrality(c),
	}
}

func newRecordedAccumulator(t *testing.T) *Accumulator {
	t.Helper()
	proj, err := DefaultProjections()
	require.NoError(t, err)
	proj, err = proj.WithEstimator(centrality.MethodRecorded, nil)
	require.NoError(t, err)

	acc, err := New(DefaultConfig(), proj)
	require.NoError(t, err)
	return acc
}

// triggeredEvent has one charged particle in each VZERO window, so it always
// passes the 2-out-of-3 trigger.
func triggeredEvent(c, weight float64, extra ...event.Particle) *event.Event {
	particles := []event.Particle{
		{Barcode: 1, Status: 1, Eta: 3.0, Pt: 0.5, Charge: 1},
		{Barcode: 2, Status: 1, Eta: -2.0, Pt: 0.5, Charge: -1},
	}
	particles = append(particles, extra...)
	ev := event.New(1, weight, particles)
	ev.Centrality = c
	return ev
}

// snapshot captures the full state of every bin.
func snapshot(t *testing.T, acc *Accumulator) []byte {
	t.Helper()
	var buf bytes.Buffer
	for i, b := range acc.Bins() {
		raw, err := b.Hist.MarshalYODA()
		require.NoError(t, err)
		buf.Write(raw)
		buf.Write(b.SoW.MarshalYODA(CounterPath(i)))
	}
	return buf.Bytes()
}

func TestTrigger(t *testing.T) {
	tests := []struct {
		fwd, bwd, spd bool
		want          bool
	}{
		{false, false, false, false},
		{true, false, false, false},
		{false, true, false, false},
		{false, false, true, false},
		{true, true, false, true},
		{true, false, true, true},
		{false, true, true, true},
		{true, true, true, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Trigger(tt.fwd, tt.bwd, tt.spd), "%v %v %v", tt.fwd, tt.bwd, tt.spd)
	}
}

func TestAnalyze_TriggerVotes(t *testing.T) {
	primaries := []event.Particle{{Status: 1, Eta: 0.1, Charge: 1}}

	tests := []struct {
		name          string
		fwd, bwd, spd bool
		want          Outcome
	}{
		{"none", false, false, false, Vetoed},
		{"forward only", true, false, false, Vetoed},
		{"forward and backward", true, true, false, Accepted},
		{"backward and central", false, true, true, Accepted},
		{"all", true, true, true, Accepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := New(DefaultConfig(), stubProjections(tt.fwd, tt.bwd, tt.spd, 2.5, primaries))
			require.NoError(t, err)

			got, err := acc.Analyze(event.New(1, 1, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyze_VetoLeavesBinsUntouched(t *testing.T) {
	acc := newRecordedAccumulator(t)
	require.NoError(t, analyzeAll(acc, triggeredEvent(3, 1)))
	before := snapshot(t, acc)

	// Only a forward hit: one vote.
	ev := event.New(2, 5, []event.Particle{{Status: 1, Eta: 3.0, Pt: 0.5, Charge: 1}})
	ev.Centrality = 3

	got, err := acc.Analyze(ev)
	require.NoError(t, err)
	assert.Equal(t, Vetoed, got)
	assert.Equal(t, before, snapshot(t, acc))
	assert.Equal(t, int64(1), acc.Stats().Vetoed)
}

func TestAnalyze_UnmatchedLeavesBinsUntouched(t *testing.T) {
	acc := newRecordedAccumulator(t)
	require.NoError(t, analyzeAll(acc, triggeredEvent(12, 1)))
	before := snapshot(t, acc)

	for _, c := range []float64{30, 30.0001, 75, math.NaN()} {
		got, err := acc.Analyze(triggeredEvent(c, 2))
		require.NoError(t, err)
		assert.Equal(t, Unmatched, got, "c=%v", c)
	}
	assert.Equal(t, before, snapshot(t, acc))
	assert.Equal(t, int64(4), acc.Stats().Unmatched)
}

func TestAnalyze_BinSelection(t *testing.T) {
	tests := []struct {
		c    float64
		want int // index into bins
	}{
		{0, 0},
		{4.999, 0},
		{5.0, 1},
		{9.99, 1},
		{10, 2},
		{25, 3},
	}

	for _, tt := range tests {
		acc := newRecordedAccumulator(t)
		got, err := acc.Analyze(triggeredEvent(tt.c, 1.5))
		require.NoError(t, err)
		require.Equal(t, Accepted, got)

		for i, b := range acc.Bins() {
			if i == tt.want {
				assert.Equal(t, 1.5, b.SoW.SumW(), "c=%v bin=%d", tt.c, i)
				assert.Equal(t, int64(2), b.Hist.Entries(), "c=%v bin=%d", tt.c, i)
			} else {
				assert.Zero(t, b.SoW.Entries(), "c=%v bin=%d", tt.c, i)
				assert.Zero(t, b.Hist.Entries(), "c=%v bin=%d", tt.c, i)
			}
		}
	}
}

func TestAnalyze_NeutralsNeverFilled(t *testing.T) {
	acc := newRecordedAccumulator(t)

	neutrals := []event.Particle{
		{Barcode: 10, PDG: 22, Status: 1, Eta: 0.2, Pt: 1, Charge: 0},
		{Barcode: 11, PDG: 2112, Status: 1, Eta: -0.7, Pt: 1, Charge: 0},
		{Barcode: 12, PDG: 111, Status: 1, Eta: 4.2, Pt: 1, Charge: 0},
	}
	_, err := acc.Analyze(triggeredEvent(1, 1, neutrals...))
	require.NoError(t, err)

	b := acc.Bins()[0]
	assert.Equal(t, int64(2), b.Hist.Entries(), "only the two charged trigger particles are filled")

	h := b.Hist
	for i := 0; i < h.Len(); i++ {
		x, y := h.XY(i)
		switch i {
		case 3, 13: // -2.0 and 3.0
			assert.Equal(t, 1.0, y, "x=%v", x)
		default:
			assert.Zero(t, y, "x=%v", x)
		}
	}
}

func TestAnalyze_ChargedPrimaryWindow(t *testing.T) {
	acc := newRecordedAccumulator(t)

	extra := []event.Particle{
		{Barcode: 20, Status: 1, Eta: 5.5, Pt: 0.01, Charge: 2}, // inside |eta| < 5.6
		{Barcode: 21, Status: 1, Eta: 5.7, Pt: 1, Charge: 1},    // outside
		{Barcode: 22, Status: 2, Eta: 0.0, Pt: 1, Charge: 1},    // decayed
	}
	_, err := acc.Analyze(triggeredEvent(1, 1, extra...))
	require.NoError(t, err)

	assert.Equal(t, int64(3), acc.Bins()[0].Hist.Entries())
}

func TestAnalyze_WeightOrderIndependent(t *testing.T) {
	e1 := triggeredEvent(7, 0.3)
	e2 := triggeredEvent(8, 1.7)

	a := newRecordedAccumulator(t)
	require.NoError(t, analyzeAll(a, e1, e2))
	b := newRecordedAccumulator(t)
	require.NoError(t, analyzeAll(b, e2, e1))

	assert.Equal(t, a.Bins()[1].SoW.SumW(), b.Bins()[1].SoW.SumW())
	assert.Equal(t, a.Bins()[1].SoW.Entries(), b.Bins()[1].SoW.Entries())
}

func TestAnalyze_SelectionErrorLeavesBinsUntouched(t *testing.T) {
	proj := stubProjections(true, true, true, 1, nil)
	proj.Primary = fixedSelection{name: PrimaryName, err: errors.New("bad cut")}

	acc, err := New(DefaultConfig(), proj)
	require.NoError(t, err)
	before := snapshot(t, acc)

	_, err = acc.Analyze(event.New(7, 1, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 7")
	assert.Equal(t, before, snapshot(t, acc))
}

func TestFinalize_ScalesByInverseSumOfWeights(t *testing.T) {
	primaries := []event.Particle{{Status: 1, Eta: 1.0, Pt: 1, Charge: 1}}
	acc, err := New(DefaultConfig(), stubProjections(true, false, true, 2, primaries))
	require.NoError(t, err)

	_, err = acc.Analyze(event.New(1, 2.0, nil))
	require.NoError(t, err)

	report, err := acc.Finalize()
	require.NoError(t, err)

	b := acc.Bins()[0]
	assert.Equal(t, 2.0, b.SoW.SumW())
	x, y := b.Hist.XY(9)
	assert.Equal(t, 1.25, x)
	assert.InDelta(t, 1.0, y, 1e-12)

	require.Len(t, report.Bins, 4)
	assert.False(t, report.Bins[0].Degenerate)
	assert.InDelta(t, 1.0, report.Bins[0].Integral, 1e-12)
	assert.Equal(t, int64(1), report.Bins[0].Events)
}

func TestFinalize_DegenerateBins(t *testing.T) {
	acc := newRecordedAccumulator(t)
	_, err := acc.Analyze(triggeredEvent(12, 1))
	require.NoError(t, err)

	report, err := acc.Finalize()
	require.NoError(t, err)

	require.Len(t, report.Warnings, 3, "bins 5, 10 and 30 never received weight")
	for i, br := range report.Bins {
		assert.Equal(t, i != 2, br.Degenerate, "bin %d", i)
	}
	for _, b := range acc.Bins() {
		h := b.Hist
		for i := 0; i < h.Len(); i++ {
			_, y := h.XY(i)
			assert.False(t, math.IsNaN(y), "finalize must not produce NaN bins")
		}
	}
}

func TestFinalize_Once(t *testing.T) {
	acc := newRecordedAccumulator(t)
	_, err := acc.Finalize()
	require.NoError(t, err)
	assert.True(t, acc.Finalized())

	_, err = acc.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)

	_, err = acc.Analyze(triggeredEvent(1, 1))
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestNew_MissingProjection(t *testing.T) {
	proj, err := DefaultProjections()
	require.NoError(t, err)

	_, err = New(DefaultConfig(), proj)
	assert.Error(t, err, "centrality estimator is required")

	proj.Centrality = fixedCentrality(1)
	proj.Primary = nil
	_, err = New(DefaultConfig(), proj)
	assert.Error(t, err)
}

func TestNew_BadAxis(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Eta = Axis{Bins: 0, Min: -1, Max: 1}
	_, err := New(cfg, stubProjections(true, true, true, 1, nil))
	assert.Error(t, err)

	cfg.Eta = Axis{Bins: 10, Min: 1, Max: 1}
	_, err = New(cfg, stubProjections(true, true, true, 1, nil))
	assert.Error(t, err)
}

func TestMerge_EqualsSequential(t *testing.T) {
	events := []*event.Event{
		triggeredEvent(1, 1.0, event.Particle{Status: 1, Eta: 0.3, Charge: 1}),
		triggeredEvent(6, 0.5),
		triggeredEvent(15, 2.0, event.Particle{Status: 1, Eta: -3.2, Charge: -1}),
		triggeredEvent(27, 1.5),
		triggeredEvent(3, 0.25),
	}

	seq := newRecordedAccumulator(t)
	require.NoError(t, analyzeAll(seq, events...))

	left := newRecordedAccumulator(t)
	require.NoError(t, analyzeAll(left, events[:2]...))
	right := newRecordedAccumulator(t)
	require.NoError(t, analyzeAll(right, events[2:]...))
	require.NoError(t, left.Merge(right))

	assert.Equal(t, seq.Stats(), left.Stats())
	for i := range seq.Bins() {
		s, m := seq.Bins()[i], left.Bins()[i]
		assert.Equal(t, s.SoW.SumW(), m.SoW.SumW(), "bin %d", i)
		for j := 0; j < s.Hist.Len(); j++ {
			_, ys := s.Hist.XY(j)
			_, ym := m.Hist.XY(j)
			assert.InDelta(t, ys, ym, 1e-12, "bin %d eta bin %d", i, j)
		}
	}
}

func TestMerge_AfterFinalize(t *testing.T) {
	a := newRecordedAccumulator(t)
	b := newRecordedAccumulator(t)
	_, err := b.Finalize()
	require.NoError(t, err)
	assert.ErrorIs(t, a.Merge(b), ErrFinalized)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "vetoed", Vetoed.String())
	assert.Equal(t, "unmatched", Unmatched.String())
	assert.Equal(t, "accepted", Accepted.String())
}

func analyzeAll(acc *Accumulator, events ...*event.Event) error {
	for _, ev := range events {
		if _, err := acc.Analyze(ev); err != nil {
			return err
		}
	}
	return nil
}
