package selection

import (
	"testing"

	"github.com/mrzor/centrality-eta/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() *event.Event {
	return event.New(1, 1.0, []event.Particle{
		{Barcode: 1, PDG: 2212, Status: 4, Eta: 8.0, Pt: 0, Charge: 1},
		{Barcode: 3, PDG: 211, Status: 1, Eta: 3.0, Pt: 0.5, Charge: 1},
		{Barcode: 4, PDG: 22, Status: 1, Eta: 3.1, Pt: 0.5, Charge: 0},
		{Barcode: 5, PDG: -211, Status: 1, Eta: -2.0, Pt: 0.05, Charge: -1},
		{Barcode: 6, PDG: -321, Status: 1, Eta: 4.0, Pt: 1.2, Charge: -1},
		{Barcode: 7, PDG: 211, Status: 2, Eta: 3.5, Pt: 2.0, Charge: 1},
	})
}

func TestNewCut_CompileError(t *testing.T) {
	_, err := NewCut("eta >")
	require.Error(t, err)

	_, err = NewCut("unknown_var > 1")
	require.Error(t, err)
}

func TestNewCut_NonBool(t *testing.T) {
	_, err := NewCut("eta + 1")
	assert.Error(t, err, "cuts must be boolean expressions")
}

func TestCut_Accept(t *testing.T) {
	tests := []struct {
		name string
		cut  string
		p    event.Particle
		want bool
	}{
		{"inside window", "eta > 2.8 && eta < 5.1 && pt > 0.1", event.Particle{Eta: 3, Pt: 0.2}, true},
		{"below pt", "eta > 2.8 && eta < 5.1 && pt > 0.1", event.Particle{Eta: 3, Pt: 0.1}, false},
		{"abseta", "abseta < 1.0", event.Particle{Eta: -0.99}, true},
		{"abseta edge", "abseta < 1.0", event.Particle{Eta: -1.0}, false},
		{"pdg", "pdg == 211", event.Particle{PDG: 211}, true},
		{"abscharge", "abscharge > 0", event.Particle{Charge: -1}, true},
		{"empty accepts", "", event.Particle{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCut(tt.cut)
			require.NoError(t, err)

			got, err := c.Accept(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChargedFinalState_Select(t *testing.T) {
	s, err := NewChargedFinalState("VZERO1", "eta > 2.8 && eta < 5.1 && pt > 0.1")
	require.NoError(t, err)

	got, err := s.Select(testEvent())
	require.NoError(t, err)

	require.Len(t, got, 2, "neutral, non-final and out-of-window particles are dropped")
	assert.Equal(t, 3, got[0].Barcode)
	assert.Equal(t, 6, got[1].Barcode)
	assert.Equal(t, "VZERO1", s.Name())
}

func TestPrimaryParticles_KeepsNeutrals(t *testing.T) {
	s, err := NewPrimaryParticles("APRIM", "abseta < 5.6")
	require.NoError(t, err)

	got, err := s.Select(testEvent())
	require.NoError(t, err)

	barcodes := make([]int, 0, len(got))
	for _, p := range got {
		barcodes = append(barcodes, p.Barcode)
	}
	assert.Equal(t, []int{3, 4, 5, 6}, barcodes)
}

func TestCount(t *testing.T) {
	s, err := NewChargedFinalState("SPD", "abseta < 1.0 && pt > 0.15")
	require.NoError(t, err)

	n, err := Count(s, testEvent())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewFinalState_RequiresName(t *testing.T) {
	_, err := NewChargedFinalState("", "pt > 0")
	assert.Error(t, err)
}
