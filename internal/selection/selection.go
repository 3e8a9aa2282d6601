package selection

import (
	"fmt"

	"github.com/mrzor/centrality-eta/internal/event"
)

// Selection extracts a named particle collection from an event.
type Selection interface {
	Name() string
	Select(ev *event.Event) ([]event.Particle, error)
}

// FinalState selects final-state particles passing a cut.
// The returned slice keeps the order of the event record.
type FinalState struct {
	name        string
	cut         *Cut
	chargedOnly bool
}

// NewChargedFinalState creates a selection of charged final-state particles.
func NewChargedFinalState(name, cut string) (*FinalState, error) {
	return newFinalState(name, cut, true)
}

// NewPrimaryParticles creates a selection of primary particles of any charge.
// Primaries are the stable particles of the generator record.
func NewPrimaryParticles(name, cut string) (*FinalState, error) {
	return newFinalState(name, cut, false)
}

func newFinalState(name, cut string, chargedOnly bool) (*FinalState, error) {
	if name == "" {
		return nil, fmt.Errorf("selection name is required")
	}

	c, err := NewCut(cut)
	if err != nil {
		return nil, fmt.Errorf("selection %s: %w", name, err)
	}

	return &FinalState{
		name:        name,
		cut:         c,
		chargedOnly: chargedOnly,
	}, nil
}

// Name returns the registered selection name.
func (s *FinalState) Name() string {
	return s.name
}

// Cut returns the kinematic cut of the selection.
func (s *FinalState) Cut() *Cut {
	return s.cut
}

// Select returns the particles passing the selection.
func (s *FinalState) Select(ev *event.Event) ([]event.Particle, error) {
	var selected []event.Particle
	for _, p := range ev.Particles {
		if !p.IsFinal() {
			continue
		}
		if s.chargedOnly && p.AbsCharge() == 0 {
			continue
		}

		ok, err := s.cut.Accept(p)
		if err != nil {
			return nil, fmt.Errorf("selection %s: %w", s.name, err)
		}
		if ok {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// Count returns the number of particles passing the selection.
func Count(s Selection, ev *event.Event) (int, error) {
	particles, err := s.Select(ev)
	if err != nil {
		return 0, err
	}
	return len(particles), nil
}
