package event

import "math"

// Particle is a single entry of the event record.
type Particle struct {
	Barcode int     // Position in the generator record
	PDG     int64   // PDG Monte Carlo particle id
	Status  int     // Generator status code (1 = final state)
	Eta     float64 // Pseudorapidity
	Pt      float64 // Transverse momentum in GeV
	Charge  float64 // Electric charge in units of e
}

// AbsCharge returns the magnitude of the electric charge.
func (p Particle) AbsCharge() float64 {
	return math.Abs(p.Charge)
}

// AbsEta returns the magnitude of the pseudorapidity.
func (p Particle) AbsEta() float64 {
	return math.Abs(p.Eta)
}

// IsFinal reports whether the particle is a stable final-state particle.
func (p Particle) IsFinal() bool {
	return p.Status == 1
}

// Event holds one collision event.
type Event struct {
	Number          int
	Weight          float64
	Particles       []Particle
	Centrality      float64 // Recorded centrality percentile, NaN if unknown
	ImpactParameter float64 // Impact parameter in fm, NaN if unknown
}

// New creates an event without heavy-ion information.
func New(number int, weight float64, particles []Particle) *Event {
	return &Event{
		Number:          number,
		Weight:          weight,
		Particles:       particles,
		Centrality:      math.NaN(),
		ImpactParameter: math.NaN(),
	}
}

// HasCentrality reports whether the source recorded a centrality value.
func (e *Event) HasCentrality() bool {
	return !math.IsNaN(e.Centrality)
}

// HasImpactParameter reports whether the source recorded an impact parameter.
func (e *Event) HasImpactParameter() bool {
	return !math.IsNaN(e.ImpactParameter)
}
