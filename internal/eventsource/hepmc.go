package eventsource

import (
	"errors"
	"io"
	"math"
	"sort"

	"github.com/mrzor/centrality-eta/internal/event"
	"go-hep.org/x/hep/hepmc"
	"go-hep.org/x/hep/heppdt"
)

// hepmcSource decodes HepMC2 ASCII event listings.
type hepmcSource struct {
	path   string
	rc     io.ReadCloser
	dec    *hepmc.Decoder
	record int
}

func newHepMCSource(path string, rc io.ReadCloser) *hepmcSource {
	return &hepmcSource{
		path: path,
		rc:   rc,
		dec:  hepmc.NewDecoder(rc),
	}
}

// Next implements Source.
func (s *hepmcSource) Next() (*event.Event, error) {
	var evt hepmc.Event
	err := s.dec.Decode(&evt)
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	s.record++
	if err != nil {
		return nil, recordError(s.path, s.record, err)
	}
	defer func() {
		_ = hepmc.Delete(&evt)
	}()

	return convertHepMC(&evt), nil
}

// Close implements Source.
func (s *hepmcSource) Close() error {
	return s.rc.Close()
}

// convertHepMC flattens a HepMC event. Particles are ordered by barcode so that
// map iteration order never leaks into the analysis.
func convertHepMC(evt *hepmc.Event) *event.Event {
	barcodes := make([]int, 0, len(evt.Particles))
	for bc := range evt.Particles {
		barcodes = append(barcodes, bc)
	}
	sort.Ints(barcodes)

	particles := make([]event.Particle, 0, len(barcodes))
	for _, bc := range barcodes {
		p := evt.Particles[bc]
		particles = append(particles, event.Particle{
			Barcode: p.Barcode,
			PDG:     p.PdgID,
			Status:  p.Status,
			Eta:     p.Momentum.Eta(),
			Pt:      p.Momentum.Pt(),
			Charge:  charge(p.PdgID),
		})
	}

	weight := 1.0
	if len(evt.Weights.Slice) > 0 {
		weight = evt.Weights.Slice[0]
	}

	ev := event.New(evt.EventNumber, weight, particles)
	if evt.HeavyIon != nil {
		ev.ImpactParameter = float64(evt.HeavyIon.ImpactParameter)
	}
	return ev
}

// charge returns the electric charge of a PDG id, or 0 when the id is unknown.
// Antiparticles missing from the table take the negated charge of their partner.
func charge(pdg int64) float64 {
	if p := heppdt.ParticleByID(heppdt.PID(pdg)); p != nil {
		return finite(p.Charge)
	}
	if pdg < 0 {
		if p := heppdt.ParticleByID(heppdt.PID(-pdg)); p != nil {
			return -finite(p.Charge)
		}
	}
	return 0
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
