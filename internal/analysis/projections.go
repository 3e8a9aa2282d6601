package analysis

import (
	"fmt"

	"github.com/mrzor/centrality-eta/internal/centrality"
	"github.com/mrzor/centrality-eta/internal/selection"
)

// Selection names and cuts of the measurement.
const (
	ForwardName  = "VZERO1"
	BackwardName = "VZERO2"
	CentralName  = "SPD"
	PrimaryName  = "APRIM"

	ForwardCut  = "eta > 2.8 && eta < 5.1 && pt > 0.1"
	BackwardCut = "eta > -3.7 && eta < -1.7 && pt > 0.1"
	CentralCut  = "abseta < 1.0 && pt > 0.15"
	PrimaryCut  = "abseta < 5.6"
)

// Projections are the external collaborators the accumulator reads events through.
type Projections struct {
	Forward    selection.Selection
	Backward   selection.Selection
	Central    selection.Selection
	Primary    selection.Selection
	Centrality centrality.Estimator
}

// DefaultProjections builds the trigger and primary selections of the measurement.
// The centrality estimator is left for the caller to set.
func DefaultProjections() (Projections, error) {
	fwd, err := selection.NewChargedFinalState(ForwardName, ForwardCut)
	if err != nil {
		return Projections{}, err
	}
	bwd, err := selection.NewChargedFinalState(BackwardName, BackwardCut)
	if err != nil {
		return Projections{}, err
	}
	spd, err := selection.NewChargedFinalState(CentralName, CentralCut)
	if err != nil {
		return Projections{}, err
	}
	prim, err := selection.NewPrimaryParticles(PrimaryName, PrimaryCut)
	if err != nil {
		return Projections{}, err
	}

	return Projections{
		Forward:  fwd,
		Backward: bwd,
		Central:  spd,
		Primary:  prim,
	}, nil
}

// WithEstimator returns a copy of p using the named centrality method.
// V0M sums the forward and backward trigger windows.
func (p Projections) WithEstimator(method string, cal *centrality.Calibration) (Projections, error) {
	est, err := centrality.New(method, cal, p.Forward, p.Backward)
	if err != nil {
		return Projections{}, err
	}
	p.Centrality = est
	return p, nil
}

func (p Projections) validate() error {
	switch {
	case p.Forward == nil:
		return fmt.Errorf("missing projection %s", ForwardName)
	case p.Backward == nil:
		return fmt.Errorf("missing projection %s", BackwardName)
	case p.Central == nil:
		return fmt.Errorf("missing projection %s", CentralName)
	case p.Primary == nil:
		return fmt.Errorf("missing projection %s", PrimaryName)
	case p.Centrality == nil:
		return fmt.Errorf("missing centrality estimator")
	}
	return nil
}
