package centrality

import (
	"fmt"
	"math"

	"github.com/mrzor/centrality-eta/internal/event"
	"github.com/mrzor/centrality-eta/internal/selection"
)

// Estimator method names.
const (
	MethodV0M      = "V0M"
	MethodImpact   = "impact"
	MethodRecorded = "recorded"
)

// Estimator computes the centrality percentile of an event.
type Estimator interface {
	Method() string
	Centrality(ev *event.Event) (float64, error)
}

// New creates the estimator for a method. cal may be nil to use the builtin table.
// windows are the multiplicity selections summed by V0M; other methods ignore them.
func New(method string, cal *Calibration, windows ...selection.Selection) (Estimator, error) {
	switch method {
	case MethodRecorded:
		return Recorded{}, nil
	case MethodV0M, MethodImpact:
	default:
		return nil, fmt.Errorf("unknown centrality method %q", method)
	}

	if cal == nil {
		var err error
		cal, err = Builtin(method)
		if err != nil {
			return nil, err
		}
	}

	if method == MethodImpact {
		return &Impact{cal: cal}, nil
	}
	return NewMultiplicity(method, cal, windows...)
}

// Multiplicity counts charged particles in a set of windows and maps the count
// through a calibration.
type Multiplicity struct {
	method  string
	cal     *Calibration
	windows []selection.Selection
}

// NewMultiplicity creates a multiplicity-based estimator.
func NewMultiplicity(method string, cal *Calibration, windows ...selection.Selection) (*Multiplicity, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("%s estimator needs at least one selection", method)
	}
	if cal == nil {
		return nil, fmt.Errorf("%s estimator needs a calibration", method)
	}
	return &Multiplicity{
		method:  method,
		cal:     cal,
		windows: windows,
	}, nil
}

// Method returns the estimator name.
func (m *Multiplicity) Method() string {
	return m.method
}

// Multiplicity returns the summed window multiplicity of the event.
func (m *Multiplicity) Multiplicity(ev *event.Event) (int, error) {
	total := 0
	for _, w := range m.windows {
		n, err := selection.Count(w, ev)
		if err != nil {
			return 0, fmt.Errorf("%s multiplicity: %w", m.method, err)
		}
		total += n
	}
	return total, nil
}

// Centrality implements Estimator.
func (m *Multiplicity) Centrality(ev *event.Event) (float64, error) {
	n, err := m.Multiplicity(ev)
	if err != nil {
		return math.NaN(), err
	}
	return m.cal.Percentile(float64(n)), nil
}

// Impact maps the generator impact parameter through a calibration.
type Impact struct {
	cal *Calibration
}

// Method returns the estimator name.
func (*Impact) Method() string {
	return MethodImpact
}

// Centrality implements Estimator.
func (i *Impact) Centrality(ev *event.Event) (float64, error) {
	if !ev.HasImpactParameter() {
		return math.NaN(), nil
	}
	return i.cal.Percentile(ev.ImpactParameter), nil
}

// Recorded returns the centrality stored in the event.
type Recorded struct{}

// Method returns the estimator name.
func (Recorded) Method() string {
	return MethodRecorded
}

// Centrality implements Estimator.
func (Recorded) Centrality(ev *event.Event) (float64, error) {
	return ev.Centrality, nil
}
