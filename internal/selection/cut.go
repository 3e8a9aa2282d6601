package selection

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mrzor/centrality-eta/internal/event"
)

// particleEnv is the expression environment a cut is evaluated against.
type particleEnv struct {
	Eta       float64 `expr:"eta"`
	AbsEta    float64 `expr:"abseta"`
	Pt        float64 `expr:"pt"`
	Charge    float64 `expr:"charge"`
	AbsCharge float64 `expr:"abscharge"`
	PDG       int64   `expr:"pdg"`
	Status    int     `expr:"status"`
}

func newParticleEnv(p event.Particle) particleEnv {
	return particleEnv{
		Eta:       p.Eta,
		AbsEta:    p.AbsEta(),
		Pt:        p.Pt,
		Charge:    p.Charge,
		AbsCharge: p.AbsCharge(),
		PDG:       p.PDG,
		Status:    p.Status,
	}
}

// Cut is a compiled boolean particle cut.
type Cut struct {
	program *vm.Program
	source  string
}

// NewCut compiles a cut expression. An empty expression accepts every particle.
func NewCut(source string) (*Cut, error) {
	if source == "" {
		return &Cut{}, nil
	}

	program, err := expr.Compile(source, expr.Env(particleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile cut %q: %w", source, err)
	}

	return &Cut{
		program: program,
		source:  source,
	}, nil
}

// MustCut is like NewCut but panics on a compile error. Use it for literal cuts only.
func MustCut(source string) *Cut {
	c, err := NewCut(source)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the cut source.
func (c *Cut) String() string {
	return c.source
}

// Accept evaluates the cut for one particle.
func (c *Cut) Accept(p event.Particle) (bool, error) {
	if c.program == nil {
		return true, nil
	}

	output, err := expr.Run(c.program, newParticleEnv(p))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate cut %q: %w", c.source, err)
	}

	accepted, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("cut %q returned %T, want bool", c.source, output)
	}
	return accepted, nil
}
