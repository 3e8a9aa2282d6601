package centrality

import (
	"embed"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed calibrations/*.yaml
var builtin embed.FS

// Calibration maps an observable to a centrality percentile by linear interpolation.
// Values outside the table are clamped to the first or last percentile.
type Calibration struct {
	Method      string    `yaml:"method"`
	Edges       []float64 `yaml:"edges"`
	Percentiles []float64 `yaml:"percentiles"`
}

// LoadCalibration decodes and validates a YAML calibration table.
func LoadCalibration(r io.Reader) (*Calibration, error) {
	var cal Calibration
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cal); err != nil {
		return nil, fmt.Errorf("failed to decode calibration: %w", err)
	}
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &cal, nil
}

// LoadCalibrationFile reads a calibration table from disk.
func LoadCalibrationFile(path string) (*Calibration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calibration: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	cal, err := LoadCalibration(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cal, nil
}

// Builtin returns the calibration shipped for the given method.
func Builtin(method string) (*Calibration, error) {
	var name string
	switch method {
	case MethodV0M:
		name = "calibrations/v0m.yaml"
	case MethodImpact:
		name = "calibrations/impact.yaml"
	default:
		return nil, fmt.Errorf("no builtin calibration for method %q", method)
	}

	f, err := builtin.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return LoadCalibration(f)
}

// Validate checks that the table is usable for interpolation.
func (c *Calibration) Validate() error {
	if len(c.Edges) < 2 {
		return fmt.Errorf("calibration needs at least 2 edges, got %d", len(c.Edges))
	}
	if len(c.Edges) != len(c.Percentiles) {
		return fmt.Errorf("calibration has %d edges but %d percentiles", len(c.Edges), len(c.Percentiles))
	}

	for i := range c.Edges {
		if math.IsNaN(c.Edges[i]) || math.IsInf(c.Edges[i], 0) {
			return fmt.Errorf("calibration edge %d is not finite", i)
		}
		if i > 0 && c.Edges[i] <= c.Edges[i-1] {
			return fmt.Errorf("calibration edges must be strictly increasing at index %d", i)
		}
		if p := c.Percentiles[i]; p < 0 || p > 100 || math.IsNaN(p) {
			return fmt.Errorf("calibration percentile %d out of [0, 100]: %v", i, p)
		}
	}

	// Percentiles must be monotonic, in either direction.
	rising := c.Percentiles[len(c.Percentiles)-1] >= c.Percentiles[0]
	for i := 1; i < len(c.Percentiles); i++ {
		if rising && c.Percentiles[i] < c.Percentiles[i-1] {
			return fmt.Errorf("calibration percentiles are not monotonic at index %d", i)
		}
		if !rising && c.Percentiles[i] > c.Percentiles[i-1] {
			return fmt.Errorf("calibration percentiles are not monotonic at index %d", i)
		}
	}
	return nil
}

// Percentile returns the interpolated percentile for x. NaN maps to NaN.
func (c *Calibration) Percentile(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}

	n := len(c.Edges)
	if x <= c.Edges[0] {
		return c.Percentiles[0]
	}
	if x >= c.Edges[n-1] {
		return c.Percentiles[n-1]
	}

	i := 1
	for c.Edges[i] < x {
		i++
	}
	lo, hi := c.Edges[i-1], c.Edges[i]
	frac := (x - lo) / (hi - lo)
	return c.Percentiles[i-1] + frac*(c.Percentiles[i]-c.Percentiles[i-1])
}
