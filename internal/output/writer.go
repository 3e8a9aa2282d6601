package output

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mrzor/centrality-eta/internal/analysis"

	"github.com/google/uuid"
)

// File names inside the output directory.
const (
	YODAFile    = analysis.Name + ".yoda"
	SummaryFile = "summary.yaml"
)

// Options controls what Write produces.
type Options struct {
	Dir       string
	Plots     bool
	RunID     string // Generated when empty
	Estimator string
	Workers   int
	Inputs    []string
}

// Write stores the YODA payload, the run summary and, optionally, one plot per
// bin. acc must be finalized.
func Write(acc *analysis.Accumulator, report *analysis.Report, opts Options) (*Summary, error) {
	if !acc.Finalized() {
		return nil, fmt.Errorf("accumulator must be finalized before writing")
	}
	if report == nil {
		return nil, fmt.Errorf("missing finalization report")
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := MarshalYODA(acc)
	if err != nil {
		return nil, err
	}
	fingerprint, err := Fingerprint(data)
	if err != nil {
		return nil, err
	}

	yodaPath := filepath.Join(opts.Dir, YODAFile)
	if err := os.WriteFile(yodaPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", yodaPath, err)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	summary := NewSummary(runID, acc.Stats(), report, fingerprint)
	summary.Estimator = opts.Estimator
	summary.Workers = opts.Workers
	summary.Inputs = opts.Inputs

	if err := writeSummary(filepath.Join(opts.Dir, SummaryFile), summary); err != nil {
		return nil, err
	}

	if opts.Plots {
		for i, b := range acc.Bins() {
			if err := SavePlot(b.Hist, b.UpperEdge, filepath.Join(opts.Dir, PlotName(i))); err != nil {
				return nil, err
			}
		}
	}

	log.Printf("Wrote %s (fingerprint %s)", yodaPath, fingerprint)
	return summary, nil
}

func writeSummary(path string, s *Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := s.Encode(f); err != nil {
		return err
	}
	return f.Close()
}
