package output

import (
	"fmt"
	"io"

	"github.com/mrzor/centrality-eta/internal/analysis"

	"gopkg.in/yaml.v3"
)

// Summary is the YAML run record.
type Summary struct {
	RunID       string       `yaml:"run_id"`
	Analysis    string       `yaml:"analysis"`
	Estimator   string       `yaml:"estimator,omitempty"`
	Workers     int          `yaml:"workers,omitempty"`
	Inputs      []string     `yaml:"inputs,omitempty"`
	Events      EventSummary `yaml:"events"`
	Bins        []BinSummary `yaml:"bins"`
	Warnings    []string     `yaml:"warnings,omitempty"`
	Fingerprint string       `yaml:"fingerprint"`
}

// EventSummary holds the outcome tallies of a run.
type EventSummary struct {
	Total     int64   `yaml:"total"`
	Vetoed    int64   `yaml:"vetoed"`
	Unmatched int64   `yaml:"unmatched"`
	Accepted  int64   `yaml:"accepted"`
	SumW      float64 `yaml:"sum_of_weights"`
}

// BinSummary describes one centrality bin.
type BinSummary struct {
	Path       string  `yaml:"path"`
	UpperEdge  float64 `yaml:"upper_edge"`
	SumW       float64 `yaml:"sum_of_weights"`
	Events     int64   `yaml:"events"`
	Entries    int64   `yaml:"entries"`
	Integral   float64 `yaml:"integral"`
	Degenerate bool    `yaml:"degenerate,omitempty"`
}

// NewSummary builds the summary of a finalized run.
func NewSummary(runID string, stats analysis.Stats, report *analysis.Report, fingerprint string) *Summary {
	s := &Summary{
		RunID:    runID,
		Analysis: analysis.Name,
		Events: EventSummary{
			Total:     stats.Events,
			Vetoed:    stats.Vetoed,
			Unmatched: stats.Unmatched,
			Accepted:  stats.Accepted,
			SumW:      stats.SumW,
		},
		Warnings:    report.Warnings,
		Fingerprint: fingerprint,
	}
	for i, b := range report.Bins {
		s.Bins = append(s.Bins, BinSummary{
			Path:       analysis.HistPath(i),
			UpperEdge:  b.UpperEdge,
			SumW:       b.SumW,
			Events:     b.Events,
			Entries:    b.Entries,
			Integral:   b.Integral,
			Degenerate: b.Degenerate,
		})
	}
	return s
}

// Encode writes s as YAML.
func (s *Summary) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return enc.Close()
}

// ReadSummary decodes a summary written by Encode.
func ReadSummary(r io.Reader) (*Summary, error) {
	var s Summary
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &s, nil
}
