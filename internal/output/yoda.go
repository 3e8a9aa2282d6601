package output

import (
	"bytes"
	"fmt"

	"github.com/mrzor/centrality-eta/internal/analysis"
)

// MarshalYODA encodes every histogram of acc, each followed by its bin's
// sum-of-weights counter.
func MarshalYODA(acc *analysis.Accumulator) ([]byte, error) {
	var buf bytes.Buffer
	for i, b := range acc.Bins() {
		raw, err := b.Hist.MarshalYODA()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", analysis.HistPath(i), err)
		}
		buf.Write(raw)
		buf.Write(b.SoW.MarshalYODA(analysis.CounterPath(i)))
	}
	return buf.Bytes(), nil
}
