package binning

import (
	"bytes"
	"fmt"
)

// Counter accumulates event weights, like a YODA counter.
type Counter struct {
	sumW    float64
	sumW2   float64
	entries int64
}

// Fill adds one weighted entry.
func (c *Counter) Fill(w float64) {
	c.sumW += w
	c.sumW2 += w * w
	c.entries++
}

// Add adds the contents of another counter.
func (c *Counter) Add(o *Counter) {
	c.sumW += o.sumW
	c.sumW2 += o.sumW2
	c.entries += o.entries
}

// SumW returns the sum of weights.
func (c *Counter) SumW() float64 {
	return c.sumW
}

// SumW2 returns the sum of squared weights.
func (c *Counter) SumW2() float64 {
	return c.sumW2
}

// Entries returns the number of fills.
func (c *Counter) Entries() int64 {
	return c.entries
}

// MarshalYODA encodes the counter as a YODA_COUNTER_V2 block.
func (c *Counter) MarshalYODA(path string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "BEGIN YODA_COUNTER_V2 %s\n", path)
	fmt.Fprintf(&buf, "Path: %s\n", path)
	fmt.Fprintf(&buf, "Title: \n")
	fmt.Fprintf(&buf, "Type: Counter\n")
	fmt.Fprintf(&buf, "---\n")
	fmt.Fprintf(&buf, "# sumW\t sumW2\t numEntries\n")
	fmt.Fprintf(&buf, "%e\t%e\t%d\n", c.sumW, c.sumW2, c.entries)
	fmt.Fprintf(&buf, "END YODA_COUNTER_V2\n\n")
	return buf.Bytes()
}
