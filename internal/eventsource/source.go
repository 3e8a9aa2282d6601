package eventsource

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mrzor/centrality-eta/internal/event"
)

// ErrUnknownFormat is returned when the input format cannot be determined.
var ErrUnknownFormat = errors.New("unknown event format")

// Source yields events in order. Next returns io.EOF after the last event.
type Source interface {
	Next() (*event.Event, error)
	Close() error
}

// Format identifies an input encoding.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatHepMC Format = "hepmc"
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatAuto, FormatHepMC, FormatJSONL:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat guesses the format from the file name, ignoring compression suffixes.
func DetectFormat(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	for _, suffix := range []string{".gz", ".xz"} {
		name = strings.TrimSuffix(name, suffix)
	}

	switch filepath.Ext(name) {
	case ".hepmc", ".hepmc2", ".hepevt":
		return FormatHepMC, nil
	case ".jsonl", ".ndjson", ".json":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Open opens a single event file.
func Open(path string, format Format) (Source, error) {
	if format == FormatAuto || format == "" {
		var err error
		format, err = DetectFormat(path)
		if err != nil {
			return nil, err
		}
	}

	rc, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatHepMC:
		return newHepMCSource(path, rc), nil
	case FormatJSONL:
		return newJSONLSource(path, rc), nil
	default:
		_ = rc.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Chain reads several files one after the other. Event numbers are assigned
// sequentially across the whole chain, starting at 1.
type Chain struct {
	paths   []string
	format  Format
	current Source
	next    int
	count   int
}

// NewChain creates a chain over paths. Files are opened lazily.
func NewChain(paths []string, format Format) *Chain {
	return &Chain{
		paths:  paths,
		format: format,
	}
}

// Next implements Source.
func (c *Chain) Next() (*event.Event, error) {
	for {
		if c.current == nil {
			if c.next >= len(c.paths) {
				return nil, io.EOF
			}
			src, err := Open(c.paths[c.next], c.format)
			if err != nil {
				return nil, err
			}
			c.current = src
			c.next++
		}

		ev, err := c.current.Next()
		if errors.Is(err, io.EOF) {
			if err := c.current.Close(); err != nil {
				return nil, err
			}
			c.current = nil
			continue
		}
		if err != nil {
			return nil, err
		}

		c.count++
		ev.Number = c.count
		return ev, nil
	}
}

// Close implements Source.
func (c *Chain) Close() error {
	if c.current == nil {
		return nil
	}
	err := c.current.Close()
	c.current = nil
	return err
}

// recordError annotates a decoding error with its location.
func recordError(path string, record int, err error) error {
	return fmt.Errorf("%s: record %d: %w", path, record, err)
}
