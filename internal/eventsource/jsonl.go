package eventsource

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/mrzor/centrality-eta/internal/event"
	"github.com/ohler55/ojg/oj"
)

const maxLineSize = 64 << 20

// jsonlSource decodes one JSON event object per line. Blank lines are skipped.
//
//	{"weight":1,"centrality":12.5,"impact":3.1,
//	 "particles":[{"eta":0.4,"pt":0.7,"charge":1,"pdg":211,"status":1}]}
type jsonlSource struct {
	path    string
	rc      io.ReadCloser
	scanner *bufio.Scanner
	line    int
}

func newJSONLSource(path string, rc io.ReadCloser) *jsonlSource {
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &jsonlSource{
		path:    path,
		rc:      rc,
		scanner: scanner,
	}
}

// Next implements Source.
func (s *jsonlSource) Next() (*event.Event, error) {
	for s.scanner.Scan() {
		s.line++
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := decodeJSONEvent(line)
		if err != nil {
			return nil, recordError(s.path, s.line, err)
		}
		ev.Number = s.line
		return ev, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return nil, io.EOF
}

// Close implements Source.
func (s *jsonlSource) Close() error {
	return s.rc.Close()
}

func decodeJSONEvent(data []byte) (*event.Event, error) {
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("event must be a JSON object, got %T", parsed)
	}

	weight, err := optionalNumber(obj, "weight", 1)
	if err != nil {
		return nil, err
	}
	cent, err := optionalNumber(obj, "centrality", math.NaN())
	if err != nil {
		return nil, err
	}
	impact, err := optionalNumber(obj, "impact", math.NaN())
	if err != nil {
		return nil, err
	}

	var particles []event.Particle
	if raw, ok := obj["particles"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("particles must be an array, got %T", raw)
		}
		particles = make([]event.Particle, 0, len(list))
		for i, item := range list {
			p, err := decodeJSONParticle(item)
			if err != nil {
				return nil, fmt.Errorf("particle %d: %w", i, err)
			}
			if p.Barcode == 0 {
				p.Barcode = i + 1
			}
			particles = append(particles, p)
		}
	}

	ev := event.New(0, weight, particles)
	ev.Centrality = cent
	ev.ImpactParameter = impact
	return ev, nil
}

func decodeJSONParticle(item any) (event.Particle, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return event.Particle{}, fmt.Errorf("must be an object, got %T", item)
	}

	var p event.Particle
	var err error
	if p.Eta, err = requiredNumber(obj, "eta"); err != nil {
		return p, err
	}
	if p.Pt, err = optionalNumber(obj, "pt", 0); err != nil {
		return p, err
	}
	if p.Charge, err = optionalNumber(obj, "charge", 0); err != nil {
		return p, err
	}
	pdg, err := optionalNumber(obj, "pdg", 0)
	if err != nil {
		return p, err
	}
	status, err := optionalNumber(obj, "status", 1)
	if err != nil {
		return p, err
	}
	barcode, err := optionalNumber(obj, "barcode", 0)
	if err != nil {
		return p, err
	}

	p.PDG = int64(pdg)
	p.Status = int(status)
	p.Barcode = int(barcode)
	return p, nil
}

func requiredNumber(obj map[string]any, key string) (float64, error) {
	if _, ok := obj[key]; !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	return optionalNumber(obj, key, 0)
}

func optionalNumber(obj map[string]any, key string, def float64) (float64, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("field %q must be a number, got %T", key, raw)
	}
}
