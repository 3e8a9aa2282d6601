package eventstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mrzor/centrality-eta/internal/analysis"
	"github.com/mrzor/centrality-eta/internal/event"
	"github.com/mrzor/centrality-eta/internal/eventsource"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const queueSize = 64

// Factory builds an empty accumulator. It is called once per worker.
type Factory func() (*analysis.Accumulator, error)

// Result is the outcome of a complete run.
type Result struct {
	Accumulator *analysis.Accumulator
	Report      *analysis.Report
	Stats       analysis.Stats
}

// Stream reads events from a source and dispatches them to analysis workers.
type Stream struct {
	workers int
	factory Factory
	tracer  trace.Tracer
}

// New creates a new Stream. A nil tracer disables tracing.
func New(workers int, factory Factory, tracer trace.Tracer) (*Stream, error) {
	if workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", workers)
	}
	if factory == nil {
		return nil, fmt.Errorf("accumulator factory is required")
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Stream{
		workers: workers,
		factory: factory,
		tracer:  tracer,
	}, nil
}

// Run drains src, merges the per-worker partials in worker order and finalizes once.
// Event i of the source is always analysed by worker i mod N, so the result does
// not depend on scheduling.
func (s *Stream) Run(ctx context.Context, src eventsource.Source) (*Result, error) {
	accs := make([]*analysis.Accumulator, s.workers)
	for i := range accs {
		acc, err := s.factory()
		if err != nil {
			return nil, fmt.Errorf("failed to create accumulator %d: %w", i, err)
		}
		accs[i] = acc
	}

	if err := s.process(ctx, src, accs); err != nil {
		return nil, err
	}

	merged := accs[0]
	for i, acc := range accs[1:] {
		if err := merged.Merge(acc); err != nil {
			return nil, fmt.Errorf("failed to merge worker %d: %w", i+1, err)
		}
	}

	_, span := s.tracer.Start(ctx, "finalize")
	defer span.End()

	report, err := merged.Finalize()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("warnings", len(report.Warnings)))

	return &Result{
		Accumulator: merged,
		Report:      report,
		Stats:       merged.Stats(),
	}, nil
}

// process is the main event loop. It returns the first error from the source,
// a worker or the context.
func (s *Stream) process(ctx context.Context, src eventsource.Source, accs []*analysis.Accumulator) error {
	ctx, span := s.tracer.Start(ctx, "analyze", trace.WithAttributes(attribute.Int("workers", s.workers)))
	defer span.End()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	queues := make([]chan *event.Event, len(accs))
	var wg sync.WaitGroup
	for i := range accs {
		queues[i] = make(chan *event.Event, queueSize)
		wg.Add(1)
		go func(acc *analysis.Accumulator, queue <-chan *event.Event) {
			defer wg.Done()
			for ev := range queue {
				if ctx.Err() != nil {
					continue
				}
				if _, err := acc.Analyze(ev); err != nil {
					fail(fmt.Errorf("event %d: %w", ev.Number, err))
				}
			}
		}(accs[i], queues[i])
	}

	dispatch(ctx, src, queues, fail)

	for _, queue := range queues {
		close(queue)
	}
	wg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}

	var stats analysis.Stats
	for _, acc := range accs {
		st := acc.Stats()
		stats.Events += st.Events
		stats.Vetoed += st.Vetoed
		stats.Unmatched += st.Unmatched
		stats.Accepted += st.Accepted
	}
	span.SetAttributes(
		attribute.Int64("events", stats.Events),
		attribute.Int64("vetoed", stats.Vetoed),
		attribute.Int64("unmatched", stats.Unmatched),
		attribute.Int64("accepted", stats.Accepted),
	)

	if firstErr != nil {
		span.SetStatus(codes.Error, firstErr.Error())
	}
	return firstErr
}

// dispatch reads src round-robin into queues until EOF, an error or cancellation.
func dispatch(ctx context.Context, src eventsource.Source, queues []chan *event.Event, fail func(error)) {
	for i := 0; ; i++ {
		if ctx.Err() != nil {
			return
		}

		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fail(fmt.Errorf("reading events: %w", err))
			return
		}

		select {
		case queues[i%len(queues)] <- ev:
		case <-ctx.Done():
			return
		}
	}
}
