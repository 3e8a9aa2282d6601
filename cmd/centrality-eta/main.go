// centrality-eta measures the charged-particle pseudorapidity density of Pb-Pb
// events in centrality classes, following ALICE_2013_I1225979.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrzor/centrality-eta/internal/analysis"
	"github.com/mrzor/centrality-eta/internal/centrality"
	"github.com/mrzor/centrality-eta/internal/config"
	"github.com/mrzor/centrality-eta/internal/eventsource"
	"github.com/mrzor/centrality-eta/internal/eventstream"
	"github.com/mrzor/centrality-eta/internal/otel"
	"github.com/mrzor/centrality-eta/internal/output"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Version information injected at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// setupOTEL initializes the OTEL provider and returns a tracer and cleanup function.
// Without a configured endpoint a no-op tracer is returned.
func setupOTEL(versionInfo string) (trace.Tracer, func(), error) {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse OTEL config: %w", err)
	}
	if !otelCfg.Enabled() {
		return noop.NewTracerProvider().Tracer("centrality-eta"), func() {}, nil
	}

	tp, err := otel.InitProvider(otelCfg, versionInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OTEL provider: %w", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownProvider(tp, shutdownCtx); err != nil {
			log.Printf("Error shutting down OTEL provider: %v", err)
		}
	}

	return tp.Tracer("centrality-eta"), cleanup, nil
}

// setupAnalysis builds the projections once and returns a factory of accumulators
// sharing them. Projections are read-only after setup.
func setupAnalysis(cfg *config.Config) (eventstream.Factory, error) {
	proj, err := analysis.DefaultProjections()
	if err != nil {
		return nil, fmt.Errorf("failed to build projections: %w", err)
	}

	var cal *centrality.Calibration
	if cfg.Calibration != "" {
		if cal, err = centrality.LoadCalibrationFile(cfg.Calibration); err != nil {
			return nil, err
		}
	}

	proj, err = proj.WithEstimator(cfg.Estimator, cal)
	if err != nil {
		return nil, fmt.Errorf("failed to set up centrality estimator: %w", err)
	}

	acfg := analysis.DefaultConfig()
	if _, err := analysis.New(acfg, proj); err != nil {
		return nil, fmt.Errorf("failed to set up analysis: %w", err)
	}

	return func() (*analysis.Accumulator, error) {
		return analysis.New(acfg, proj)
	}, nil
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func run() error {
	// Parse command line arguments
	cfg, err := config.ParseArgs(os.Args)
	if errors.Is(err, config.ErrHelp) {
		fmt.Print(config.Usage(os.Args[0]))
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Starting centrality-eta %s (commit: %s, built: %s)", version, commit, date)

	tracer, cleanupOTEL, err := setupOTEL(fmt.Sprintf("%s (%s)", version, commit))
	if err != nil {
		return err
	}
	defer cleanupOTEL()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, span := tracer.Start(ctx, "centrality-eta", trace.WithAttributes(
		attribute.String("analysis", analysis.Name),
		attribute.String("estimator", cfg.Estimator),
		attribute.Int("workers", cfg.Workers),
	))
	defer span.End()

	// Setup aborts before any event is read
	_, setupSpan := tracer.Start(ctx, "setup")
	factory, err := setupAnalysis(cfg)
	if err != nil {
		endSpan(setupSpan, err)
		return err
	}
	files, err := eventsource.Expand(cfg.Inputs)
	if err != nil {
		endSpan(setupSpan, err)
		return err
	}
	stream, err := eventstream.New(cfg.Workers, factory, tracer)
	endSpan(setupSpan, err)
	if err != nil {
		return err
	}

	log.Printf("Analysing %d input file(s) with %d worker(s), centrality estimator %s", len(files), cfg.Workers, cfg.Estimator)

	src := eventsource.NewChain(files, cfg.Format)
	defer func() {
		if err := src.Close(); err != nil {
			log.Printf("Error closing input: %v", err)
		}
	}()

	res, err := stream.Run(ctx, src)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	st := res.Stats
	log.Printf("Events: %d total, %d vetoed, %d unmatched, %d accepted (sum of weights %g)",
		st.Events, st.Vetoed, st.Unmatched, st.Accepted, st.SumW)

	_, writeSpan := tracer.Start(ctx, "write-output")
	summary, err := output.Write(res.Accumulator, res.Report, output.Options{
		Dir:       cfg.OutputDir,
		Plots:     cfg.Plots,
		Estimator: cfg.Estimator,
		Workers:   cfg.Workers,
		Inputs:    files,
	})
	endSpan(writeSpan, err)
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.String("run_id", summary.RunID), attribute.String("fingerprint", summary.Fingerprint))
	log.Printf("Run %s complete, results in %s", summary.RunID, cfg.OutputDir)
	return nil
}
