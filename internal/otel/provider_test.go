package otel

import (
	"context"
	"testing"

	"github.com/mrzor/centrality-eta/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProvider(t *testing.T) {
	cfg := &config.OTELConfig{
		ServiceName:        "centrality-eta-test",
		ResourceAttributes: "site=test",
		ExporterEndpoint:   "127.0.0.1:4318",
	}

	tp, err := InitProvider(cfg, "dev (unknown)")
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.NotNil(t, tp.Tracer("centrality-eta"))
	assert.NoError(t, ShutdownProvider(tp, context.Background()))
}

func TestInitProvider_EndpointURL(t *testing.T) {
	cfg := &config.OTELConfig{
		ServiceName:    "centrality-eta-test",
		TracesEndpoint: "https://collector.example:4318/v1/traces",
	}

	tp, err := InitProvider(cfg, "dev")
	require.NoError(t, err)
	assert.NoError(t, ShutdownProvider(tp, context.Background()))
}

func TestShutdownProvider_Nil(t *testing.T) {
	assert.NoError(t, ShutdownProvider(nil, context.Background()))
}

func TestExporterOptions(t *testing.T) {
	assert.Len(t, exporterOptions("localhost:4318"), 3)
	assert.Len(t, exporterOptions("http://localhost:4318"), 2)
}
