package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "codemaster-ai", "test", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracerWithEndpoint(t *testing.T) {
	// The gRPC exporter connects lazily, so an unreachable collector does
	// not fail initialization.
	shutdown, err := InitTracer(context.Background(), "codemaster-ai", "test", "127.0.0.1:1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
