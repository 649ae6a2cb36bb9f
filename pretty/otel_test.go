package pretty

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// These tests swap the global tracer provider and cannot run in parallel.
func withRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	previous := otel.GetTracerProvider()

	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	return exporter
}

func attrs(span tracetest.SpanStub) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(span.Attributes))
	for _, kv := range span.Attributes {
		out[kv.Key] = kv.Value
	}

	return out
}

func TestCopySpan(t *testing.T) { //nolint:paralleltest
	exporter := withRecorder(t)

	f := New(io.Discard, WithName("otel-test"))

	_, err := f.Copy(t.Context(), strings.NewReader("{a  b}"))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "pretty.copy", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)

	got := attrs(span)
	assert.Equal(t, "otel-test", got["table"].AsString())
	assert.Equal(t, "router", got["start_state"].AsString())
	assert.Equal(t, int64(0), got["start_indent_level"].AsInt64())
	assert.Equal(t, int64(6), got["runes"].AsInt64())
	assert.Equal(t, int64(len("{\n    a b\n}")), got["bytes_written"].AsInt64())
	assert.Equal(t, "newline", got["end_state"].AsString())
	assert.Equal(t, int64(0), got["end_indent_level"].AsInt64())
}

func TestCopySpanRecordsError(t *testing.T) { //nolint:paralleltest
	exporter := withRecorder(t)

	errBroken := errors.New("broken pipe")
	f := New(io.Discard)

	_, err := f.Copy(t.Context(), iotest.ErrReader(errBroken))
	require.ErrorIs(t, err, errBroken)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Status.Description, "broken pipe")
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}
