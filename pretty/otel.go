package pretty

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/pretty/pretty"

// startCopySpan creates the span covering one Copy call. Uses the global
// tracer provider set up by the telemetry package.
// The caller is responsible for ending it with endCopySpan.
//
//nolint:spancheck // Span lifecycle managed by caller
func startCopySpan(ctx context.Context, f *Formatter) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pretty.copy")
	span.SetAttributes(
		attribute.String("table", f.name),
		attribute.String("start_state", f.State().String()),
		attribute.Int("start_indent_level", f.level),
	)

	return ctx, span
}

func endCopySpan(span trace.Span, f *Formatter, runes int64, err error) {
	span.SetAttributes(
		attribute.Int64("runes", runes),
		attribute.Int64("bytes_written", f.written),
		attribute.String("end_state", f.State().String()),
		attribute.Int("end_indent_level", f.level),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "completed")
	}

	span.End()
}
