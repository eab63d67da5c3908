package statemachine

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/finstate/statemachine"

// startTransitionSpan creates the span covering one transition attempt,
// reactions and listeners included.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startTransitionSpan(
	ctx context.Context,
	machine, engine string,
	from any,
	transition any,
) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "statemachine.transition")
	span.SetAttributes(
		attribute.String("machine", sanitizeMachine(machine)),
		attribute.String("engine", engine),
		attribute.String("from_state", sanitizeState(from)),
		attribute.String("transition", describe(transition)),
	)
	logSpanDebug(ctx, "started", span)

	return ctx, span
}

func setSpanTarget(span trace.Span, to any) {
	span.SetAttributes(attribute.String("to_state", sanitizeState(to)))
}

func endSpanOK(span trace.Span) {
	span.SetStatus(codes.Ok, "completed")
}

func endSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// logSpanDebug logs span creation when FINSTATE_DEBUG is enabled.
func logSpanDebug(ctx context.Context, phase string, span trace.Span) {
	if !isDebugMode() {
		return
	}

	spanCtx := span.SpanContext()
	slog.DebugContext(ctx, "OTEL Span "+phase,
		"span_name", "statemachine.transition",
		"trace_id", spanCtx.TraceID().String(),
		"span_id", spanCtx.SpanID().String(),
	)
}

func isDebugMode() bool {
	v := os.Getenv("FINSTATE_DEBUG")

	return v == "1" || strings.EqualFold(v, "true")
}
