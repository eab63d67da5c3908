package statemachine

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const (
	engineRule  = "rule"
	engineGraph = "graph"
)

// instrument reports transition outcomes to metrics, the span of the
// attempt and the configured Logger.
type instrument struct {
	name   string
	engine string
	logger Logger
}

func newInstrument(engine string, o options) instrument {
	return instrument{name: o.name, engine: engine, logger: o.logger}
}

//nolint:spancheck // Span lifecycle managed by caller
func (in instrument) start(ctx context.Context, from any, transition any) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	return startTransitionSpan(ctx, in.name, in.engine, from, transition)
}

func (in instrument) performed(ctx context.Context, span trace.Span, from, to any, transition any) {
	transitionsTotal.WithLabelValues(
		sanitizeMachine(in.name),
		in.engine,
		sanitizeState(from),
		sanitizeState(to),
	).Inc()

	setSpanTarget(span, to)

	if in.logger != nil {
		in.logger.TransitionPerformed(ctx, in.name, from, to, transition)
	}
}

// completed marks the attempt successful once reactions and listeners ran.
func (in instrument) completed(span trace.Span) {
	endSpanOK(span)
}

func (in instrument) rejected(ctx context.Context, span trace.Span, state any, transition any, err error) {
	reason := reasonInvalid
	if errors.Is(err, ErrAmbiguousTransition) {
		reason = reasonAmbiguous
	}

	rejectionsTotal.WithLabelValues(
		sanitizeMachine(in.name),
		in.engine,
		sanitizeState(state),
		reason,
	).Inc()

	endSpanError(span, err)

	if in.logger != nil {
		in.logger.TransitionRejected(ctx, in.name, state, transition, err)
	}
}

func (in instrument) reacted(
	ctx context.Context,
	span trace.Span,
	state any,
	transition any,
	duration time.Duration,
	err error,
) {
	reactionDuration.WithLabelValues(sanitizeMachine(in.name), sanitizeState(state)).Observe(duration.Seconds())

	if err == nil {
		return
	}

	reactionFailuresTotal.WithLabelValues(sanitizeMachine(in.name), sanitizeState(state)).Inc()
	endSpanError(span, err)

	if in.logger != nil {
		in.logger.ReactionFailed(ctx, in.name, state, transition, duration, err)
	}
}
