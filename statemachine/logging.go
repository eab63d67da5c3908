package statemachine

import (
	"context"
	"log/slog"
	"time"

	"github.com/amp-labs/finstate/logger"
)

// Logger provides logging hooks for transition outcomes.
type Logger interface {
	TransitionPerformed(ctx context.Context, machine string, from, to any, transition any)
	TransitionRejected(ctx context.Context, machine string, state any, transition any, err error)
	ReactionFailed(ctx context.Context, machine string, state any, transition any, duration time.Duration, err error)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger that writes through logger.Get, so
// values attached to the transition context show up in every line.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{}
}

// NewSlogLogger creates a logger writing to l.
func NewSlogLogger(l *slog.Logger) *DefaultLogger {
	return &DefaultLogger{logger: l}
}

func (l *DefaultLogger) get(ctx context.Context) *slog.Logger {
	if l.logger != nil {
		return l.logger
	}

	return logger.Get(ctx)
}

func (l *DefaultLogger) TransitionPerformed(ctx context.Context, machine string, from, to any, transition any) {
	l.get(ctx).InfoContext(ctx, "Transition performed",
		"machine", sanitizeMachine(machine),
		"from", from,
		"to", to,
		"transition", describe(transition),
	)
}

func (l *DefaultLogger) TransitionRejected(
	ctx context.Context,
	machine string,
	state any,
	transition any,
	err error,
) {
	l.get(ctx).WarnContext(ctx, "Transition rejected",
		"machine", sanitizeMachine(machine),
		"state", state,
		"transition", describe(transition),
		"error", err,
	)
}

func (l *DefaultLogger) ReactionFailed(
	ctx context.Context,
	machine string,
	state any,
	transition any,
	duration time.Duration,
	err error,
) {
	l.get(ctx).ErrorContext(ctx, "Reaction failed",
		"machine", sanitizeMachine(machine),
		"state", state,
		"transition", describe(transition),
		"duration_ms", duration.Milliseconds(),
		"error", err,
	)
}
