package statemachine

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions with appropriate labels.
var (
	// transitionsTotal tracks committed transitions.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finstate_transitions_total",
		Help: "Total number of committed transitions by machine, engine, from_state and to_state",
	}, []string{"machine", "engine", "from_state", "to_state"})

	// rejectionsTotal tracks transitions that resolved to no rule or to several.
	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finstate_rejected_transitions_total",
		Help: "Total number of rejected transitions by machine, engine, state and reason (invalid or ambiguous)",
	}, []string{"machine", "engine", "state", "reason"})

	// reactionFailuresTotal tracks reactions that returned an error after a committed transition.
	reactionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finstate_reaction_failures_total",
		Help: "Total number of reaction failures by machine and the state the machine moved to",
	}, []string{"machine", "state"})

	// reactionDuration tracks the time spent running a rule's reactions.
	reactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "finstate_reaction_duration_seconds",
		Help:    "Duration of a rule's reactions by machine and the state the machine moved to",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"machine", "state"})
)

const (
	reasonInvalid   = "invalid"
	reasonAmbiguous = "ambiguous"

	invalidRune = "\uFFFD"
)

// Helper functions for label sanitization. Label values must be valid
// UTF-8 or the client library panics.
func sanitizeMachine(name string) string {
	if name == "" {
		return "unnamed"
	}

	return strings.ToValidUTF8(name, invalidRune)
}

func sanitizeState(state any) string {
	s := fmt.Sprint(state)
	if s == "" {
		return "none"
	}

	return strings.ToValidUTF8(s, invalidRune)
}
