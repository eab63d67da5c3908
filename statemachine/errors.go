package statemachine

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined error types.
var (
	// ErrInvalidTransition indicates that no rule or edge accepts the transition in the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrAmbiguousTransition indicates that more than one rule accepts the transition.
	ErrAmbiguousTransition = errors.New("ambiguous transition")
	// ErrTransitionType indicates that a typed validation or reaction received another transition type.
	ErrTransitionType = errors.New("unexpected transition type")
)

// InvalidTransitionError reports a transition that nothing accepts from
// the current state. Available lists what would have been accepted.
type InvalidTransitionError struct {
	Transition any
	State      any
	Available  []string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("invalid transition %s for current state %v", describe(e.Transition), e.State)
	if len(e.Available) == 0 {
		return msg
	}

	return msg + "; valid transitions: " + strings.Join(e.Available, ", ")
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Match is a single (from -> to) pair of an ambiguous resolution.
type Match struct {
	From any
	To   any
}

func (m Match) String() string {
	return fmt.Sprintf("%v -> %v", m.From, m.To)
}

// AmbiguousTransitionError reports a transition accepted by several rules.
// It points at a rule set that was authored incorrectly.
type AmbiguousTransitionError struct {
	Transition any
	State      any
	Matches    []Match
}

func (e *AmbiguousTransitionError) Error() string {
	matches := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		matches[i] = m.String()
	}

	return fmt.Sprintf("ambiguous transition %s for state %v; matches: %s",
		describe(e.Transition), e.State, strings.Join(matches, ", "))
}

func (e *AmbiguousTransitionError) Unwrap() error {
	return ErrAmbiguousTransition
}
