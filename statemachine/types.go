package statemachine

import "fmt"

// Kind discriminates transition categories. Rules match on kind equality.
type Kind string

// Transition is a value that can drive a rule based machine. Two values of
// the same kind may carry different payloads.
type Transition interface {
	Kind() Kind
}

// KindOf returns the kind reported by the zero value of T. It suits
// transition types whose Kind method does not look at their fields.
func KindOf[T Transition]() Kind {
	var zero T

	return zero.Kind()
}

// Event is a general purpose transition: a kind plus arbitrary payload.
type Event struct {
	Name    Kind
	Payload any
}

// NewEvent creates an event of the given kind.
func NewEvent(name Kind, payload any) Event {
	return Event{Name: name, Payload: payload}
}

// Kind implements Transition.
func (e Event) Kind() Kind {
	return e.Name
}

func (e Event) String() string {
	return string(e.Name)
}

// Label is the edge label constraint of a graph based machine. Name is the
// textual identifier used by PerformTransitionByName.
type Label interface {
	comparable
	Name() string
}

// Matcher can be implemented by an edge label to decide whether an incoming
// label selects its edge, in place of plain equality.
type Matcher[L any] interface {
	Matches(incoming L) bool
}

// TransitionEvent describes a completed transition: the value that
// triggered it and the state the machine ended in.
type TransitionEvent[S comparable] struct {
	Transition any
	Target     S
}

func (e TransitionEvent[S]) String() string {
	return fmt.Sprintf("%s -> %v", describe(e.Transition), e.Target)
}

// describe renders a transition value or label for messages and telemetry.
func describe(value any) string {
	switch v := value.(type) {
	case fmt.Stringer:
		return v.String()
	case Transition:
		return string(v.Kind())
	case interface{ Name() string }:
		return v.Name()
	default:
		return fmt.Sprint(value)
	}
}
