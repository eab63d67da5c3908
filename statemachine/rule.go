package statemachine

import (
	"fmt"
	"slices"
)

// Validation is a predicate over a concrete transition value.
type Validation func(t Transition) bool

// Reaction is a side effect run after a rule's transition is committed. It
// receives the machine, whose state is already updated, so it may perform
// further transitions.
type Reaction[S comparable] func(m *RuleMachine[S], t Transition) error

// Rule declares that a transition of a given kind moves the machine from one
// state to another, provided every validation accepts the transition value.
// Rules are values: OnlyIf and Reaction return modified copies.
type Rule[S comparable] struct {
	from        S
	kind        Kind
	to          S
	validations []Validation
	reactions   []Reaction[S]
}

// NewRule creates a rule without validations or reactions.
func NewRule[S comparable](from S, kind Kind, to S) Rule[S] {
	return Rule[S]{
		from: from,
		kind: kind,
		to:   to,
	}
}

func (r Rule[S]) From() S    { return r.from }
func (r Rule[S]) Kind() Kind { return r.kind }
func (r Rule[S]) To() S      { return r.to }

func (r Rule[S]) String() string {
	return fmt.Sprintf("%v --%s--> %v", r.from, r.kind, r.to)
}

// OnlyIf returns a copy of the rule with fn appended to its validations.
func (r Rule[S]) OnlyIf(fn Validation) Rule[S] {
	// Clip so the append always allocates and the receiver's list is untouched.
	r.validations = append(slices.Clip(r.validations), fn)

	return r
}

// Reaction returns a copy of the rule with fn appended to its reactions.
func (r Rule[S]) Reaction(fn Reaction[S]) Rule[S] {
	r.reactions = append(slices.Clip(r.reactions), fn)

	return r
}

// Matches reports whether the rule is a candidate for t in state.
func (r Rule[S]) Matches(state S, t Transition) bool {
	return r.from == state && r.kind == t.Kind() && r.Validate(t)
}

// Validate reports whether every validation accepts t. A rule without
// validations accepts everything.
func (r Rule[S]) Validate(t Transition) bool {
	for _, validation := range r.validations {
		if !validation(t) {
			return false
		}
	}

	return true
}

// PerformReactions runs the reactions in registration order and stops at
// the first error, which is returned unchanged.
func (r Rule[S]) PerformReactions(m *RuleMachine[S], t Transition) error {
	for _, reaction := range r.reactions {
		if err := reaction(m, t); err != nil {
			return err
		}
	}

	return nil
}

// When adapts a predicate over a concrete transition type. Values of any
// other type are rejected.
func When[T Transition](fn func(t T) bool) Validation {
	return func(t Transition) bool {
		typed, ok := t.(T)

		return ok && fn(typed)
	}
}

// React adapts a reaction over a concrete transition type. Values of any
// other type fail with ErrTransitionType.
func React[S comparable, T Transition](fn func(m *RuleMachine[S], t T) error) Reaction[S] {
	return func(m *RuleMachine[S], t Transition) error {
		typed, ok := t.(T)
		if !ok {
			return fmt.Errorf("%w: got %T", ErrTransitionType, t)
		}

		return fn(m, typed)
	}
}
