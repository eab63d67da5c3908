package statemachine

import (
	"context"
	"slices"
	"time"
)

// RuleMachine holds a current state and an ordered, read-only set of rules.
// Each transition is resolved to exactly one rule; anything else fails.
//
// A RuleMachine is not safe for concurrent use. Reactions and listeners may
// call back into the machine from the goroutine performing the transition.
type RuleMachine[S comparable] struct {
	Notifier[S]

	state S
	rules []Rule[S]
	in    instrument
}

// NewRuleMachine creates a machine in the initial state.
func NewRuleMachine[S comparable](initial S, rules []Rule[S], opts ...Option) *RuleMachine[S] {
	return &RuleMachine[S]{
		state: initial,
		rules: slices.Clone(rules),
		in:    newInstrument(engineRule, newOptions(opts)),
	}
}

// State returns the current state.
func (m *RuleMachine[S]) State() S {
	return m.state
}

// Rules returns a copy of the machine's rules.
func (m *RuleMachine[S]) Rules() []Rule[S] {
	return slices.Clone(m.rules)
}

// AvailableKinds returns the distinct kinds of the rules leaving the
// current state. Validations are not consulted, so a listed kind may still
// be rejected for a particular transition value.
func (m *RuleMachine[S]) AvailableKinds() []Kind {
	return distinctKinds(m.rules, func(r Rule[S]) bool {
		return r.from == m.state
	})
}

// KindsTo returns the distinct kinds of the rules leading from the current
// state to target.
func (m *RuleMachine[S]) KindsTo(target S) []Kind {
	return distinctKinds(m.rules, func(r Rule[S]) bool {
		return r.from == m.state && r.to == target
	})
}

// CanPerform reports whether t resolves to exactly one rule.
func (m *RuleMachine[S]) CanPerform(t Transition) bool {
	_, err := m.resolve(t)

	return err == nil
}

// PerformTransition applies t. See PerformTransitionContext.
func (m *RuleMachine[S]) PerformTransition(t Transition) error {
	return m.PerformTransitionContext(context.Background(), t)
}

// PerformTransitionContext resolves t against the rules leaving the current
// state. With exactly one match the state is updated, then the rule's
// reactions run, then listeners are notified. Resolution failures leave
// the state unchanged. A reaction error is returned as is, after the state
// change has taken effect, and listeners are not notified.
func (m *RuleMachine[S]) PerformTransitionContext(ctx context.Context, t Transition) error {
	from := m.state

	ctx, span := m.in.start(ctx, from, t)
	defer span.End()

	rule, err := m.resolve(t)
	if err != nil {
		m.in.rejected(ctx, span, from, t, err)

		return err
	}

	m.state = rule.to
	m.in.performed(ctx, span, from, rule.to, t)

	started := time.Now()
	err = rule.PerformReactions(m, t)
	m.in.reacted(ctx, span, rule.to, t, time.Since(started), err)

	if err != nil {
		return err
	}

	m.notify(TransitionEvent[S]{Transition: t, Target: rule.to})
	m.in.completed(span)

	return nil
}

// ObserveState delivers the current state to fn, then registers it as a
// state listener.
func (m *RuleMachine[S]) ObserveState(fn func(state S)) Handle {
	fn(m.state)

	return m.AddStateListener(fn)
}

func (m *RuleMachine[S]) resolve(t Transition) (Rule[S], error) {
	if t == nil {
		return Rule[S]{}, &InvalidTransitionError{
			Transition: t,
			State:      m.state,
			Available:  kindNames(m.AvailableKinds()),
		}
	}

	var candidates []Rule[S]

	for _, rule := range m.rules {
		if rule.Matches(m.state, t) {
			candidates = append(candidates, rule)
		}
	}

	switch len(candidates) {
	case 0:
		return Rule[S]{}, &InvalidTransitionError{
			Transition: t,
			State:      m.state,
			Available:  kindNames(m.AvailableKinds()),
		}
	case 1:
		return candidates[0], nil
	default:
		matches := make([]Match, len(candidates))
		for i, rule := range candidates {
			matches[i] = Match{From: rule.from, To: rule.to}
		}

		return Rule[S]{}, &AmbiguousTransitionError{
			Transition: t,
			State:      m.state,
			Matches:    matches,
		}
	}
}

func distinctKinds[S comparable](rules []Rule[S], keep func(Rule[S]) bool) []Kind {
	var kinds []Kind

	for _, rule := range rules {
		if keep(rule) && !slices.Contains(kinds, rule.kind) {
			kinds = append(kinds, rule.kind)
		}
	}

	return kinds
}

func kindNames(kinds []Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}

	return out
}
