package statemachine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleMachineInitialState(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Potential, NewRuleMachine(Potential, energyRules()).State())
	assert.Equal(t, Kinetic, NewRuleMachine(Kinetic, nil).State())
}

func TestRuleMachinePerformTransition(t *testing.T) {
	t.Parallel()

	m := NewRuleMachine(Potential, energyRules())

	require.NoError(t, m.PerformTransition(Release{}))
	assert.Equal(t, Kinetic, m.State())

	require.NoError(t, m.PerformTransition(Store{}))
	assert.Equal(t, Potential, m.State())
}

func TestRuleMachineWithReactions(t *testing.T) {
	t.Parallel()

	external := Potential

	m := NewRuleMachine(Potential, []Rule[Energy]{
		NewRule(Potential, KindOf[Release](), Kinetic).
			Reaction(func(*RuleMachine[Energy], Transition) error {
				external = Kinetic

				return nil
			}),
		NewRule(Kinetic, KindOf[Store](), Potential).
			Reaction(func(*RuleMachine[Energy], Transition) error {
				external = Potential

				return nil
			}),
	})

	require.NoError(t, m.PerformTransition(Release{}))
	assert.Equal(t, Kinetic, m.State())
	assert.Equal(t, Kinetic, external)

	require.NoError(t, m.PerformTransition(Store{}))
	assert.Equal(t, Potential, m.State())
	assert.Equal(t, Potential, external)
}

func TestRuleMachineReactionsRunInOrderAfterCommit(t *testing.T) {
	t.Parallel()

	var (
		order    []string
		observed Energy
		received Transition
	)

	payload := NewEvent("Release", "payload")

	m := NewRuleMachine(Potential, []Rule[Energy]{
		NewRule(Potential, "Release", Kinetic).
			Reaction(func(m *RuleMachine[Energy], tr Transition) error {
				order = append(order, "first")
				observed = m.State()
				received = tr

				return nil
			}).
			Reaction(func(*RuleMachine[Energy], Transition) error {
				order = append(order, "second")

				return nil
			}),
	})

	require.NoError(t, m.PerformTransition(payload))

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, Kinetic, observed)
	assert.Equal(t, payload, received)
}

type login int

const (
	prompt login = iota
	authorizing
	authorized
)

func (l login) String() string {
	return [...]string{"PROMPT", "AUTHORIZING", "AUTHORIZED"}[l]
}

type httpCode int

const (
	statusOK           httpCode = 200
	statusUnauthorized httpCode = 401
)

func (httpCode) Kind() Kind { return "HttpCode" }

type loginMachine struct {
	machine *RuleMachine[login]
	steps   []login
}

func newLoginMachine() *loginMachine {
	lm := &loginMachine{steps: []login{prompt}}

	step := func(s login) Reaction[login] {
		return func(*RuleMachine[login], Transition) error {
			lm.steps = append(lm.steps, s)

			return nil
		}
	}

	lm.machine = NewRuleMachine(prompt, []Rule[login]{
		NewRule(prompt, KindOf[credentials](), authorizing).
			Reaction(step(authorizing)).
			Reaction(React(func(m *RuleMachine[login], c credentials) error {
				code := statusUnauthorized
				if c == (credentials{user: "user", password: "correct password"}) {
					code = statusOK
				}

				return m.PerformTransition(code)
			})),
		NewRule(authorizing, KindOf[httpCode](), authorized).
			OnlyIf(When(func(c httpCode) bool { return c == statusOK })).
			Reaction(step(authorized)),
		NewRule(authorizing, KindOf[httpCode](), prompt).
			OnlyIf(When(func(c httpCode) bool { return c == statusUnauthorized })).
			Reaction(step(prompt)),
	})

	return lm
}

func TestRuleMachineReentrantReactions(t *testing.T) {
	t.Parallel()

	lm := newLoginMachine()

	require.NoError(t, lm.machine.PerformTransition(credentials{user: "user", password: "incorrect password"}))
	assert.Equal(t, prompt, lm.machine.State())

	require.NoError(t, lm.machine.PerformTransition(credentials{user: "user", password: "correct password"}))
	assert.Equal(t, authorized, lm.machine.State())

	assert.Equal(t, []login{prompt, authorizing, prompt, authorizing, authorized}, lm.steps)
}

func TestRuleMachineInvalidTransition(t *testing.T) {
	t.Parallel()

	m := NewRuleMachine(Potential, energyRules())

	err := m.PerformTransition(Store{})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, Potential, m.State())

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, Store{}, invalid.Transition)
	assert.Equal(t, Potential, invalid.State)
	assert.Equal(t, []string{"Release"}, invalid.Available)
	assert.Equal(t, "invalid transition Store for current state potential; valid transitions: Release", err.Error())
}

func TestRuleMachineInvalidWhenValidationFails(t *testing.T) {
	t.Parallel()

	m := NewRuleMachine(Potential, []Rule[Energy]{
		NewRule(Potential, KindOf[Release](), Kinetic).OnlyIf(func(Transition) bool { return false }),
	})

	require.ErrorIs(t, m.PerformTransition(Release{}), ErrInvalidTransition)
	assert.Equal(t, Potential, m.State())
	assert.False(t, m.CanPerform(Release{}))
}

func TestRuleMachineNilTransition(t *testing.T) {
	t.Parallel()

	m := NewRuleMachine(Potential, energyRules())

	require.ErrorIs(t, m.PerformTransition(nil), ErrInvalidTransition)
	assert.Equal(t, Potential, m.State())
}

func TestRuleMachineAmbiguousTransition(t *testing.T) {
	t.Parallel()

	var reacted bool

	m := NewRuleMachine(Potential, []Rule[Energy]{
		NewRule(Potential, KindOf[Release](), Kinetic).
			Reaction(func(*RuleMachine[Energy], Transition) error {
				reacted = true

				return nil
			}),
		NewRule(Potential, KindOf[Release](), Potential),
		NewRule(Kinetic, KindOf[Store](), Potential),
	})

	err := m.PerformTransition(Release{})
	require.ErrorIs(t, err, ErrAmbiguousTransition)
	assert.False(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, Potential, m.State())
	assert.False(t, reacted)
	assert.False(t, m.CanPerform(Release{}))

	var ambiguous *AmbiguousTransitionError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []Match{
		{From: Potential, To: Kinetic},
		{From: Potential, To: Potential},
	}, ambiguous.Matches)
	assert.Equal(t,
		"ambiguous transition Release for state potential; matches: potential -> kinetic, potential -> potential",
		err.Error())
}

func TestRuleMachineValidationsDisambiguate(t *testing.T) {
	t.Parallel()

	isPositive := When(func(e Event) bool { return e.Payload.(int) > 0 })
	isNegative := When(func(e Event) bool { return e.Payload.(int) < 0 })

	m := NewRuleMachine(Potential, []Rule[Energy]{
		NewRule(Potential, "Shift", Kinetic).OnlyIf(isPositive),
		NewRule(Potential, "Shift", Potential).OnlyIf(isNegative),
	})

	require.NoError(t, m.PerformTransition(NewEvent("Shift", -1)))
	assert.Equal(t, Potential, m.State())

	require.NoError(t, m.PerformTransition(NewEvent("Shift", 1)))
	assert.Equal(t, Kinetic, m.State())
}

func TestRuleMachineReactionFailureKeepsNewState(t *testing.T) {
	t.Parallel()

	var (
		laterReaction bool
		notified      bool
	)

	m := NewRuleMachine(Potential, []Rule[Energy]{
		NewRule(Potential, KindOf[Release](), Kinetic).
			Reaction(func(*RuleMachine[Energy], Transition) error { return errBoom }).
			Reaction(func(*RuleMachine[Energy], Transition) error {
				laterReaction = true

				return nil
			}),
	})
	m.AddStateListener(func(Energy) { notified = true })

	err := m.PerformTransition(Release{})
	require.Error(t, err)
	assert.Same(t, errBoom, err)
	assert.Equal(t, Kinetic, m.State())
	assert.False(t, laterReaction)
	assert.False(t, notified)
}

func TestRuleMachineAvailableKinds(t *testing.T) {
	t.Parallel()

	m := NewRuleMachine(Potential, append(energyRules(),
		NewRule(Potential, KindOf[Release](), Potential).OnlyIf(func(Transition) bool { return false }),
		NewRule(Potential, "Hold", Potential),
	))

	assert.Equal(t, []Kind{"Release", "Hold"}, m.AvailableKinds())

	require.NoError(t, m.PerformTransition(Release{}))
	assert.Equal(t, []Kind{"Store"}, m.AvailableKinds())
}

func TestRuleMachineKindsTo(t *testing.T) {
	t.Parallel()

	m := NewRuleMachine(Potential, energyRules())

	assert.Equal(t, []Kind{"Release"}, m.KindsTo(Kinetic))
	assert.Empty(t, m.KindsTo(Potential))

	require.NoError(t, m.PerformTransition(Release{}))

	assert.Equal(t, []Kind{"Store"}, m.KindsTo(Potential))
	assert.Empty(t, m.KindsTo(Kinetic))
}

func TestRuleMachineRulesAreCopied(t *testing.T) {
	t.Parallel()

	rules := energyRules()
	m := NewRuleMachine(Potential, rules)

	rules[0] = NewRule(Potential, "Other", Potential)

	assert.Equal(t, []Kind{"Release"}, m.AvailableKinds())
	assert.Len(t, m.Rules(), 2)
}

func TestRuleMachineListeners(t *testing.T) {
	t.Parallel()

	m := NewRuleMachine(Potential, energyRules())

	var (
		states []Energy
		events []TransitionEvent[Energy]
	)

	m.AddStateListener(func(s Energy) { states = append(states, s) })
	m.AddTransitionListener(func(e TransitionEvent[Energy]) { events = append(events, e) })

	require.NoError(t, m.PerformTransition(Release{}))
	require.Error(t, m.PerformTransition(Release{}))
	require.NoError(t, m.PerformTransition(Store{}))

	assert.Equal(t, []Energy{Kinetic, Potential}, states)
	assert.Equal(t, []TransitionEvent[Energy]{
		{Transition: Release{}, Target: Kinetic},
		{Transition: Store{}, Target: Potential},
	}, events)
}

func TestRuleMachineObserveStateReplaysCurrent(t *testing.T) {
	t.Parallel()

	m := NewRuleMachine(Potential, energyRules())

	var states []Energy

	handle := m.ObserveState(func(s Energy) { states = append(states, s) })

	require.NoError(t, m.PerformTransition(Release{}))
	assert.Equal(t, []Energy{Potential, Kinetic}, states)

	assert.True(t, m.RemoveListener(handle))
	require.NoError(t, m.PerformTransition(Store{}))
	assert.Equal(t, []Energy{Potential, Kinetic}, states)
}
