package statemachine

import (
	"context"
	"slices"

	"github.com/amp-labs/finstate/graph"
)

// GraphMachine is driven directly by a directed graph: from the current
// state it follows the single edge whose label matches the transition.
//
// A GraphMachine is not safe for concurrent use. The graph itself is
// immutable and may be shared.
type GraphMachine[S comparable, L Label] struct {
	Notifier[S]

	state S
	graph *graph.DirectedGraph[S, L]
	in    instrument
}

// NewGraphMachine creates a machine over g in the initial state. A nil graph
// is treated as empty.
func NewGraphMachine[S comparable, L Label](
	g *graph.DirectedGraph[S, L],
	initial S,
	opts ...Option,
) *GraphMachine[S, L] {
	if g == nil {
		g = graph.MustNew[S, L]()
	}

	return &GraphMachine[S, L]{
		state: initial,
		graph: g,
		in:    newInstrument(engineGraph, newOptions(opts)),
	}
}

// State returns the current state.
func (m *GraphMachine[S, L]) State() S {
	return m.state
}

// Graph returns the machine's transition graph.
func (m *GraphMachine[S, L]) Graph() *graph.DirectedGraph[S, L] {
	return m.graph
}

// AvailableTransitions returns the labels of the edges leaving the current
// state.
func (m *GraphMachine[S, L]) AvailableTransitions() []L {
	edges := m.graph.ExitingEdgesForValue(m.state)

	labels := make([]L, 0, len(edges))
	for _, edge := range edges {
		if !slices.Contains(labels, edge.Label) {
			labels = append(labels, edge.Label)
		}
	}

	return labels
}

// TransitionsTo returns the labels of the edges leading from the current
// state to target.
func (m *GraphMachine[S, L]) TransitionsTo(target S) []L {
	var labels []L

	for _, edge := range m.graph.ExitingEdgesForValue(m.state) {
		if edge.Right.Value == target && !slices.Contains(labels, edge.Label) {
			labels = append(labels, edge.Label)
		}
	}

	return labels
}

// PerformTransition follows the edge selected by label. See
// PerformTransitionContext.
func (m *GraphMachine[S, L]) PerformTransition(label L) error {
	return m.PerformTransitionContext(context.Background(), label)
}

// PerformTransitionContext follows the single edge leaving the current state
// whose label equals label, or whose label is a Matcher accepting it. Zero
// or several candidates fail with an InvalidTransitionError and leave the
// state unchanged.
func (m *GraphMachine[S, L]) PerformTransitionContext(ctx context.Context, label L) error {
	return m.follow(ctx, label, func(edgeLabel L) bool {
		if matcher, ok := any(edgeLabel).(Matcher[L]); ok {
			return matcher.Matches(label)
		}

		return edgeLabel == label
	}, func(L) any { return label })
}

// PerformTransitionByName follows the single edge leaving the current state
// whose label is named name.
func (m *GraphMachine[S, L]) PerformTransitionByName(name string) error {
	return m.PerformTransitionByNameContext(context.Background(), name)
}

// PerformTransitionByNameContext is PerformTransitionByName with a context
// for logging and tracing.
func (m *GraphMachine[S, L]) PerformTransitionByNameContext(ctx context.Context, name string) error {
	return m.follow(ctx, name, func(edgeLabel L) bool {
		return edgeLabel.Name() == name
	}, func(edgeLabel L) any { return edgeLabel })
}

// ObserveState delivers the current state to fn, then registers it as a
// state listener.
func (m *GraphMachine[S, L]) ObserveState(fn func(state S)) Handle {
	fn(m.state)

	return m.AddStateListener(fn)
}

// follow moves along the single matching edge. trigger picks the value
// reported to transition listeners.
func (m *GraphMachine[S, L]) follow(
	ctx context.Context,
	requested any,
	match func(L) bool,
	trigger func(L) any,
) error {
	from := m.state

	ctx, span := m.in.start(ctx, from, requested)
	defer span.End()

	var candidates []graph.Edge[S, L]

	exits := m.graph.ExitingEdgesForValue(from)
	for _, edge := range exits {
		if match(edge.Label) {
			candidates = append(candidates, edge)
		}
	}

	if len(candidates) != 1 {
		err := &InvalidTransitionError{
			Transition: requested,
			State:      from,
			Available:  labelNames(exits),
		}
		m.in.rejected(ctx, span, from, requested, err)

		return err
	}

	edge := candidates[0]
	m.state = edge.Right.Value
	m.in.performed(ctx, span, from, m.state, requested)

	m.notify(TransitionEvent[S]{Transition: trigger(edge.Label), Target: edge.Right.Value})
	m.in.completed(span)

	return nil
}

func labelNames[S comparable, L Label](edges []graph.Edge[S, L]) []string {
	var names []string

	for _, edge := range edges {
		if name := edge.Label.Name(); !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}
