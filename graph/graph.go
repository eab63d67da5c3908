// Package graph models a state machine's topology as a directed graph of
// state nodes joined by labeled edges, and offers acyclic path enumeration
// for static reachability analysis.
package graph

import (
	"errors"
	"fmt"
)

// ErrDuplicateEdge is returned when two edges leave the same node with the
// same label but lead to different nodes.
var ErrDuplicateEdge = errors.New("duplicate edge label for node")

// Node wraps a state value. Two nodes are equal when their values are equal.
type Node[N comparable] struct {
	Value N
}

// NewNode wraps value in a Node.
func NewNode[N comparable](value N) Node[N] {
	return Node[N]{Value: value}
}

func (n Node[N]) String() string {
	return fmt.Sprint(n.Value)
}

// Edge is a directed connection from Left to Right carrying a single label.
type Edge[N comparable, E comparable] struct {
	Left  Node[N]
	Right Node[N]
	Label E
}

// NewEdge creates an edge between two state values.
func NewEdge[N comparable, E comparable](left N, label E, right N) Edge[N, E] {
	return Edge[N, E]{
		Left:  NewNode(left),
		Right: NewNode(right),
		Label: label,
	}
}

func (e Edge[N, E]) String() string {
	return fmt.Sprintf("%v --%v--> %v", e.Left, e.Label, e.Right)
}

// DirectedGraph is an immutable set of edges. Nodes exist only as edge
// endpoints; an empty graph is valid and describes an isolated state.
type DirectedGraph[N comparable, E comparable] struct {
	edges []Edge[N, E]
}

type edgeKey[N comparable, E comparable] struct {
	left  Node[N]
	label E
}

// New builds a graph from edges. Exact duplicates are collapsed. Two edges
// that share a left node and label but differ in their right node make the
// graph ambiguous and are rejected with ErrDuplicateEdge.
func New[N comparable, E comparable](edges ...Edge[N, E]) (*DirectedGraph[N, E], error) {
	seen := make(map[edgeKey[N, E]]Node[N], len(edges))
	kept := make([]Edge[N, E], 0, len(edges))

	for _, edge := range edges {
		key := edgeKey[N, E]{left: edge.Left, label: edge.Label}

		if right, ok := seen[key]; ok {
			if right == edge.Right {
				continue
			}

			return nil, fmt.Errorf("%w: %v --%v--> {%v, %v}",
				ErrDuplicateEdge, edge.Left, edge.Label, right, edge.Right)
		}

		seen[key] = edge.Right
		kept = append(kept, edge)
	}

	return &DirectedGraph[N, E]{edges: kept}, nil
}

// MustNew is like New but panics on an ambiguous edge set.
func MustNew[N comparable, E comparable](edges ...Edge[N, E]) *DirectedGraph[N, E] {
	g, err := New(edges...)
	if err != nil {
		panic(err)
	}

	return g
}

// FromMapping converts a per-state table of label -> target into a graph,
// one edge per entry. Edge order follows Go map iteration and is not stable.
func FromMapping[N comparable, E comparable](mapping map[N]map[E]N) *DirectedGraph[N, E] {
	edges := make([]Edge[N, E], 0, len(mapping))

	for left, labels := range mapping {
		for label, right := range labels {
			edges = append(edges, NewEdge(left, label, right))
		}
	}

	// Map keys are unique per state, so no ambiguous pair can arise.
	return &DirectedGraph[N, E]{edges: edges}
}

// Edges returns a copy of the graph's edges.
func (g *DirectedGraph[N, E]) Edges() []Edge[N, E] {
	out := make([]Edge[N, E], len(g.edges))
	copy(out, g.edges)

	return out
}

// Len returns the number of edges.
func (g *DirectedGraph[N, E]) Len() int {
	return len(g.edges)
}

// Nodes returns every node that appears as an edge endpoint, in order of
// first appearance.
func (g *DirectedGraph[N, E]) Nodes() []Node[N] {
	seen := make(map[Node[N]]struct{}, len(g.edges))
	nodes := make([]Node[N], 0, len(g.edges))

	add := func(n Node[N]) {
		if _, ok := seen[n]; ok {
			return
		}

		seen[n] = struct{}{}
		nodes = append(nodes, n)
	}

	for _, edge := range g.edges {
		add(edge.Left)
		add(edge.Right)
	}

	return nodes
}

// ExitingEdges returns the edges whose left endpoint is node.
func (g *DirectedGraph[N, E]) ExitingEdges(node Node[N]) []Edge[N, E] {
	var out []Edge[N, E]

	for _, edge := range g.edges {
		if edge.Left == node {
			out = append(out, edge)
		}
	}

	return out
}

// ExitingEdgesForValue returns the edges leaving the node that wraps value.
func (g *DirectedGraph[N, E]) ExitingEdgesForValue(value N) []Edge[N, E] {
	return g.ExitingEdges(NewNode(value))
}

// Terminals returns the nodes that have no outgoing edges.
func (g *DirectedGraph[N, E]) Terminals() []Node[N] {
	hasExit := make(map[Node[N]]bool, len(g.edges))
	for _, edge := range g.edges {
		hasExit[edge.Left] = true
	}

	var out []Node[N]

	for _, node := range g.Nodes() {
		if !hasExit[node] {
			out = append(out, node)
		}
	}

	return out
}
