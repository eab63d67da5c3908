package graph

import (
	"slices"
	"strconv"
	"strings"
)

// Path is an ordered sequence of nodes.
type Path[N comparable] []Node[N]

// Values unwraps the node values of the path.
func (p Path[N]) Values() []N {
	out := make([]N, len(p))
	for i, node := range p {
		out[i] = node.Value
	}

	return out
}

// Last returns the final node of the path.
func (p Path[N]) Last() Node[N] {
	return p[len(p)-1]
}

func (p Path[N]) String() string {
	parts := make([]string, len(p))
	for i, node := range p {
		parts[i] = node.String()
	}

	return strings.Join(parts, " -> ")
}

// pathSet collects paths with set semantics. Nodes are interned to small
// integers so a path's identity is the exact sequence of node indexes.
type pathSet[N comparable] struct {
	index map[Node[N]]int
	seen  map[string]struct{}
	paths []Path[N]
}

func newPathSet[N comparable]() *pathSet[N] {
	return &pathSet[N]{
		index: make(map[Node[N]]int),
		seen:  make(map[string]struct{}),
	}
}

func (s *pathSet[N]) key(path Path[N]) string {
	var sb strings.Builder

	for _, node := range path {
		idx, ok := s.index[node]
		if !ok {
			idx = len(s.index)
			s.index[node] = idx
		}

		sb.WriteString(strconv.Itoa(idx))
		sb.WriteByte('.')
	}

	return sb.String()
}

func (s *pathSet[N]) add(path Path[N]) {
	k := s.key(path)
	if _, ok := s.seen[k]; ok {
		return
	}

	s.seen[k] = struct{}{}
	s.paths = append(s.paths, slices.Clone(path))
}

// MapAcyclicPaths enumerates every simple path reachable from start by
// depth-first expansion. A branch ends when its last node has no outgoing
// edges, or when the next node is already on the branch; in that case the
// path is recorded closed by the repeated node, e.g. A -> B -> A. Identical
// paths reached through different routes are reported once, in discovery
// order.
func (g *DirectedGraph[N, E]) MapAcyclicPaths(start Node[N]) []Path[N] {
	set := newPathSet[N]()
	g.mapAcyclicPaths(Path[N]{start}, set)

	return set.paths
}

func (g *DirectedGraph[N, E]) mapAcyclicPaths(current Path[N], set *pathSet[N]) {
	edges := g.ExitingEdges(current.Last())
	if len(edges) == 0 {
		set.add(current)

		return
	}

	for _, edge := range edges {
		next := make(Path[N], len(current), len(current)+1)
		copy(next, current)
		next = append(next, edge.Right)

		if slices.Contains(current, edge.Right) {
			// Cycle: close the path on the repeat instead of dropping it.
			set.add(next)

			continue
		}

		g.mapAcyclicPaths(next, set)
	}
}

// Reachable returns every node that appears on some acyclic path from
// start, start included, in discovery order.
func (g *DirectedGraph[N, E]) Reachable(start Node[N]) []Node[N] {
	return reachableFrom(g.MapAcyclicPaths(start))
}

// Unreachable returns the graph's nodes that no path from start visits.
func (g *DirectedGraph[N, E]) Unreachable(start Node[N]) []Node[N] {
	reached := make(map[Node[N]]struct{})
	for _, node := range g.Reachable(start) {
		reached[node] = struct{}{}
	}

	var out []Node[N]

	for _, node := range g.Nodes() {
		if _, ok := reached[node]; !ok {
			out = append(out, node)
		}
	}

	return out
}

func reachableFrom[N comparable](paths []Path[N]) []Node[N] {
	seen := make(map[Node[N]]struct{})

	var out []Node[N]

	for _, path := range paths {
		for _, node := range path {
			if _, ok := seen[node]; ok {
				continue
			}

			seen[node] = struct{}{}
			out = append(out, node)
		}
	}

	return out
}
