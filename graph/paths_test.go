package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func path(values ...string) Path[string] {
	out := make(Path[string], len(values))
	for i, v := range values {
		out[i] = NewNode(v)
	}

	return out
}

func TestMapAcyclicPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges []Edge[string, string]
		start string
		want  []Path[string]
	}{
		{
			name:  "two node cycle closes on the repeat",
			edges: []Edge[string, string]{NewEdge("A", "x", "B"), NewEdge("B", "y", "A")},
			start: "A",
			want:  []Path[string]{path("A", "B", "A")},
		},
		{
			name:  "chain ends at terminal",
			edges: []Edge[string, string]{NewEdge("A", "x", "B"), NewEdge("B", "y", "C")},
			start: "A",
			want:  []Path[string]{path("A", "B", "C")},
		},
		{
			name:  "node without exits",
			edges: []Edge[string, string]{NewEdge("A", "x", "B")},
			start: "B",
			want:  []Path[string]{path("B")},
		},
		{
			name:  "start outside the graph",
			edges: nil,
			start: "lonely",
			want:  []Path[string]{path("lonely")},
		},
		{
			name:  "self loop",
			edges: []Edge[string, string]{NewEdge("A", "x", "A")},
			start: "A",
			want:  []Path[string]{path("A", "A")},
		},
		{
			name: "diamond yields both branches",
			edges: []Edge[string, string]{
				NewEdge("A", "l", "B"),
				NewEdge("A", "r", "C"),
				NewEdge("B", "x", "D"),
				NewEdge("C", "y", "D"),
			},
			start: "A",
			want:  []Path[string]{path("A", "B", "D"), path("A", "C", "D")},
		},
		{
			name: "parallel edges are deduplicated",
			edges: []Edge[string, string]{
				NewEdge("A", "x", "B"),
				NewEdge("A", "y", "B"),
			},
			start: "A",
			want:  []Path[string]{path("A", "B")},
		},
		{
			name: "cycle and exit from the same node",
			edges: []Edge[string, string]{
				NewEdge("A", "go", "B"),
				NewEdge("B", "back", "A"),
				NewEdge("B", "on", "C"),
			},
			start: "A",
			want:  []Path[string]{path("A", "B", "A"), path("A", "B", "C")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := MustNew(tt.edges...)
			got := g.MapAcyclicPaths(NewNode(tt.start))

			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestMapAcyclicPathsHasNoInternalRepeats(t *testing.T) {
	t.Parallel()

	// Fully connected three node graph.
	var edges []Edge[string, string]

	for _, l := range []string{"A", "B", "C"} {
		for _, r := range []string{"A", "B", "C"} {
			if l != r {
				edges = append(edges, NewEdge(l, l+r, r))
			}
		}
	}

	paths := MustNew(edges...).MapAcyclicPaths(NewNode("A"))
	require.NotEmpty(t, paths)

	for _, p := range paths {
		// Every node except the closing one is unique.
		body := p[:len(p)-1]
		seen := map[Node[string]]bool{}

		for _, n := range body {
			assert.False(t, seen[n], "repeat inside %v", p)
			seen[n] = true
		}
	}

	assert.ElementsMatch(t, []Path[string]{
		path("A", "B", "A"),
		path("A", "B", "C", "A"),
		path("A", "B", "C", "B"),
		path("A", "C", "A"),
		path("A", "C", "B", "A"),
		path("A", "C", "B", "C"),
	}, paths)
}

func TestPathHelpers(t *testing.T) {
	t.Parallel()

	p := path("A", "B", "C")

	assert.Equal(t, []string{"A", "B", "C"}, p.Values())
	assert.Equal(t, NewNode("C"), p.Last())
	assert.Equal(t, "A -> B -> C", p.String())
}

func TestReachableAndUnreachable(t *testing.T) {
	t.Parallel()

	g := MustNew(
		NewEdge("A", "x", "B"),
		NewEdge("B", "y", "A"),
		NewEdge("C", "z", "D"),
	)

	assert.ElementsMatch(t, []Node[string]{NewNode("A"), NewNode("B")}, g.Reachable(NewNode("A")))
	assert.ElementsMatch(t, []Node[string]{NewNode("C"), NewNode("D")}, g.Unreachable(NewNode("A")))
	assert.ElementsMatch(t, []Node[string]{NewNode("A"), NewNode("B")}, g.Unreachable(NewNode("C")))
}

func TestMapAllAcyclicPaths(t *testing.T) {
	t.Parallel()

	g := MustNew(
		NewEdge("A", "x", "B"),
		NewEdge("B", "y", "C"),
	)

	results, err := MapAllAcyclicPaths(context.Background(), g, WithConcurrency(2))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, NewNode("A"), results[0].Start)
	assert.Equal(t, []Path[string]{path("A", "B", "C")}, results[0].Paths)
	assert.Equal(t, path("A", "B", "C"), Path[string](results[0].Reachable))

	assert.Equal(t, NewNode("C"), results[2].Start)
	assert.Equal(t, []Path[string]{path("C")}, results[2].Paths)
}

func TestMapAllAcyclicPathsEmptyGraph(t *testing.T) {
	t.Parallel()

	results, err := MapAllAcyclicPaths(context.Background(), MustNew[string, string]())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMapAllAcyclicPathsCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := MustNew(
		NewEdge("A", "x", "B"),
		NewEdge("B", "y", "A"),
	)

	results, err := MapAllAcyclicPaths(ctx, g)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}
