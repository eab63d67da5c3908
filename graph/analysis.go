package graph

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
)

const defaultConcurrency = 4

// Reachability is the acyclic path map of a single start node.
type Reachability[N comparable] struct {
	Start     Node[N]
	Paths     []Path[N]
	Reachable []Node[N]
}

type analysisOptions struct {
	concurrency int
}

// AnalysisOption configures MapAllAcyclicPaths.
type AnalysisOption func(*analysisOptions)

// WithConcurrency bounds the number of start nodes explored at once.
func WithConcurrency(n int) AnalysisOption {
	return func(o *analysisOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// MapAllAcyclicPaths maps acyclic paths from every node of the graph. Start
// nodes are explored concurrently; the graph is only read. Results follow
// the order of Nodes().
func MapAllAcyclicPaths[N comparable, E comparable](
	ctx context.Context,
	g *DirectedGraph[N, E],
	opts ...AnalysisOption,
) ([]Reachability[N], error) {
	options := analysisOptions{concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(&options)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mapping acyclic paths: %w", err)
	}

	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil, nil
	}

	pool := pond.NewResultPool[Reachability[N]](options.concurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()

	for _, node := range nodes {
		group.Submit(func() Reachability[N] {
			paths := g.MapAcyclicPaths(node)

			return Reachability[N]{
				Start:     node,
				Paths:     paths,
				Reachable: reachableFrom(paths),
			}
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("mapping acyclic paths: %w", err)
	}

	return results, nil
}
