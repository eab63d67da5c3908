package statemachine

import (
	"errors"

	"github.com/amp-labs/finstate/graph"
)

var errBoom = errors.New("boom")

type Energy string

const (
	Potential Energy = "potential"
	Kinetic   Energy = "kinetic"
)

type Release struct{}

func (Release) Kind() Kind { return "Release" }

type Store struct{}

func (Store) Kind() Kind { return "Store" }

// energyLabel labels the edges of the graph based energy machine.
type energyLabel string

func (l energyLabel) Name() string { return string(l) }

const (
	releaseLabel energyLabel = "Release"
	storeLabel   energyLabel = "Store"
	invalidLabel energyLabel = "Invalid"
)

func energyRules() []Rule[Energy] {
	return []Rule[Energy]{
		NewRule(Potential, KindOf[Release](), Kinetic),
		NewRule(Kinetic, KindOf[Store](), Potential),
	}
}

func energyGraph() *graph.DirectedGraph[Energy, energyLabel] {
	return graph.MustNew(
		graph.NewEdge(Potential, releaseLabel, Kinetic),
		graph.NewEdge(Kinetic, storeLabel, Potential),
	)
}
