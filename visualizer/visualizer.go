// Package visualizer renders transition graphs as Mermaid state diagrams.
package visualizer

import (
	"errors"
	"fmt"
	"strings"

	"facette.io/natsort"
	"github.com/amp-labs/finstate/definition"
	"github.com/amp-labs/finstate/graph"
)

// Visualizer errors.
var (
	ErrGraphNil         = errors.New("graph cannot be nil")
	ErrConfigNil        = errors.New("config cannot be nil")
	ErrInvalidDirection = errors.New("direction must be TD, TB, BT, LR or RL")
)

type named interface {
	Name() string
}

// GenerateMermaid converts a graph to a Mermaid state diagram starting at initial.
// States and transitions are emitted in natural order so the output is stable
// regardless of how the graph was built.
func GenerateMermaid[N comparable, E comparable](
	g *graph.DirectedGraph[N, E],
	initial N,
	opts Options,
) (string, error) {
	if g == nil {
		return "", ErrGraphNil
	}

	direction, err := normalizeDirection(opts.Direction)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	if opts.Fenced {
		sb.WriteString("```mermaid\n")
	}

	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "    direction %s\n", direction)

	start := fmt.Sprint(initial)
	states := stateNames(g, start)
	ids := stateIDs(states)

	fmt.Fprintf(&sb, "    [*] --> %s\n", ids[start])

	for _, state := range states {
		if id := ids[state]; id != state {
			fmt.Fprintf(&sb, "    %s: %s\n", id, state)
		}
	}

	exits := make(map[string][]string)

	for _, edge := range g.Edges() {
		from := fmt.Sprint(edge.Left.Value)

		line := fmt.Sprintf("%s --> %s", ids[from], ids[fmt.Sprint(edge.Right.Value)])
		if opts.ShowLabels {
			line += ": " + labelText(edge.Label)
		}

		exits[from] = append(exits[from], line)
	}

	final := make(map[string]bool)
	for _, state := range opts.FinalStates {
		final[state] = true
	}

	if len(opts.FinalStates) == 0 {
		for _, node := range g.Terminals() {
			final[fmt.Sprint(node.Value)] = true
		}
	}

	highlight := make(map[string]bool)
	for _, state := range opts.HighlightPath {
		highlight[state] = true
	}

	for _, state := range states {
		lines := exits[state]
		natsort.Sort(lines)

		for _, line := range lines {
			fmt.Fprintf(&sb, "    %s\n", line)
		}

		if final[state] {
			fmt.Fprintf(&sb, "    %s --> [*]\n", ids[state])
		}
	}

	sb.WriteString("\n")

	for _, state := range states {
		switch {
		case highlight[state]:
			fmt.Fprintf(&sb, "    class %s highlighted\n", ids[state])
		case final[state]:
			fmt.Fprintf(&sb, "    class %s finalState\n", ids[state])
		}
	}

	sb.WriteString("    classDef finalState fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")

	if opts.Fenced {
		sb.WriteString("```\n")
	}

	return sb.String(), nil
}

// GenerateMermaidFromConfig renders a loaded definition. Declared final
// states take precedence over opts.FinalStates.
func GenerateMermaidFromConfig(config *definition.Config, opts Options) (string, error) {
	if config == nil {
		return "", ErrConfigNil
	}

	g, err := config.Graph()
	if err != nil {
		return "", err
	}

	if finals := config.FinalStates(); len(finals) > 0 {
		opts.FinalStates = finals
	}

	return GenerateMermaid(g, config.Initial, opts)
}

// GenerateMermaidFromFile loads a definition from path and renders it with default options.
func GenerateMermaidFromFile(path string) (string, error) {
	config, err := definition.LoadConfig(path)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	return GenerateMermaidFromConfig(config, DefaultOptions())
}

func normalizeDirection(direction string) (string, error) {
	switch d := strings.ToUpper(direction); d {
	case "":
		return "TB", nil
	case "TD", "TB":
		return "TB", nil
	case "BT", "LR", "RL":
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
}

// stateNames lists the initial state first, then the rest in natural order.
func stateNames[N comparable, E comparable](g *graph.DirectedGraph[N, E], initial string) []string {
	var rest []string

	for _, node := range g.Nodes() {
		if name := fmt.Sprint(node.Value); name != initial {
			rest = append(rest, name)
		}
	}

	natsort.Sort(rest)

	return append([]string{initial}, rest...)
}

func labelText(label any) string {
	if n, ok := label.(named); ok {
		return n.Name()
	}

	return fmt.Sprint(label)
}

// stateIDs assigns every state a distinct Mermaid identifier. Names that
// are already identifiers keep them; the others get a numeric suffix when
// their cleaned form is taken.
func stateIDs(states []string) map[string]string {
	ids := make(map[string]string, len(states))
	taken := make(map[string]bool, len(states))

	for _, state := range states {
		if stateID(state) == state {
			ids[state] = state
			taken[state] = true
		}
	}

	for _, state := range states {
		if _, ok := ids[state]; ok {
			continue
		}

		base := stateID(state)
		id := base

		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}

		ids[state] = id
		taken[id] = true
	}

	return ids
}

// stateID maps a state name to a Mermaid identifier.
func stateID(name string) string {
	var sb strings.Builder

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	if sb.Len() == 0 {
		return "_"
	}

	return sb.String()
}
