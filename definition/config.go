// Package definition loads state machine descriptions from YAML and turns
// them into graphs and graph based machines.
package definition

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/amp-labs/finstate/graph"
	"github.com/amp-labs/finstate/statemachine"
	"gopkg.in/yaml.v3"
)

// Event labels an edge of a loaded machine.
type Event string

// Name returns the event identifier used by PerformTransitionByName.
func (e Event) Name() string {
	return string(e)
}

// Config is a machine description.
type Config struct {
	Name    string        `json:"name"    yaml:"name"`
	Initial string        `json:"initial" yaml:"initial"`
	States  []StateConfig `json:"states"  yaml:"states"`
}

// StateConfig describes one state and the transitions leaving it.
type StateConfig struct {
	ID          string             `json:"id"          yaml:"id"`
	Final       bool               `json:"final"       yaml:"final"`
	Transitions []TransitionConfig `json:"transitions" yaml:"transitions"`
}

// TransitionConfig is a single (event -> target) pair.
type TransitionConfig struct {
	Event  string `json:"event"  yaml:"event"`
	Target string `json:"target" yaml:"target"`
}

// ConfigLoader resolves bare names to configuration bytes.
// Applications can implement this to serve embedded definitions.
type ConfigLoader interface {
	LoadByName(name string) ([]byte, error)
	ListAvailable() []string
}

var defaultConfigLoader ConfigLoader //nolint:gochecknoglobals

// SetConfigLoader sets the loader used by LoadConfig for bare names.
func SetConfigLoader(loader ConfigLoader) {
	defaultConfigLoader = loader
}

// LoadConfig loads a definition by path or name.
//   - Path mode: anything containing a path separator or ending in .yaml/.yml
//     is read from the filesystem, e.g. LoadConfig("testdata/door.yaml").
//   - Name mode: a bare name is resolved by the registered ConfigLoader,
//     e.g. LoadConfig("door").
func LoadConfig(pathOrName string) (*Config, error) {
	if isPath(pathOrName) {
		data, err := os.ReadFile(pathOrName) //nolint:gosec // Intentional path-based loading
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", pathOrName, err)
		}

		return LoadConfigFromBytes(data)
	}

	if defaultConfigLoader == nil {
		return nil, ErrNoConfigLoader
	}

	data, err := defaultConfigLoader.LoadByName(pathOrName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q (available: %v): %w",
			pathOrName, defaultConfigLoader.ListAvailable(), err)
	}

	return LoadConfigFromBytes(data)
}

func isPath(pathOrName string) bool {
	lower := strings.ToLower(pathOrName)

	return strings.ContainsAny(pathOrName, `/\`) ||
		strings.HasSuffix(lower, ".yaml") ||
		strings.HasSuffix(lower, ".yml")
}

// LoadConfigFromBytes parses and validates a YAML definition.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFromFS loads a definition from fsys, typically an embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// Validate reports every structural problem of the definition at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrConfigNameRequired)
	}

	if len(c.States) == 0 {
		errs = append(errs, ErrStateRequired)
	}

	ids := make(map[string]bool, len(c.States))

	for i, state := range c.States {
		if state.ID == "" {
			errs = append(errs, fmt.Errorf("state %d: %w", i, ErrStateIDRequired))

			continue
		}

		if ids[state.ID] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateStateID, state.ID))
		}

		ids[state.ID] = true
	}

	switch {
	case c.Initial == "":
		errs = append(errs, ErrInitialStateRequired)
	case !ids[c.Initial]:
		errs = append(errs, fmt.Errorf("%w: %s", ErrInitialStateNotFound, c.Initial))
	}

	for _, state := range c.States {
		if state.Final && len(state.Transitions) > 0 {
			errs = append(errs, fmt.Errorf("state %s: %w", state.ID, ErrFinalStateHasTransitions))
		}

		events := make(map[string]bool, len(state.Transitions))

		for i, transition := range state.Transitions {
			if transition.Event == "" {
				errs = append(errs, fmt.Errorf("state %s, transition %d: %w", state.ID, i, ErrEventRequired))

				continue
			}

			if events[transition.Event] {
				errs = append(errs, fmt.Errorf("state %s: %w: %s", state.ID, ErrDuplicateEvent, transition.Event))
			}

			events[transition.Event] = true

			if !ids[transition.Target] {
				errs = append(errs, fmt.Errorf("state %s, event %s: %w: %q",
					state.ID, transition.Event, ErrTargetNotFound, transition.Target))
			}
		}
	}

	return errors.Join(errs...)
}

// FinalStates lists the states declared final, in declaration order.
func (c *Config) FinalStates() []string {
	var out []string

	for _, state := range c.States {
		if state.Final {
			out = append(out, state.ID)
		}
	}

	return out
}

// Mapping returns the (state, event) -> state table of the definition.
// States without transitions are absent.
func (c *Config) Mapping() map[string]map[Event]string {
	mapping := make(map[string]map[Event]string)

	for _, state := range c.States {
		for _, transition := range state.Transitions {
			if mapping[state.ID] == nil {
				mapping[state.ID] = make(map[Event]string)
			}

			mapping[state.ID][Event(transition.Event)] = transition.Target
		}
	}

	return mapping
}

// Graph builds the transition graph, keeping declaration order.
func (c *Config) Graph() (*graph.DirectedGraph[string, Event], error) {
	var edges []graph.Edge[string, Event]

	for _, state := range c.States {
		for _, transition := range state.Transitions {
			edges = append(edges, graph.NewEdge(state.ID, Event(transition.Event), transition.Target))
		}
	}

	g, err := graph.New(edges...)
	if err != nil {
		return nil, fmt.Errorf("building graph for %s: %w", c.Name, err)
	}

	return g, nil
}

// NewMachine builds a graph machine positioned at the initial state.
// The machine is named after the definition unless opts override it.
func (c *Config) NewMachine(opts ...statemachine.Option) (*statemachine.GraphMachine[string, Event], error) {
	g, err := c.Graph()
	if err != nil {
		return nil, err
	}

	opts = append([]statemachine.Option{statemachine.WithName(c.Name)}, opts...)

	return statemachine.NewGraphMachine(g, c.Initial, opts...), nil
}
