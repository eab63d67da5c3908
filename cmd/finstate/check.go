package main

import (
	"errors"
	"fmt"
	"strings"

	"facette.io/natsort"
	"github.com/amp-labs/finstate/definition"
	"github.com/amp-labs/finstate/graph"
	"github.com/amp-labs/finstate/logger"
	"github.com/spf13/cobra"
)

var (
	errUnknownState = errors.New("unknown state")
	errUnreachable  = errors.New("definition has unreachable states")
	errDeadEnds     = errors.New("definition has non-final states without exits")
)

// report is the outcome of checking one definition.
type report struct {
	Unreachable []string
	Terminals   []string
	DeadEnds    []string
}

func checkDefinition(cfg *definition.Config) (report, error) {
	g, err := cfg.Graph()
	if err != nil {
		return report{}, err
	}

	reached := make(map[string]bool)
	for _, node := range g.Reachable(graph.NewNode(cfg.Initial)) {
		reached[node.Value] = true
	}

	final := make(map[string]bool)
	for _, id := range cfg.FinalStates() {
		final[id] = true
	}

	var r report

	for _, state := range cfg.States {
		if !reached[state.ID] {
			r.Unreachable = append(r.Unreachable, state.ID)
		}

		if len(state.Transitions) > 0 {
			continue
		}

		r.Terminals = append(r.Terminals, state.ID)

		if len(final) > 0 && !final[state.ID] {
			r.DeadEnds = append(r.DeadEnds, state.ID)
		}
	}

	natsort.Sort(r.Unreachable)
	natsort.Sort(r.Terminals)
	natsort.Sort(r.DeadEnds)

	return r, nil
}

func newCheckCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <definition>",
		Short: "Report unreachable and terminal states",
		Long: `Loads and validates a definition, then reports states that cannot be reached
from the initial state and states without exits. The command fails when a state is
unreachable. With --strict it also fails when a state without exits is not declared final.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDefinition(cmd, args[0])
			if err != nil {
				return err
			}

			r, err := checkDefinition(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "definition %s: %d states, initial %s\n", cfg.Name, len(cfg.States), cfg.Initial)
			fmt.Fprintf(out, "terminal states: %s\n", listOrNone(r.Terminals))
			fmt.Fprintf(out, "unreachable states: %s\n", listOrNone(r.Unreachable))

			if len(r.DeadEnds) > 0 {
				fmt.Fprintf(out, "non-final states without exits: %s\n", listOrNone(r.DeadEnds))
			}

			var errs []error

			if len(r.Unreachable) > 0 {
				errs = append(errs, fmt.Errorf("%w: %s", errUnreachable, strings.Join(r.Unreachable, ", ")))
			}

			if strict && len(r.DeadEnds) > 0 {
				errs = append(errs, fmt.Errorf("%w: %s", errDeadEnds, strings.Join(r.DeadEnds, ", ")))
			}

			if len(errs) == 0 {
				logger.Get(cmd.Context()).Debug("Definition checked", "name", cfg.Name)
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Also fail on non-final states without exits")

	return cmd
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}

	return strings.Join(items, ", ")
}
