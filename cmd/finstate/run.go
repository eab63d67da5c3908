package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/amp-labs/finstate/cli"
	"github.com/amp-labs/finstate/definition"
	"github.com/amp-labs/finstate/statemachine"
	"github.com/spf13/cobra"
)

const stopChoice = "[Stop]"

func newRunCmd(a *app) *cobra.Command {
	var events []string

	cmd := &cobra.Command{
		Use:   "run <definition>",
		Short: "Walk a machine one event at a time",
		Long: `Starts the machine at its initial state and asks which event to perform next
until a final state, a state without exits, or [Stop] is reached. With --events the
listed events are performed in order without prompting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDefinition(cmd, args[0])
			if err != nil {
				return err
			}

			chooser := a.chooser
			scripted := cmd.Flags().Changed("events")

			if scripted {
				chooser = cli.NewScriptedChooser(events...)
			}

			return walk(cmd, cfg, chooser, scripted)
		},
	}

	cmd.Flags().StringSliceVar(&events, "events", nil, "Events to perform in order, without prompting")

	return cmd
}

func walk(cmd *cobra.Command, cfg *definition.Config, chooser cli.Chooser, scripted bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	m, err := cfg.NewMachine(statemachine.WithLogger(statemachine.NewDefaultLogger()))
	if err != nil {
		return err
	}

	var visited []string

	m.ObserveState(func(s string) { visited = append(visited, s) })
	m.AddTransitionListener(func(e statemachine.TransitionEvent[string]) {
		fmt.Fprintf(out, "%v -> %s\n", e.Transition, e.Target)
	})

	fmt.Fprint(out, cli.Banner(cfg.Name, cli.DefaultWidth))
	fmt.Fprintf(out, "start: %s\n", m.State())

	final := cfg.FinalStates()

	for {
		if slices.Contains(final, m.State()) {
			fmt.Fprintf(out, "reached final state %s\n", m.State())

			break
		}

		available := eventNames(m.AvailableTransitions())
		if len(available) == 0 {
			fmt.Fprintf(out, "no transitions from %s\n", m.State())

			break
		}

		if !scripted {
			available = append(available, stopChoice)
		}

		choice, err := chooser.Choose("Event", available)
		if errors.Is(err, cli.ErrScriptExhausted) {
			break
		}

		if err != nil {
			return err
		}

		if choice == stopChoice {
			break
		}

		if err := m.PerformTransitionByNameContext(ctx, choice); err != nil {
			return err
		}
	}

	fmt.Fprint(out, cli.Divider(cli.DefaultWidth))
	fmt.Fprintf(out, "path: %s\n", strings.Join(visited, " -> "))

	return nil
}

func eventNames(events []definition.Event) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name())
	}

	return names
}
