package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/amp-labs/finstate/definition"
	"github.com/amp-labs/finstate/graph"
	"github.com/spf13/cobra"
)

func newPathsCmd() *cobra.Command {
	var (
		from        string
		all         bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "paths <definition>",
		Short: "List the acyclic paths of a machine",
		Long: `Lists every path from a state (the initial state by default) that ends at a
state without exits or closes a cycle. With --all, paths are listed from every
declared state in definition order, including states with no transitions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDefinition(cmd, args[0])
			if err != nil {
				return err
			}

			g, err := cfg.Graph()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if all {
				results, err := graph.MapAllAcyclicPaths(cmd.Context(), g, graph.WithConcurrency(concurrency))
				if err != nil {
					return err
				}

				byStart := make(map[string][]graph.Path[string], len(results))
				for _, r := range results {
					byStart[r.Start.Value] = r.Paths
				}

				// States without edges are not graph nodes; each is its own path.
				for i, state := range cfg.States {
					if i > 0 {
						fmt.Fprintln(out)
					}

					paths, ok := byStart[state.ID]
					if !ok {
						paths = []graph.Path[string]{{graph.NewNode(state.ID)}}
					}

					fmt.Fprintf(out, "from %s:\n", state.ID)
					printPaths(out, "  ", paths)
				}

				return nil
			}

			if from == "" {
				from = cfg.Initial
			}

			if !hasState(cfg, from) {
				return fmt.Errorf("%w: %s", errUnknownState, from)
			}

			printPaths(out, "", g.MapAcyclicPaths(graph.NewNode(from)))

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start state (defaults to the initial state)")
	cmd.Flags().BoolVar(&all, "all", false, "List paths from every state")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Start states explored at once with --all") //nolint:mnd

	return cmd
}

func printPaths(out io.Writer, indent string, paths []graph.Path[string]) {
	for _, p := range paths {
		fmt.Fprintf(out, "%s%s\n", indent, p)
	}
}

func hasState(cfg *definition.Config, id string) bool {
	return slices.ContainsFunc(cfg.States, func(s definition.StateConfig) bool {
		return s.ID == id
	})
}
