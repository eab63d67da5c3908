package main

import (
	"fmt"
	"os"

	"github.com/amp-labs/finstate/cli"
	"github.com/amp-labs/finstate/definition"
	"github.com/spf13/cobra"
)

// app carries what the subcommands share. Tests swap the chooser.
type app struct {
	chooser cli.Chooser
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "finstate",
		Short: "Inspect and drive finite state machines described in YAML",
		Long: `finstate loads a machine definition (a list of states and the events that
move between them) and lets you enumerate its paths, render it as a Mermaid
diagram, check it for unreachable states, or walk it one event at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("loader-dir", "",
		"Directory of named definitions; lets <definition> be a bare name")

	root.AddCommand(
		newPathsCmd(),
		newMermaidCmd(),
		newCheckCmd(),
		newRunCmd(a),
	)

	return root
}

// loadDefinition resolves a path or, with --loader-dir, a bare name.
func loadDefinition(cmd *cobra.Command, pathOrName string) (*definition.Config, error) {
	dir, _ := cmd.Flags().GetString("loader-dir")
	if dir != "" {
		definition.SetConfigLoader(definition.NewFSLoader(os.DirFS(dir), "."))
	}

	cfg, err := definition.LoadConfig(pathOrName)
	if err != nil {
		return nil, fmt.Errorf("loading definition: %w", err)
	}

	return cfg, nil
}
