package main

import (
	"fmt"

	"github.com/amp-labs/finstate/visualizer"
	"github.com/spf13/cobra"
)

func newMermaidCmd() *cobra.Command {
	var (
		direction string
		noLabels  bool
		raw       bool
		highlight []string
	)

	cmd := &cobra.Command{
		Use:   "mermaid <definition>",
		Short: "Render a machine as a Mermaid state diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDefinition(cmd, args[0])
			if err != nil {
				return err
			}

			opts := visualizer.DefaultOptions().
				WithDirection(direction).
				WithShowLabels(!noLabels).
				WithFenced(!raw).
				WithHighlightPath(highlight)

			diagram, err := visualizer.GenerateMermaidFromConfig(cfg, opts)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), diagram)

			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "TD", "Diagram direction: TD, LR, BT or RL")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "Omit event names on arrows")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print without the markdown code fence")
	cmd.Flags().StringSliceVar(&highlight, "highlight", nil, "States to highlight")

	return cmd
}
