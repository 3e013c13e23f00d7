package main

import (
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <machine>",
	Short: "Export the state diagram of a machine",
	Long: `Outputs a Mermaid diagram (graph LR) of the machine's states and transitions.
With --input the machine is run first and the visited states are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadDefinition(cmd, args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			maxSteps, _ := cmd.Flags().GetInt("max-steps")
			if overlay, err = trace(cmd, def, input, maxSteps); err != nil {
				return err
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(def, overlay))
		return nil
	},
}

// trace runs def on input and records every state it passes through.
func trace(cmd *cobra.Command, def *domain.Definition, input string, maxSteps int) (*graph.GraphOverlay, error) {
	prog, err := turing.New(def, turing.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	m := prog.NewMachine()
	if err := m.Initialize(domain.Symbols(input)); err != nil {
		return nil, err
	}

	overlay := &graph.GraphOverlay{}
	err = runner.Execute(cmd.Context(), m, maxSteps, func(m ports.Machine) error {
		overlay.VisitedStates = append(overlay.VisitedStates, m.State())
		return nil
	})
	overlay.CurrentState = m.State()
	return overlay, err
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("input", "", "Highlight the states visited on this input")
	graphCmd.Flags().Int("max-steps", 10000, "Step limit for --input")
}
