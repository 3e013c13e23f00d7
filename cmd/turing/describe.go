package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <machine>",
	Short: "Summarize a machine definition",
	Long: `Prints the alphabets, states and transition table of a machine as rendered markdown.
--yaml and --json print the canonical definition instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadDefinition(cmd, args[0])
		if err != nil {
			return err
		}

		asYAML, _ := cmd.Flags().GetBool("yaml")
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		switch {
		case asYAML && asJSON:
			return fmt.Errorf("--yaml and --json cannot be used together")
		case asYAML:
			data, err := compiler.EncodeYAML(def)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		case asJSON:
			data, err := compiler.EncodeJSON(def)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		}

		style, _ := cmd.Flags().GetString("style")
		if style == "" && !isTerminal(os.Stdout) {
			style = "notty"
		}
		render, err := tui.NewRenderer(style)
		if err != nil {
			return err
		}
		text, err := render(tui.Describe(def))
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().Bool("yaml", false, "Print the definition as YAML")
	describeCmd.Flags().Bool("json", false, "Print the definition as JSON")
	describeCmd.Flags().String("style", "", "Glamour style (dark, light, notty, ...); detected by default")
}
