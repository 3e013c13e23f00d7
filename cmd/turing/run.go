package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tape"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [machine]",
	Short: "Run a machine on inputs read line by line",
	Long: `Loads a machine by name from --dir (or from a file path) and runs it on every
input line, printing the tape around the head before each step and whether the
input was accepted. Without a machine argument the only machine of --dir is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := pickMachine(cmd, args)
		if err != nil {
			return err
		}
		def, err := loadDefinition(cmd, name)
		if err != nil {
			return err
		}
		prog, err := turing.New(def, turing.WithLogger(logger))
		if err != nil {
			return err
		}

		delay, _ := cmd.Flags().GetDuration("delay")
		window, _ := cmd.Flags().GetInt("window")
		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		once, _ := cmd.Flags().GetBool("once")
		quiet, _ := cmd.Flags().GetBool("quiet")
		noColor, _ := cmd.Flags().GetBool("no-color")

		profile := colorProfile(noColor)
		out := cmd.OutOrStdout()

		opts := []runner.Option{
			runner.WithLogger(logger),
			runner.WithDelay(delay),
			runner.WithWindow(window),
			runner.WithMaxSteps(maxSteps),
			runner.WithQuiet(quiet),
			runner.WithStyle(profile),
			runner.WithOnce(once),
		}
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			opts = append(opts,
				runner.WithIO(strings.NewReader(input+"\n"), out),
				runner.WithOnce(true),
				runner.WithPrompt(""),
			)
		} else {
			opts = append(opts, runner.WithIO(cmd.InOrStdin(), out))
			if profile != termenv.Ascii && !quiet {
				tui.PrintBanner(out, profile)
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = runner.NewRunner(opts...).Run(ctx, prog)
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out)
			return nil
		}
		return err
	},
}

// pickMachine returns the machine argument, or the only machine of --dir.
func pickMachine(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	names, err := machineNames(cmd.Context(), cmd, nil)
	if err != nil {
		return "", err
	}
	if len(names) > 1 {
		return "", fmt.Errorf("several machines found, pick one of: %s", strings.Join(names, ", "))
	}
	return names[0], nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "Run a single input instead of reading lines from stdin")
	runCmd.Flags().Duration("delay", 0, "Pause between rendered steps (e.g. 200ms)")
	runCmd.Flags().Int("window", tape.DefaultRadius, "Cells shown on each side of the head")
	runCmd.Flags().Int("max-steps", 0, "Abort a run after this many steps (0 = unbounded)")
	runCmd.Flags().Bool("once", false, "Stop after the first input line")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print the acceptance line")
	runCmd.Flags().Bool("no-color", false, "Disable the highlighted head cell")
}
