package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [machine...]",
	Short: "Check machine definitions for consistency",
	Long: `Compiles each machine and checks that every state and symbol it uses is declared.
Unreachable states are reported as warnings. Without arguments every machine of --dir is checked.
With --watch the machine files of --dir are checked again whenever they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		names, err := machineNames(cmd.Context(), cmd, args)
		if err != nil && !watch {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, name := range names {
			if err := validateOne(cmd, name); err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s: %v\n", name, err)
				continue
			}
			fmt.Fprintf(out, "✓ %s\n", name)
		}

		if watch {
			return watchValidate(cmd)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d machines failed validation", failed, len(names))
		}
		return nil
	},
}

// watchValidate re-validates every machine file of --dir that changes, until interrupted.
func watchValidate(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := machineStore(cmd)
	events, err := store.Watch(ctx)
	if err != nil {
		return err
	}
	logger.Info("Watching machines", "dir", store.BasePath)

	out := cmd.OutOrStdout()
	for ev := range events {
		if ev.Removed {
			fmt.Fprintf(out, "- %s removed\n", ev.Name)
			continue
		}
		if err := validateOne(cmd, ev.Path); err != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", ev.Name, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s\n", ev.Name)
	}
	return nil
}

func validateOne(cmd *cobra.Command, name string) error {
	def, err := loadDefinition(cmd, name)
	if err != nil {
		return err
	}

	report := validator.ValidateDefinition(def)
	for _, w := range report.Warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "! %s: %s\n", name, w)
	}
	if err := report.Err(); err != nil {
		return err
	}

	// Duplicate rules and bad directions only surface when compiling.
	_, err = turing.New(def)
	return err
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolP("watch", "w", false, "Keep running and validate machine files as they change")
}
