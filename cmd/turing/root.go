package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/spf13/cobra"
)

// logger is configured from --log-level and --log-file before any command runs.
var (
	logger  = logging.NewNop()
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a deterministic single-tape Turing machine engine",
	Long: `Turing loads machine definitions (YAML or JSON) from a directory and runs them
step by step on a terminal, over HTTP or as an MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(raw)
		if err != nil {
			return err
		}

		logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
		if path, _ := cmd.Flags().GetString("log-file"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			logFile = f
			logger = logging.NewTee(cmd.ErrOrStderr(), level, f)
		}
		slog.SetDefault(logger)
		logger.Debug("command started", "command", cmd.CommandPath(), "version", turing.Version)
		return nil
	},
}

// closeLogFile runs after every command, including the ones that failed.
func closeLogFile() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
	logFile = nil
	logger = logging.NewNop()
	slog.SetDefault(logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnFinalize(closeLogFile)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the machine definitions")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Also append logs to this file as JSON lines")
}
