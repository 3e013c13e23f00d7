package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func machineStore(cmd *cobra.Command) *file.Store {
	dir, _ := cmd.Flags().GetString("dir")
	return file.NewStore(dir)
}

// loadDefinition resolves name as a file path when it looks like one,
// otherwise as a machine of the --dir catalog.
func loadDefinition(cmd *cobra.Command, name string) (*domain.Definition, error) {
	if isPath(name) {
		return file.LoadFile(name)
	}
	return machineStore(cmd).Load(cmd.Context(), name)
}

func isPath(name string) bool {
	return strings.ContainsRune(name, '/') ||
		strings.ContainsRune(name, filepath.Separator) ||
		slices.Contains(file.Extensions, strings.ToLower(filepath.Ext(name)))
}

// machineNames returns args, or every machine of the catalog when args is empty.
func machineNames(ctx context.Context, cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	names, err := machineStore(cmd).List(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		dir, _ := cmd.Flags().GetString("dir")
		return nil, fmt.Errorf("no machines found in %s", dir)
	}
	return names, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorProfile picks the termenv profile for stdout. Pipes and --no-color get plain ASCII.
func colorProfile(noColor bool) termenv.Profile {
	if noColor || !isTerminal(os.Stdout) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
