package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// Extensions lists the machine file extensions, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// Store implements ports.DefinitionStore using the local filesystem.
// Each machine is one file named after it; Save writes YAML.
type Store struct {
	BasePath string
	parser   *compiler.Parser
}

// NewStore creates a new Store rooted at basePath.
// If basePath is empty, it defaults to the current directory.
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = "."
	}
	return &Store{BasePath: basePath, parser: compiler.NewParser()}
}

// LoadFile parses a single machine file.
// A definition without a name is named after the file.
func LoadFile(path string) (*domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine file: %w", err)
	}
	def, err := compiler.NewParser().Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		def.Name = nameOf(filepath.Base(path))
	}
	return def, nil
}

// Load retrieves the named machine from <BasePath>/<name>{.yaml,.yml,.json}.
func (s *Store) Load(ctx context.Context, name string) (*domain.Definition, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	for _, ext := range Extensions {
		path := filepath.Join(s.BasePath, name+ext)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return LoadFile(path)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
}

// Save writes def to <BasePath>/<name>.yaml.
func (s *Store) Save(ctx context.Context, def *domain.Definition) error {
	if err := checkName(def.Name); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure machine directory: %w", err)
	}

	data, err := compiler.EncodeYAML(def)
	if err != nil {
		return err
	}

	// Drop other encodings so Load keeps finding the latest revision.
	if err := s.Delete(ctx, def.Name); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.BasePath, def.Name+".yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write machine file: %w", err)
	}
	return nil
}

// Delete removes every file of the named machine.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	for _, ext := range Extensions {
		err := os.Remove(filepath.Join(s.BasePath, name+ext))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete machine file: %w", err)
		}
	}
	return nil
}

// List returns the machine names found in BasePath.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(Extensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		name := nameOf(entry.Name())
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func nameOf(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: definition has no name", domain.ErrInvalidDefinition)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: invalid machine name %q", domain.ErrInvalidDefinition, name)
	}
	return nil
}
