package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// fileTransition is the flow-style YAML form of one rule.
type fileTransition struct {
	From  string `yaml:"from"`
	Read  string `yaml:"read"`
	To    string `yaml:"to"`
	Write string `yaml:"write"`
	Move  string `yaml:"move"`
}

type fileMachine struct {
	Name         string           `yaml:"name"`
	Description  string           `yaml:"description,omitempty"`
	States       []string         `yaml:"states,flow"`
	Symbols      []string         `yaml:"symbols,flow"`
	Blank        string           `yaml:"blank"`
	InputSymbols []string         `yaml:"input_symbols,flow,omitempty"`
	Initial      string           `yaml:"initial"`
	Accepting    []string         `yaml:"accepting,flow"`
	Transitions  []fileTransition `yaml:"transitions"`
}

// EncodeYAML renders def in the machine file format.
func EncodeYAML(def *domain.Definition) ([]byte, error) {
	meta := FromDomain(def)
	out := fileMachine{
		Name:         meta.Name,
		Description:  meta.Description,
		States:       meta.States,
		Symbols:      meta.Symbols,
		Blank:        meta.Blank,
		InputSymbols: meta.InputSymbols,
		Initial:      meta.Initial,
		Accepting:    meta.Accepting,
	}
	for _, t := range meta.Transitions {
		t = t.Resolved()
		out.Transitions = append(out.Transitions, fileTransition{From: t.From, Read: t.Read, To: t.To, Write: t.Write, Move: t.Move})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode machine: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode machine: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders def as JSON, which Parse reads back as well.
func EncodeJSON(def *domain.Definition) ([]byte, error) {
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode machine: %w", err)
	}
	return data, nil
}
