package compiler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/turing/internal/dto"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser is responsible for converting raw bytes into a Definition.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a machine file. JSON is accepted as a subset of YAML.
func (p *Parser) Parse(data []byte) (*domain.Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse machine: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to parse machine: empty document")
	}

	var meta dto.MachineMetadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		// Unquoted YAML digits arrive as ints; symbols are strings.
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       compactTransitionHook,
		Result:           &meta,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode machine: %w", err)
	}

	return ToDomain(&meta)
}

// ToDomain converts the file representation into a domain definition.
func ToDomain(meta *dto.MachineMetadata) (*domain.Definition, error) {
	def := &domain.Definition{
		Name:         meta.Name,
		Description:  meta.Description,
		States:       states(meta.States),
		Symbols:      symbols(meta.Symbols),
		Blank:        domain.Symbol(meta.Blank),
		InputSymbols: symbols(meta.InputSymbols),
		Initial:      domain.State(meta.Initial),
		Accepting:    states(meta.Accepting),
	}

	for i, raw := range meta.Transitions {
		t := raw.Resolved()
		if t.From == "" || t.Read == "" || t.To == "" || t.Write == "" {
			return nil, fmt.Errorf("transition #%d: from, read, to and write are required", i)
		}
		move, err := domain.ParseDirection(t.Move)
		if err != nil {
			return nil, fmt.Errorf("transition #%d: %w", i, err)
		}
		def.Transitions = append(def.Transitions, domain.Transition{
			From:  domain.State(t.From),
			Read:  domain.Symbol(t.Read),
			To:    domain.State(t.To),
			Write: domain.Symbol(t.Write),
			Move:  move,
		})
	}
	return def, nil
}

// FromDomain converts a definition back into its file representation.
func FromDomain(def *domain.Definition) *dto.MachineMetadata {
	meta := &dto.MachineMetadata{
		Name:         def.Name,
		Description:  def.Description,
		Blank:        string(def.Blank),
		Initial:      string(def.Initial),
		States:       strs(def.States),
		Symbols:      strs(def.Symbols),
		InputSymbols: strs(def.InputSymbols),
		Accepting:    strs(def.Accepting),
	}
	for _, t := range def.Transitions {
		meta.Transitions = append(meta.Transitions, dto.LoaderTransition{
			From:  string(t.From),
			Read:  string(t.Read),
			To:    string(t.To),
			Write: string(t.Write),
			Move:  t.Move.String(),
		})
	}
	return meta
}

var transitionType = reflect.TypeOf(dto.LoaderTransition{})

// compactTransitionHook turns "from read -> to write move" into a transition.
func compactTransitionHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != transitionType {
		return data, nil
	}
	t, err := ParseCompact(data.(string))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"from":  t.From,
		"read":  t.Read,
		"to":    t.To,
		"write": t.Write,
		"move":  t.Move,
	}, nil
}

// ParseCompact parses the single-line rule form "s 0 -> a 1 R".
func ParseCompact(line string) (dto.LoaderTransition, error) {
	lhs, rhs, ok := strings.Cut(line, "->")
	if !ok {
		return dto.LoaderTransition{}, fmt.Errorf("compact transition %q: missing '->'", line)
	}
	left := strings.Fields(lhs)
	right := strings.Fields(rhs)
	if len(left) != 2 || len(right) != 3 {
		return dto.LoaderTransition{}, fmt.Errorf("compact transition %q: want \"from read -> to write move\"", line)
	}
	return dto.LoaderTransition{
		From:  left[0],
		Read:  left[1],
		To:    right[0],
		Write: right[1],
		Move:  right[2],
	}, nil
}

func states(in []string) []domain.State {
	if in == nil {
		return nil
	}
	out := make([]domain.State, len(in))
	for i, s := range in {
		out[i] = domain.State(s)
	}
	return out
}

func symbols(in []string) []domain.Symbol {
	if in == nil {
		return nil
	}
	out := make([]domain.Symbol, len(in))
	for i, s := range in {
		out[i] = domain.Symbol(s)
	}
	return out
}

func strs[T ~string](in []T) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
