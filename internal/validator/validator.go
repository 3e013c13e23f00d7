package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Report collects the problems found in a definition.
// Errors make a definition non-conformant; warnings do not.
type Report struct {
	Errors   []string
	Warnings []string
}

// Err returns nil for a clean report, or an error wrapping domain.ErrInvalidDefinition.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrInvalidDefinition, len(r.Errors), strings.Join(r.Errors, "\n- "))
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateDefinition checks that every state and symbol the definition uses is declared,
// and reports states that cannot be reached from the initial state.
func ValidateDefinition(def *domain.Definition) *Report {
	r := &Report{}

	if def.Blank == "" {
		r.errorf("blank symbol is empty")
	} else if !def.HasSymbol(def.Blank) {
		r.errorf("blank symbol %q is not a declared symbol", def.Blank)
	}

	for _, s := range def.InputSymbols {
		if s == def.Blank {
			r.errorf("input symbol %q is the blank symbol", s)
		} else if !def.HasSymbol(s) {
			r.errorf("input symbol %q is not a declared symbol", s)
		}
	}

	if def.Initial == "" {
		r.errorf("initial state is empty")
	} else if !def.HasState(def.Initial) {
		r.errorf("initial state %q is not a declared state", def.Initial)
	}

	for _, s := range def.Accepting {
		if !def.HasState(s) {
			r.errorf("accepting state %q is not a declared state", s)
		}
	}

	seen := make(map[domain.Key]int, len(def.Transitions))
	for i, t := range def.Transitions {
		if first, dup := seen[t.Key()]; dup {
			r.errorf("transition #%d (%s) duplicates transition #%d", i, t, first)
		} else {
			seen[t.Key()] = i
		}
		if !def.HasState(t.From) {
			r.errorf("transition #%d (%s): source state %q is not declared", i, t, t.From)
		}
		if !def.HasState(t.To) {
			r.errorf("transition #%d (%s): target state %q is not declared", i, t, t.To)
		}
		if !def.HasSymbol(t.Read) {
			r.errorf("transition #%d (%s): read symbol %q is not declared", i, t, t.Read)
		}
		if !def.HasSymbol(t.Write) {
			r.errorf("transition #%d (%s): written symbol %q is not declared", i, t, t.Write)
		}
		if !t.Move.Valid() {
			r.errorf("transition #%d (%s): invalid direction", i, t)
		}
	}

	for _, s := range unreachable(def) {
		r.warnf("state %q is unreachable from %q", s, def.Initial)
	}

	return r
}

// unreachable crawls the table from the initial state and returns the declared states it never visits.
func unreachable(def *domain.Definition) []domain.State {
	if def.Initial == "" {
		return nil
	}

	edges := make(map[domain.State][]domain.State)
	for _, t := range def.Transitions {
		edges[t.From] = append(edges[t.From], t.To)
	}

	visited := map[domain.State]bool{}
	queue := []domain.State{def.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, next := range edges[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	var out []domain.State
	for _, s := range def.States {
		if !visited[s] && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
