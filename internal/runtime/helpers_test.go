package runtime_test

import (
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

// incrementDefinition mirrors the reference binary increment table.
// Like the reference, the declared symbols omit the blank.
func incrementDefinition() *domain.Definition {
	return &domain.Definition{
		Name:         "increment",
		States:       []domain.State{"s", "a", "b", "c", "H"},
		Symbols:      []domain.Symbol{"0", "1"},
		Blank:        "#",
		InputSymbols: []domain.Symbol{"0", "1"},
		Initial:      "s",
		Accepting:    []domain.State{"H"},
		Transitions: []domain.Transition{
			{From: "s", Read: "0", To: "s", Write: "0", Move: domain.Right},
			{From: "s", Read: "1", To: "s", Write: "1", Move: domain.Right},
			{From: "s", Read: "#", To: "a", Write: "#", Move: domain.Left},
			{From: "a", Read: "0", To: "b", Write: "1", Move: domain.Right},
			{From: "a", Read: "1", To: "c", Write: "0", Move: domain.Left},
			{From: "b", Read: "0", To: "b", Write: "0", Move: domain.Right},
			{From: "b", Read: "1", To: "b", Write: "1", Move: domain.Right},
			{From: "b", Read: "#", To: "H", Write: "#", Move: domain.Right},
			{From: "c", Read: "0", To: "b", Write: "1", Move: domain.Right},
			{From: "c", Read: "1", To: "c", Write: "0", Move: domain.Left},
			{From: "c", Read: "#", To: "b", Write: "1", Move: domain.Right},
		},
	}
}

func mustCompile(t *testing.T, def *domain.Definition, opts ...runtime.Option) *runtime.Program {
	t.Helper()
	p, err := runtime.Compile(def, opts...)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return p
}

// runToHalt steps m until it halts, failing the test after limit steps.
func runToHalt(t *testing.T, m *runtime.Machine, limit int) {
	t.Helper()
	for i := 0; !m.Halted(); i++ {
		if i > limit {
			t.Fatalf("machine did not halt within %d steps", limit)
		}
		if err := m.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
}
