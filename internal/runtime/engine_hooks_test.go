package runtime_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var (
		initialized []domain.State
		steps       []int
		halts       []*domain.HaltEvent
	)

	hooks := domain.LifecycleHooks{
		OnInitialize: func(e *domain.InitializeEvent) {
			initialized = append(initialized, e.State)
		},
		OnStep: func(e *domain.StepEvent) {
			steps = append(steps, e.Step)
		},
		OnHalt: func(e *domain.HaltEvent) {
			halts = append(halts, e)
		},
	}

	program := mustCompile(t, incrementDefinition(), runtime.WithLifecycleHooks(hooks))
	m := program.NewMachine()
	if err := m.Initialize(domain.Symbols("101")); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	runToHalt(t, m, 100)

	if len(initialized) != 1 || initialized[0] != "s" {
		t.Errorf("Expected one initialize event in 's', got %v", initialized)
	}
	if len(steps) != 8 || steps[0] != 1 || steps[7] != 8 {
		t.Errorf("Expected step events 1..8, got %v", steps)
	}
	if len(halts) != 1 {
		t.Fatalf("Expected one halt event, got %d", len(halts))
	}
	h := halts[0]
	if h.Machine != "increment" || h.State != "H" || h.Symbol != "#" || h.Steps != 8 || !h.Accepted {
		t.Errorf("Unexpected halt event: %+v", h)
	}

	// A refused step emits nothing.
	_ = m.Step()
	if len(halts) != 1 || len(steps) != 8 {
		t.Errorf("Refused step emitted events: steps=%v halts=%d", steps, len(halts))
	}
}

func TestEngine_HooksChain(t *testing.T) {
	var order []string
	program := mustCompile(t, incrementDefinition(),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{OnInitialize: func(*domain.InitializeEvent) { order = append(order, "first") }}),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{OnInitialize: func(*domain.InitializeEvent) { order = append(order, "second") }}),
	)
	if err := program.NewMachine().Initialize(nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("Expected hooks in registration order, got %v", order)
	}
}

func TestEngine_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := mustCompile(t, incrementDefinition(), runtime.WithLogger(logger)).NewMachine()
	if err := m.Initialize(domain.Symbols("0")); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	runToHalt(t, m, 100)

	out := buf.String()
	for _, want := range []string{"msg=initialized", "msg=step", "msg=halted", "machine=increment", "accepted=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q, got:\n%s", want, out)
		}
	}
}
