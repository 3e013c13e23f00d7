package observability

import (
	"strconv"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts runs, steps and halts per machine.
type Metrics struct {
	Runs     *prometheus.CounterVec
	Steps    *prometheus.CounterVec
	Halts    *prometheus.CounterVec
	RunSteps *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turing_runs_total",
			Help: "Runs initialized, by machine.",
		}, []string{"machine"}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turing_steps_total",
			Help: "Transitions applied, by machine.",
		}, []string{"machine"}),
		Halts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turing_halts_total",
			Help: "Runs halted, by machine and acceptance.",
		}, []string{"machine", "accepted"}),
		RunSteps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "turing_run_steps",
			Help:    "Transitions applied by a run before it halted.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"machine"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Runs, m.Steps, m.Halts, m.RunSteps} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
// The machine label is taken from each event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnInitialize: func(e *domain.InitializeEvent) {
			m.Runs.WithLabelValues(e.Machine).Inc()
		},
		OnStep: func(e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Machine).Inc()
		},
		OnHalt: func(e *domain.HaltEvent) {
			m.Halts.WithLabelValues(e.Machine, strconv.FormatBool(e.Accepted)).Inc()
			m.RunSteps.WithLabelValues(e.Machine).Observe(float64(e.Steps))
		},
	}
}
