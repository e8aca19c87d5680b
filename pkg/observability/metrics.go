package observability

import (
	"context"

	"github.com/aretw0/metasim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the decision collectors.
type Metrics struct {
	Decisions  *prometheus.CounterVec
	Contingent *prometheus.CounterVec
	Eligible   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metasim_decisions_total",
				Help: "Total number of resolved actions",
			},
			[]string{"class", "action", "transition"},
		),
		Contingent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metasim_contingent_decisions_total",
				Help: "Resolved actions that took a contingent transition",
			},
			[]string{"class"},
		),
		Eligible: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "metasim_eligible_transitions",
				Help:    "Number of transitions eligible at decision time",
				Buckets: []float64{1, 2, 3, 5, 8, 13},
			},
			[]string{"class"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Decisions, m.Contingent, m.Eligible} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Observe records one decision.
func (m *Metrics) Observe(e *domain.DecisionEvent) {
	m.Decisions.WithLabelValues(e.Class, e.Action, e.Transition).Inc()
	if e.Contingent {
		m.Contingent.WithLabelValues(e.Class).Inc()
	}
	m.Eligible.WithLabelValues(e.Class).Observe(float64(e.Eligible))
}

// Hooks returns decision hooks that feed the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			m.Observe(e)
		},
	}
}
