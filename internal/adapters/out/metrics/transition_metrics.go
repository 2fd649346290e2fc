// Package metrics exposes Prometheus counters for accepted order transitions.
package metrics

import (
	"context"
	"fmt"

	"orderstate/internal/core/domain/services"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orderstate"

// TransitionMetrics is a persist-state listener that counts accepted transitions.
// Register it before the persistence listener so it only counts transitions
// whose status was saved.
type TransitionMetrics struct {
	transitions *prometheus.CounterVec
	statuses    *prometheus.CounterVec
}

var _ services.PersistStateChangeListener = (*TransitionMetrics)(nil)

// NewTransitionMetrics creates the collectors and registers them on reg.
func NewTransitionMetrics(reg prometheus.Registerer) (*TransitionMetrics, error) {
	m := &TransitionMetrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Accepted order status transitions",
			},
			[]string{"from", "event", "to"},
		),
		statuses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_entered_total",
				Help:      "Times an order entered each status",
			},
			[]string{"status"},
		),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.statuses} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register transition metrics: %w", err)
		}
	}

	return m, nil
}

func (m *TransitionMetrics) OnPersist(_ context.Context, change services.StateChange) error {
	m.transitions.WithLabelValues(
		change.Transition.Source.Code(),
		change.Request.Event.Code(),
		change.State.Code(),
	).Inc()
	m.statuses.WithLabelValues(change.State.Code()).Inc()
	return nil
}
