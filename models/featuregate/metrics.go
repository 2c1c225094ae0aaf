package featuregate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts gate decisions by feature and resulting state.
type Metrics struct {
	decisions *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		decisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "serendibtrip_feature_gate_decisions_total",
			Help: "Feature gate decisions by feature and access state",
		}, []string{"feature", "state"}),
	}
}

func (m *Metrics) observe(feature, state string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(feature, state).Inc()
}
