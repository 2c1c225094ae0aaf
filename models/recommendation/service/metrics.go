package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts recommendation cache lookups.
type Metrics struct {
	lookups *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "serendibtrip_recommendation_cache_total",
			Help: "Recommendation cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

// Lookups exposes the counter for one result label.
func (m *Metrics) Lookups(result string) prometheus.Counter {
	return m.lookups.WithLabelValues(result)
}
