// Package metrics собирает метрики Prometheus консоли.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "members_console"

// Metrics счётчики и гистограммы представлений и guard-а.
type Metrics struct {
	Recomputations   *prometheus.CounterVec
	RecomputeSeconds *prometheus.HistogramVec
	RefreshFailures  *prometheus.CounterVec
	GuardRejections  *prometheus.CounterVec
}

// New регистрирует метрики в reg. nil означает prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Recomputations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputations_total",
			Help:      "Number of visible page recomputations per view.",
		}, []string{"view"}),
		RecomputeSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Time spent filtering, sorting and paginating a view.",
			Buckets:   []float64{.00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"view"}),
		RefreshFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_failures_total",
			Help:      "Number of failed collection fetches per view.",
		}, []string{"view"}),
		GuardRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_rejections_total",
			Help:      "Number of requests redirected by the session guard.",
		}, []string{"reason"}),
	}
}

// ObserveRecompute учитывает один пересчёт представления view.
func (m *Metrics) ObserveRecompute(view string, d time.Duration) {
	if m == nil {
		return
	}
	m.Recomputations.WithLabelValues(view).Inc()
	m.RecomputeSeconds.WithLabelValues(view).Observe(d.Seconds())
}

// RefreshFailed учитывает неудачную загрузку коллекции.
func (m *Metrics) RefreshFailed(view string) {
	if m == nil {
		return
	}
	m.RefreshFailures.WithLabelValues(view).Inc()
}

// GuardRejected учитывает отклонённый guard-ом запрос.
func (m *Metrics) GuardRejected(reason string) {
	if m == nil {
		return
	}
	m.GuardRejections.WithLabelValues(reason).Inc()
}
