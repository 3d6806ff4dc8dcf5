package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ProfilesCompleted   prometheus.Counter
	WizardSubmissions   *prometheus.CounterVec
	ArticlesServed      prometheus.Counter
	SearchQueries       prometheus.Counter
	ModerationDecisions *prometheus.CounterVec
	RequestLatency      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ProfilesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "quire_profiles_completed_total",
			Help: "Total number of profiles completed through the wizard",
		}),
		WizardSubmissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "quire_wizard_submissions_total",
			Help: "Wizard submission attempts by outcome",
		}, []string{"outcome"}),
		ArticlesServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "quire_articles_served_total",
			Help: "Total number of article detail views served",
		}),
		SearchQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "quire_search_queries_total",
			Help: "Total number of article search queries",
		}),
		ModerationDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "quire_moderation_decisions_total",
			Help: "Moderation decisions by verdict",
		}, []string{"verdict"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quire_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveLatency records a request duration for the given route.
func (m *Metrics) ObserveLatency(route string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route).Observe(seconds)
}
