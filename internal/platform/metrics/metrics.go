package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the registry.
type Metrics struct {
	Transitions  *prometheus.CounterVec
	RewardsPaid  prometheus.Counter
	RewardAmount prometheus.Histogram
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "recrusearch_transitions_total",
			Help: "Transitions processed, labeled by name and outcome",
		}, []string{"transition", "outcome"}),
		RewardsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "recrusearch_rewards_paid_total",
			Help: "Total number of study rewards paid out",
		}),
		RewardAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "recrusearch_reward_amount",
			Help:    "Distribution of paid reward amounts",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6),
		}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recrusearch_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveTransition records a transition outcome. Nil-safe so services can
// run without metrics in tests.
func (m *Metrics) ObserveTransition(name string, err error) {
	if m == nil {
		return
	}
	outcome := "committed"
	if err != nil {
		outcome = "rejected"
	}
	m.Transitions.WithLabelValues(name, outcome).Inc()
}

// ObserveReward records a paid reward.
func (m *Metrics) ObserveReward(amount uint64) {
	if m == nil {
		return
	}
	m.RewardsPaid.Inc()
	m.RewardAmount.Observe(float64(amount))
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
}
