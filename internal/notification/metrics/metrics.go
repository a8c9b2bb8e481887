package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks confirmation email dispatch. Nil-safe.
type Metrics struct {
	Outcomes     *prometheus.CounterVec
	SendDuration prometheus.Histogram
	InFlight     prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petitions_notifications_total",
			Help: "Confirmation email attempts by outcome status",
		}, []string{"status"}),
		SendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "petitions_notification_send_duration_seconds",
			Help:    "Time spent on one confirmation attempt, lookup included",
			Buckets: prometheus.DefBuckets,
		}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "petitions_notifications_in_flight",
			Help: "Confirmation jobs currently being processed",
		}),
	}
}

func (m *Metrics) ObserveOutcome(status string, start time.Time) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(status).Inc()
	m.SendDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.InFlight.Inc()
}

func (m *Metrics) JobFinished() {
	if m == nil {
		return
	}
	m.InFlight.Dec()
}
