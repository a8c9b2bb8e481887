package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the petition module. All methods are
// safe on a nil receiver so tests can skip wiring.
type Metrics struct {
	PetitionsCreated     prometheus.Counter
	PetitionsDeleted     prometheus.Counter
	SignaturesRecorded   prometheus.Counter
	DuplicateSignatures  prometheus.Counter
	EnqueueFailures      prometheus.Counter
	SignPetitionDuration prometheus.Histogram
	GetPetitionDuration  prometheus.Histogram
}

// New registers the petition metrics on reg. A nil reg builds unregistered
// collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PetitionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "petitions_created_total",
			Help: "Total number of petitions created",
		}),
		PetitionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "petitions_deleted_total",
			Help: "Total number of petitions deleted",
		}),
		SignaturesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "petitions_signatures_recorded_total",
			Help: "Total number of signatures accepted",
		}),
		DuplicateSignatures: factory.NewCounter(prometheus.CounterOpts{
			Name: "petitions_duplicate_signatures_total",
			Help: "Sign attempts rejected because the email already signed the petition",
		}),
		EnqueueFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "petitions_notification_enqueue_failures_total",
			Help: "Confirmation jobs that could not be queued after a signature was recorded",
		}),
		SignPetitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "petitions_sign_duration_seconds",
			Help:    "Duration of SignPetition operations (signature write path)",
			Buckets: durationBuckets,
		}),
		GetPetitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "petitions_get_duration_seconds",
			Help:    "Duration of GetPetition operations (petition with signatures)",
			Buckets: durationBuckets,
		}),
	}
}

func (m *Metrics) IncrementPetitionsCreated() {
	if m == nil {
		return
	}
	m.PetitionsCreated.Inc()
}

func (m *Metrics) IncrementPetitionsDeleted() {
	if m == nil {
		return
	}
	m.PetitionsDeleted.Inc()
}

func (m *Metrics) IncrementSignaturesRecorded() {
	if m == nil {
		return
	}
	m.SignaturesRecorded.Inc()
}

func (m *Metrics) IncrementDuplicateSignatures() {
	if m == nil {
		return
	}
	m.DuplicateSignatures.Inc()
}

func (m *Metrics) IncrementEnqueueFailures() {
	if m == nil {
		return
	}
	m.EnqueueFailures.Inc()
}

// ObserveSignPetition records the duration of a SignPetition operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSignPetition(start time.Time) {
	if m == nil {
		return
	}
	m.SignPetitionDuration.Observe(time.Since(start).Seconds())
}

// ObserveGetPetition records the duration of a GetPetition operation.
func (m *Metrics) ObserveGetPetition(start time.Time) {
	if m == nil {
		return
	}
	m.GetPetitionDuration.Observe(time.Since(start).Seconds())
}
