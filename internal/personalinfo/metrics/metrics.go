package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Save outcomes.
const (
	OutcomeSaved  = "saved"
	OutcomeFailed = "failed"
)

// Metrics provides observability for the personal info module.
// Tracks save outcomes, commit latency and how often reads fall back to defaults.
type Metrics struct {
	Saves          *prometheus.CounterVec
	CommitDuration prometheus.Histogram
	ReadFallbacks  *prometheus.CounterVec
	InvalidEmails  prometheus.Counter
}

// New creates the module metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Saves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "personalinfo_saves_total",
			Help: "Personal info save attempts by outcome",
		}, []string{"outcome"}),
		CommitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "personalinfo_commit_duration_seconds",
			Help:    "Duration of backend commits for personal info",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ReadFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "personalinfo_read_fallbacks_total",
			Help: "Fields synthesised from defaults on read, by field",
		}, []string{"field"}),
		InvalidEmails: factory.NewCounter(prometheus.CounterOpts{
			Name: "personalinfo_invalid_email_rejections_total",
			Help: "Saves refused because the email failed validation",
		}),
	}
}

// RecordSave counts one save attempt.
func (m *Metrics) RecordSave(ok bool) {
	outcome := OutcomeSaved
	if !ok {
		outcome = OutcomeFailed
	}
	m.Saves.WithLabelValues(outcome).Inc()
}

// ObserveCommit records the duration of a backend commit.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCommit(start time.Time) {
	m.CommitDuration.Observe(time.Since(start).Seconds())
}

// RecordFallback counts a field that was defaulted on read.
func (m *Metrics) RecordFallback(field string) {
	m.ReadFallbacks.WithLabelValues(field).Inc()
}

// IncrementInvalidEmail counts a save refused by validation.
func (m *Metrics) IncrementInvalidEmail() {
	m.InvalidEmails.Inc()
}
