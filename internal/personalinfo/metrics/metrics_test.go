package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordSave(true)
	m.RecordSave(true)
	m.RecordSave(false)
	m.RecordFallback("email")
	m.IncrementInvalidEmail()
	m.ObserveCommit(time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Saves.WithLabelValues(OutcomeSaved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Saves.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadFallbacks.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvalidEmails))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CommitDuration))
}

func TestNew_SeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
