package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestReconcilerMetrics(t *testing.T) {
	m := NewReconcilerMetrics(prometheus.NewRegistry())

	m.ObservePass("reminder", nil, 2*time.Second)
	m.ObservePass("reminder", errors.New("db down"), time.Second)
	m.RecordItem("reminder", "notified")
	m.RecordItem("reminder", "notified")
	m.RecordItem("expiration", "skipped")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.passRuns.WithLabelValues("reminder", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.passRuns.WithLabelValues("reminder", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.items.WithLabelValues("reminder", "notified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.items.WithLabelValues("expiration", "skipped")))
	assert.Greater(t, testutil.ToFloat64(m.lastSuccess.WithLabelValues("reminder")), 0.0)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.lastSuccess.WithLabelValues("expiration")))
}

func TestGetReconcilerMetrics_Singleton(t *testing.T) {
	assert.Same(t, GetReconcilerMetrics(), GetReconcilerMetrics())
}
