package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSubmission("ok")
	m.ObserveSubmission("ALREADY_SUBMITTED")
	m.ObserveSubmission("ok")
	m.ObserveResults(true, 0)
	m.ObserveResults(false, 2)
	m.ObserveGRPC("/crush.MatchService/GetStatus", "OK", 5*time.Millisecond)
	m.ObserveHTTP("/api/match/status/:userId", "200", time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("ALREADY_SUBMITTED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.results.WithLabelValues(ResultsLocked)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.results.WithLabelValues(ResultsRevealed)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.matchesFound))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.grpcRequests.WithLabelValues("/crush.MatchService/GetStatus", "OK")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["crush_request_duration_seconds"])
	assert.True(t, names["crush_http_requests_total"])
}

func TestMetrics_RegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	assert.NotPanics(t, func() { m.Register(reg) })
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSubmission("ok")
		m.ObserveResults(false, 1)
		m.ObserveGRPC("m", "OK", time.Second)
		m.ObserveHTTP("r", "200", time.Second)
	})

	unregistered := &Metrics{}
	assert.NotPanics(t, func() { unregistered.ObserveSubmission("ok") })
}
