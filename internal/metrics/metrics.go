package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TransportGRPC = "grpc"
	TransportHTTP = "http"

	ResultsLocked   = "locked"
	ResultsRevealed = "revealed"
)

// Metrics holds the service counters. The zero value and a nil pointer are
// both usable and record nothing until Register is called.
type Metrics struct {
	submissions     *prometheus.CounterVec
	results         *prometheus.CounterVec
	matchesFound    prometheus.Counter
	grpcRequests    *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	registerOnce sync.Once
}

// New returns Metrics registered on registry.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{}
	m.Register(registry)
	return m
}

// Register registers the collectors with registry. Nil registry is a no-op;
// calls after the first registration are no-ops.
func (m *Metrics) Register(registry prometheus.Registerer) {
	if registry == nil {
		return
	}

	m.registerOnce.Do(func() {
		factory := promauto.With(registry)

		m.submissions = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crush_submissions_total",
			Help: "Preference submissions by result",
		}, []string{"result"})

		m.results = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crush_results_total",
			Help: "Result reads by outcome (locked or revealed)",
		}, []string{"outcome"})

		m.matchesFound = factory.NewCounter(prometheus.CounterOpts{
			Name: "crush_matches_found_total",
			Help: "Mutual matches returned by revealed result reads",
		})

		m.grpcRequests = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crush_grpc_requests_total",
			Help: "gRPC requests by method and status code",
		}, []string{"method", "code"})

		m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crush_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "status"})

		m.requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crush_request_duration_seconds",
			Help:    "Request latency by transport",
			Buckets: prometheus.DefBuckets,
		}, []string{"transport"})
	})
}

// ObserveSubmission counts a submission attempt; result is "ok" or an
// error code such as "ALREADY_SUBMITTED".
func (m *Metrics) ObserveSubmission(result string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// ObserveResults counts a result read and the matches it revealed.
func (m *Metrics) ObserveResults(locked bool, matches int) {
	if m == nil || m.results == nil {
		return
	}
	if locked {
		m.results.WithLabelValues(ResultsLocked).Inc()
		return
	}
	m.results.WithLabelValues(ResultsRevealed).Inc()
	m.matchesFound.Add(float64(matches))
}

func (m *Metrics) ObserveGRPC(method, code string, elapsed time.Duration) {
	if m == nil || m.grpcRequests == nil {
		return
	}
	m.grpcRequests.WithLabelValues(method, code).Inc()
	m.requestDuration.WithLabelValues(TransportGRPC).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTP(route, status string, elapsed time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, status).Inc()
	m.requestDuration.WithLabelValues(TransportHTTP).Observe(elapsed.Seconds())
}
