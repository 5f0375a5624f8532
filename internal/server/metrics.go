package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iwvelando/coop-loan-preview/pkg/amortization"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Schedule outcomes recorded by the schedules counter.
const (
	outcomeAmortized = "amortized"
	outcomeTruncated = "truncated"
	outcomeEmpty     = "empty"
)

type metrics struct {
	registry  *prometheus.Registry
	schedules *prometheus.CounterVec
	periods   prometheus.Histogram
	requests  *prometheus.HistogramVec
}

// newMetrics registers collectors on a private registry so several handlers
// can coexist in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loan_preview",
			Name:      "schedules_generated_total",
			Help:      "Repayment schedules generated, by outcome.",
		}, []string{"outcome"}),
		periods: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "loan_preview",
			Name:      "schedule_periods",
			Help:      "Number of periods in generated schedules.",
			Buckets:   []float64{1, 3, 6, 12, 18, 24, 36, 60, 120, 240, 360},
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loan_preview",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
	m.registry.MustRegister(m.schedules, m.periods, m.requests)
	return m
}

func (m *metrics) observeSchedule(s amortization.Schedule) {
	outcome := outcomeAmortized
	switch {
	case s.Empty():
		outcome = outcomeEmpty
	case s.Truncated():
		outcome = outcomeTruncated
	}
	m.schedules.WithLabelValues(outcome).Inc()
	if !s.Empty() {
		m.periods.Observe(float64(s.PeriodCount()))
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (m *metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Observe(time.Since(start).Seconds())
	}
}
