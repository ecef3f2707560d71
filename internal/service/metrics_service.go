package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/lms-student-client/internal/dto"
)

const metricsNamespace = "lms_client"

// MetricsService holds the client's Prometheus collectors.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	chatPolls       *prometheus.CounterVec

	requestCount         uint64
	requestFailures      uint64
	requestDurationTotal uint64
	pollCount            uint64
	pollFailures         uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of backend requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "Total number of backend requests",
	}, []string{"method", "route", "status"})

	chatPolls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "chat_polls_total",
		Help:      "Background chat refreshes by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines_total",
		Help:      "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, chatPolls, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		chatPolls:       chatPolls,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one backend call. Status 0 means the request
// never got a response.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, route, label).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, label).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
	if status == 0 || status >= http.StatusBadRequest {
		atomic.AddUint64(&m.requestFailures, 1)
	}
}

// ObserveChatPoll counts a background chat refresh.
func (m *MetricsService) ObserveChatPoll(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
		atomic.AddUint64(&m.pollFailures, 1)
	}
	m.chatPolls.WithLabelValues(outcome).Inc()
	atomic.AddUint64(&m.pollCount, 1)
}

// Snapshot returns the counters aggregated since start.
func (m *MetricsService) Snapshot() dto.ClientMetrics {
	if m == nil {
		return dto.ClientMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	total := atomic.LoadUint64(&m.requestDurationTotal)

	var avgMs float64
	if requests > 0 {
		avgMs = float64(total) / float64(requests) / float64(time.Millisecond)
	}
	return dto.ClientMetrics{
		RequestsTotal:            requests,
		RequestFailures:          atomic.LoadUint64(&m.requestFailures),
		AverageRequestDurationMs: avgMs,
		ChatPolls:                atomic.LoadUint64(&m.pollCount),
		ChatPollFailures:         atomic.LoadUint64(&m.pollFailures),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
