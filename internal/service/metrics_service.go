package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/homework-tracker-api/internal/models"
)

// MetricsService owns the Prometheus registry of the process.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	notifications   *prometheus.CounterVec
	sendDuration    prometheus.Observer
	reminderRuns    *prometheus.CounterVec
	expired         prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
	sentCount      uint64
	failedCount    uint64
}

// MetricsSnapshot is a JSON friendly summary of the counters.
type MetricsSnapshot struct {
	CacheHits         uint64    `json:"cacheHits"`
	CacheMisses       uint64    `json:"cacheMisses"`
	NotificationsSent uint64    `json:"notificationsSent"`
	NotificationsFail uint64    `json:"notificationsFailed"`
	Goroutines        int       `json:"goroutines"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Notification deliveries by kind and outcome",
	}, []string{"kind", "outcome"})

	sendDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "notification_send_duration_seconds",
		Help:    "Duration of a single notification dispatch",
		Buckets: prometheus.DefBuckets,
	})

	reminderRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_runs_total",
		Help: "Reminder job runs by trigger and final state",
	}, []string{"trigger", "status"})

	expired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "homeworks_expired_total",
		Help: "Homeworks removed by the expiry sweeper",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses,
		notifications, sendDuration, reminderRuns, expired, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		notifications:   notifications,
		sendDuration:    sendDuration,
		reminderRuns:    reminderRuns,
		expired:         expired,
	}
}

// Registry exposes the registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
		return
	}
	m.cacheMisses.Inc()
	atomic.AddUint64(&m.cacheMissCount, 1)
}

// RecordDelivery counts one dispatch outcome.
func (m *MetricsService) RecordDelivery(kind models.NotificationKind, outcome models.DeliveryOutcome) {
	if m == nil {
		return
	}
	label := "sent"
	if !outcome.Sent {
		label = "failed"
		atomic.AddUint64(&m.failedCount, 1)
	} else {
		atomic.AddUint64(&m.sentCount, 1)
	}
	m.notifications.WithLabelValues(string(kind), label).Inc()
	m.sendDuration.Observe(outcome.Duration.Seconds())
}

// RecordReminderRun counts a finished run.
func (m *MetricsService) RecordReminderRun(trigger string, state models.RunState) {
	if m == nil {
		return
	}
	m.reminderRuns.WithLabelValues(trigger, string(state)).Inc()
}

// RecordExpired adds swept homeworks.
func (m *MetricsService) RecordExpired(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.expired.Add(float64(count))
}

// Snapshot returns the aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		CacheHits:         atomic.LoadUint64(&m.cacheHitCount),
		CacheMisses:       atomic.LoadUint64(&m.cacheMissCount),
		NotificationsSent: atomic.LoadUint64(&m.sentCount),
		NotificationsFail: atomic.LoadUint64(&m.failedCount),
		Goroutines:        runtime.NumGoroutine(),
		GeneratedAt:       time.Now().UTC(),
	}
}
