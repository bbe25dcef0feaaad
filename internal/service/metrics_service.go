package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// combination engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generationDuration   prometheus.Histogram
	combinationsReturned prometheus.Histogram
	workBudgetExhausted  prometheus.Counter

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewMetricsService registers the core collectors.
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

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "End-to-end duration of timetable generation requests",
		Buckets: prometheus.DefBuckets,
	})

	combinationsReturned := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_combinations_returned",
		Help:    "Combinations surviving filters per generation",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 250, 500, 1000},
	})

	workBudgetExhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_work_budget_exhausted_total",
		Help: "Generations stopped by the work cap before exhausting the search space",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_cache_hits_total",
		Help: "Catalogue cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_cache_misses_total",
		Help: "Catalogue cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generationDuration, combinationsReturned, workBudgetExhausted, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		generationDuration:   generationDuration,
		combinationsReturned: combinationsReturned,
		workBudgetExhausted:  workBudgetExhausted,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveGeneration records one engine invocation.
func (m *MetricsService) ObserveGeneration(duration time.Duration, returned int, workCapHit bool) {
	m.generationDuration.Observe(duration.Seconds())
	m.combinationsReturned.Observe(float64(returned))
	if workCapHit {
		m.workBudgetExhausted.Inc()
	}
}

// RecordCacheOperation counts a catalogue cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, _ time.Duration) {
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}
