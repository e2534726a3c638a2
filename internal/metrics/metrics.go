package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheHitsTotal counts classifications served from the result cache.
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "judol_cache_hits_total",
			Help: "Total number of classifications served from the result cache.",
		},
	)

	// KeywordHitsTotal counts classifications served from the learned
	// keyword index without a provider call.
	KeywordHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "judol_keyword_hits_total",
			Help: "Total number of classifications served from the learned keyword index.",
		},
	)

	// ProviderCallsTotal counts outbound provider invocations by outcome.
	ProviderCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judol_provider_calls_total",
			Help: "Total number of provider classification calls by outcome.",
		},
		[]string{"outcome"},
	)

	// CacheErrorsTotal counts degraded cache operations that were
	// absorbed as misses.
	CacheErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "judol_cache_errors_total",
			Help: "Total number of cache backend failures treated as misses.",
		},
	)

	// ClassifyLatencySeconds observes end-to-end pipeline latency.
	ClassifyLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "judol_classify_latency_seconds",
			Help:    "End-to-end classification latency in seconds.",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	// HTTPLatencySeconds observes HTTP request latency per route.
	HTTPLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "judol_http_latency_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"path", "method", "status_code"},
	)
)

// Register is called once in main() to register collectors.
func Register() {
	prometheus.MustRegister(
		CacheHitsTotal,
		KeywordHitsTotal,
		ProviderCallsTotal,
		CacheErrorsTotal,
		ClassifyLatencySeconds,
		HTTPLatencySeconds,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware measures HTTP latency for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		HTTPLatencySeconds.
			WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
