package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Provider metrics
	ProviderCalls    *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	ProviderErrors   *prometheus.CounterVec
	ProviderTokens   *prometheus.CounterVec

	// Orchestration metrics
	RepliesTotal    *prometheus.CounterVec
	ImagesGenerated prometheus.Counter
	Degradations    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Provider metrics
		ProviderCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_provider_calls_total",
				Help: "Total number of upstream provider calls",
			},
			[]string{"provider", "operation", "status"},
		),
		ProviderDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_provider_duration_seconds",
				Help:    "Upstream provider call duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider", "operation"},
		),
		ProviderErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_provider_errors_total",
				Help: "Total number of upstream provider errors",
			},
			[]string{"provider", "operation", "kind"},
		),
		ProviderTokens: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_provider_tokens_total",
				Help: "Tokens consumed by upstream provider calls",
			},
			[]string{"provider", "type"},
		),

		// Orchestration metrics
		RepliesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_replies_total",
				Help: "Total number of assembled chat replies",
			},
			[]string{"path", "status"},
		),
		ImagesGenerated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "studio_images_generated_total",
				Help: "Total number of successfully generated images",
			},
		),
		Degradations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_degradations_total",
				Help: "Optional orchestration steps that failed and were skipped",
			},
			[]string{"step"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "studio_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordProviderCall records an upstream provider call
func (m *Metrics) RecordProviderCall(provider, operation, status string, duration time.Duration) {
	m.ProviderCalls.WithLabelValues(provider, operation, status).Inc()
	m.ProviderDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordProviderError records an upstream provider error
func (m *Metrics) RecordProviderError(provider, operation, kind string) {
	m.ProviderErrors.WithLabelValues(provider, operation, kind).Inc()
}

// RecordTokens records token usage reported by a provider
func (m *Metrics) RecordTokens(provider string, prompt, completion int) {
	if prompt > 0 {
		m.ProviderTokens.WithLabelValues(provider, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		m.ProviderTokens.WithLabelValues(provider, "completion").Add(float64(completion))
	}
}

// RecordReply records an assembled chat reply
func (m *Metrics) RecordReply(path, status string) {
	m.RepliesTotal.WithLabelValues(path, status).Inc()
}

// RecordDegradation records an optional step that failed and was skipped
func (m *Metrics) RecordDegradation(step string) {
	m.Degradations.WithLabelValues(step).Inc()
}

// IncImagesGenerated increments the generated image counter
func (m *Metrics) IncImagesGenerated() {
	m.ImagesGenerated.Inc()
}
