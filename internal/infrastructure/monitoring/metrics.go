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

	// Capture metrics
	FramesCaptured  prometheus.Counter
	Detections      prometheus.Counter
	CaptureRate     prometheus.Gauge
	CaptureOverruns prometheus.Counter

	// Broadcast metrics
	TicksTotal    prometheus.Counter
	TicksIdle     prometheus.Counter
	SendsTotal    prometheus.Counter
	SendErrors    prometheus.Counter
	TickDuration  prometheus.Histogram
	PayloadSize   prometheus.Histogram
	Subscribers   prometheus.Gauge
	SubscribersIn prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posestream_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "posestream_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		FramesCaptured: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posestream_frames_captured_total",
				Help: "Total number of frames read from the capture source",
			},
		),
		Detections: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posestream_detections_total",
				Help: "Total number of frames with a pose detection",
			},
		),
		CaptureRate: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "posestream_capture_rate_hz",
				Help: "Instantaneous capture loop iteration rate",
			},
		),
		CaptureOverruns: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posestream_capture_overruns_total",
				Help: "Capture iterations that exceeded their pacing budget",
			},
		),

		TicksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posestream_broadcast_ticks_total",
				Help: "Total number of broadcast ticks",
			},
		),
		TicksIdle: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posestream_broadcast_ticks_idle_total",
				Help: "Broadcast ticks skipped (empty mailbox or no detection)",
			},
		),
		SendsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posestream_sends_total",
				Help: "Total number of per-subscriber payload sends",
			},
		),
		SendErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posestream_send_errors_total",
				Help: "Per-subscriber send failures (subscriber dropped)",
			},
		),
		TickDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "posestream_tick_duration_seconds",
				Help:    "Broadcast tick duration including fan-out",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
			},
		),
		PayloadSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "posestream_payload_size_bytes",
				Help:    "Serialized payload size per tick",
				Buckets: []float64{500, 1000, 2500, 5000, 10000, 25000},
			},
		),
		Subscribers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "posestream_subscribers",
				Help: "Number of currently registered subscribers",
			},
		),
		SubscribersIn: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posestream_subscribers_accepted_total",
				Help: "Total number of accepted subscriber connections",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "posestream_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
	}

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
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordFrame records one capture iteration and its measured rate
func (m *Metrics) RecordFrame(rate float64, detected bool) {
	m.FramesCaptured.Inc()
	m.CaptureRate.Set(rate)
	if detected {
		m.Detections.Inc()
	}
}

// RecordTick records one broadcast tick
func (m *Metrics) RecordTick(duration time.Duration, payloadBytes, sends int, idle bool) {
	m.TicksTotal.Inc()
	m.TickDuration.Observe(duration.Seconds())
	if idle {
		m.TicksIdle.Inc()
		return
	}
	m.PayloadSize.Observe(float64(payloadBytes))
	m.SendsTotal.Add(float64(sends))
}
