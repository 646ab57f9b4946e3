package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadBytes         *prometheus.HistogramVec
	classificationTotal *prometheus.CounterVec
	exportTotal         *prometheus.CounterVec
	exportDuration      *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onecore",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onecore",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "onecore",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onecore",
			Subsystem: "documents",
			Name:      "upload_bytes",
			Help:      "Distribution of uploaded document sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"service"},
	)
	classificationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onecore",
			Subsystem: "classifier",
			Name:      "classifications_total",
			Help:      "Total classification decisions by label and fired rule.",
		},
		[]string{"service", "label", "rule"},
	)
	exportTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onecore",
			Subsystem: "history",
			Name:      "exports_total",
			Help:      "Total history spreadsheet exports by status.",
		},
		[]string{"service", "status"},
	)
	exportDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onecore",
			Subsystem: "history",
			Name:      "export_duration_seconds",
			Help:      "History spreadsheet export duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadBytes,
		classificationTotal,
		exportTotal,
		exportDuration,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		uploadBytes:         uploadBytes,
		classificationTotal: classificationTotal,
		exportTotal:         exportTotal,
		exportDuration:      exportDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/files/"):
		return "/v1/files/{file_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUploadSize(service string, bytes int64) {
	if bytes < 0 {
		return
	}
	m.uploadBytes.WithLabelValues(service).Observe(float64(bytes))
}

func (m *HTTPServerMetrics) RecordClassification(service, label string, rule int) {
	if label == "" {
		label = "unknown"
	}
	m.classificationTotal.WithLabelValues(service, label, strconv.Itoa(rule)).Inc()
}

func (m *HTTPServerMetrics) RecordExport(service string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.exportTotal.WithLabelValues(service, status).Inc()
	if err == nil {
		m.exportDuration.WithLabelValues(service).Observe(duration.Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
