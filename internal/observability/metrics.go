package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors shared by the campaign runner
// and the events server.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	messagesSentTotal   *prometheus.CounterVec
	recordsSkippedTotal *prometheus.CounterVec
	sendErrorsTotal     *prometheus.CounterVec
	sendDuration        *prometheus.HistogramVec
	inboundEventsTotal  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recall_bridge",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "recall_bridge",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		messagesSentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recall_bridge",
				Name:      "messages_sent_total",
				Help:      "Total number of messages dispatched, by mode.",
			},
			[]string{"mode"},
		),
		recordsSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recall_bridge",
				Name:      "records_skipped_total",
				Help:      "Total number of records classified as skip, by first reason.",
			},
			[]string{"reason"},
		),
		sendErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recall_bridge",
				Name:      "send_errors_total",
				Help:      "Total number of per-record send failures, by kind.",
			},
			[]string{"kind"},
		),
		sendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "recall_bridge",
				Name:      "send_duration_seconds",
				Help:      "Provider send duration in seconds grouped by mode.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"mode"},
		),
		inboundEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recall_bridge",
				Name:      "inbound_events_total",
				Help:      "Total number of provider callback events, by type.",
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.messagesSentTotal,
		m.recordsSkippedTotal,
		m.sendErrorsTotal,
		m.sendDuration,
		m.inboundEventsTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncMessageSent(mode string) {
	if m == nil {
		return
	}
	m.messagesSentTotal.WithLabelValues(normalizeLabel(mode)).Inc()
}

func (m *Metrics) IncRecordSkipped(reason string) {
	if m == nil {
		return
	}
	m.recordsSkippedTotal.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *Metrics) IncSendError(kind string) {
	if m == nil {
		return
	}
	m.sendErrorsTotal.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (m *Metrics) ObserveSendDuration(mode string, duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.sendDuration.WithLabelValues(normalizeLabel(mode)).Observe(seconds)
}

func (m *Metrics) IncInboundEvent(eventType string) {
	if m == nil {
		return
	}
	m.inboundEventsTotal.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeLabel(label string) string {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
