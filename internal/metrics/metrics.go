package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eastwood-fallfest/festmap/internal/registry"
)

const namespace = "festmap"

// StatsSource returns the current statistics of every registry keyed by
// registry name.
type StatsSource func() map[string]registry.Stats

// Metrics exposes application metrics that are safe to scrape via Prometheus.
type Metrics struct {
	registry            *prometheus.Registry
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	captures            *prometheus.CounterVec
	streamClients       prometheus.Gauge
}

// New creates a fresh Metrics registry. When stats is not nil the marker
// gauges are collected from it on every scrape.
func New(stats StatsSource) *Metrics {
	reg := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	captures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dev_captures_total",
		Help:      "Marker positions captured by dragging in dev mode",
	}, []string{"registry"})

	streamClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_clients",
		Help:      "Connected websocket clients",
	})

	reg.MustRegister(httpRequests, httpRequestDuration, captures, streamClients)
	if stats != nil {
		reg.MustRegister(&markerCollector{stats: stats})
	}

	return &Metrics{
		registry:            reg,
		httpRequests:        httpRequests,
		httpRequestDuration: httpRequestDuration,
		captures:            captures,
		streamClients:       streamClients,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

// IncCapture counts one dev mode capture.
func (m *Metrics) IncCapture(registryName string) {
	if m == nil {
		return
	}
	m.captures.WithLabelValues(registryName).Inc()
}

// SetStreamClients records the number of websocket clients.
func (m *Metrics) SetStreamClients(n int) {
	if m == nil {
		return
	}
	m.streamClients.Set(float64(n))
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

var (
	markersTotalDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "markers_total"),
		"Entities held by a registry",
		[]string{"registry"}, nil,
	)
	markersVisibleDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "markers_visible"),
		"Markers currently drawn by a registry",
		[]string{"registry"}, nil,
	)
	markersByTypeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "markers_by_type"),
		"Entities held by a registry per type",
		[]string{"registry", "type"}, nil,
	)
)

// markerCollector reads registry statistics at scrape time.
type markerCollector struct {
	stats StatsSource
}

func (c *markerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- markersTotalDesc
	ch <- markersVisibleDesc
	ch <- markersByTypeDesc
}

func (c *markerCollector) Collect(ch chan<- prometheus.Metric) {
	for name, s := range c.stats() {
		ch <- prometheus.MustNewConstMetric(markersTotalDesc, prometheus.GaugeValue, float64(s.Total), name)
		ch <- prometheus.MustNewConstMetric(markersVisibleDesc, prometheus.GaugeValue, float64(s.Visible), name)

		types := make([]string, 0, len(s.ByType))
		for t := range s.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			ch <- prometheus.MustNewConstMetric(markersByTypeDesc, prometheus.GaugeValue, float64(s.ByType[t]), name, t)
		}
	}
}
