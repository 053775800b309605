package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eastwood-fallfest/festmap/internal/registry"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveHTTPRequest(t *testing.T) {
	m := New(nil)
	m.ObserveHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, 5*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/healthz", "200")))
	assert.Contains(t, scrape(t, m), "festmap_http_request_duration_seconds_bucket")
}

func TestMarkerCollector(t *testing.T) {
	stats := map[string]registry.Stats{
		"vendors": {Total: 5, Visible: 3, ByType: map[string]int{"vendor": 3, "activity": 1, "amenity": 1}},
	}
	m := New(func() map[string]registry.Stats { return stats })

	body := scrape(t, m)
	assert.Contains(t, body, `festmap_markers_total{registry="vendors"} 5`)
	assert.Contains(t, body, `festmap_markers_visible{registry="vendors"} 3`)
	assert.Contains(t, body, `festmap_markers_by_type{registry="vendors",type="activity"} 1`)

	stats["vendors"] = registry.Stats{Total: 6, Visible: 6}
	assert.Contains(t, scrape(t, m), `festmap_markers_visible{registry="vendors"} 6`)
}

func TestCapturesAndClients(t *testing.T) {
	m := New(nil)
	m.IncCapture("vendors")
	m.SetStreamClients(4)

	body := scrape(t, m)
	assert.Contains(t, body, `festmap_dev_captures_total{registry="vendors"} 1`)
	assert.Contains(t, body, "festmap_stream_clients 4")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveHTTPRequest("GET", "/", 200, time.Second)
	m.IncCapture("vendors")
	m.SetStreamClients(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "metrics unavailable"))
}
