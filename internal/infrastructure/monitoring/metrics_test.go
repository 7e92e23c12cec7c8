package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRouterAction("checkout", "ok")
	m.RecordGeneration("reply", "error", time.Second)
	m.RecordNavTransition("touch", "open")
	m.SetCartItems(3)
	m.TaskScheduled()
	m.TaskDone()
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordRouterAction("checkout", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.RouterActions.WithLabelValues("checkout", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RouterActions.WithLabelValues("checkout", "ok")))
}

func TestSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTPRequest("GET", "/api/v1/state", "200", 10*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/ride", "409", 30*time.Millisecond)
	m.RecordGeneration("reply", "error", time.Millisecond)
	m.IncWSConnections()

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)
	assert.Equal(t, int64(1), s.GenerationFailed)
	assert.Equal(t, int64(1), s.ActiveConnections)
	assert.InDelta(t, 20.0, s.AvgLatencyMs, 0.5)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	r := gin.New()
	r.Use(Middleware(m))
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/7", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ping/:id", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "phonesim_http_requests_total")
}
