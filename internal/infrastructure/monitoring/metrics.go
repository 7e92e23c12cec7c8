package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. Every recorder is safe on a nil
// receiver so domain packages can run without a collector in tests.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Router metrics
	RouterActions   *prometheus.CounterVec
	RideTransitions *prometheus.CounterVec
	StaleTasks      *prometheus.CounterVec
	PendingTasks    prometheus.Gauge

	// Generation metrics
	GenerationCalls    *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec

	// Navigation metrics
	NavTransitions *prometheus.CounterVec

	// Store gauges
	InstalledApps prometheus.Gauge
	CartItems     prometheus.Gauge

	// Change stream metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current values for the JSON stats endpoint
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	RouterActions     int64   `json:"router_actions"`
	GenerationFailed  int64   `json:"generation_failed"`
	ActiveConnections int64   `json:"active_connections"`
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phonesim_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phonesim_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),

		RouterActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phonesim_router_actions_total",
				Help: "Cross-app rule invocations by outcome",
			},
			[]string{"rule", "outcome"},
		),
		RideTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phonesim_ride_transitions_total",
				Help: "Ride status transitions",
			},
			[]string{"from", "to"},
		),
		StaleTasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phonesim_router_stale_tasks_total",
				Help: "Async results discarded because state moved on",
			},
			[]string{"task"},
		),
		PendingTasks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "phonesim_router_pending_tasks",
				Help: "Scheduled async tasks not yet finished",
			},
		),

		GenerationCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phonesim_generation_calls_total",
				Help: "Reply and image generation calls by outcome",
			},
			[]string{"kind", "outcome"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phonesim_generation_duration_seconds",
				Help:    "Generation call latency in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"kind"},
		),

		NavTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phonesim_nav_transitions_total",
				Help: "Navigation state changes per skin",
			},
			[]string{"skin", "action"},
		),

		InstalledApps: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "phonesim_installed_apps",
				Help: "Number of installed optional apps",
			},
		),
		CartItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "phonesim_cart_items",
				Help: "Items waiting in the shopping cart",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "phonesim_ws_connections",
				Help: "Open change-stream connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phonesim_ws_messages_total",
				Help: "Change-stream frames by direction",
			},
			[]string{"direction", "kind"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "phonesim_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordRouterAction records one rule invocation
func (m *Metrics) RecordRouterAction(rule, outcome string) {
	if m == nil {
		return
	}
	m.RouterActions.WithLabelValues(rule, outcome).Inc()
	m.mu.Lock()
	m.snapshot.RouterActions++
	m.mu.Unlock()
}

// RecordRideTransition records a ride status change
func (m *Metrics) RecordRideTransition(from, to string) {
	if m == nil {
		return
	}
	m.RideTransitions.WithLabelValues(from, to).Inc()
}

// RecordStaleTask records an async result dropped by a relevance check
func (m *Metrics) RecordStaleTask(task string) {
	if m == nil {
		return
	}
	m.StaleTasks.WithLabelValues(task).Inc()
}

// TaskScheduled and TaskDone track the router's in-flight work
func (m *Metrics) TaskScheduled() {
	if m == nil {
		return
	}
	m.PendingTasks.Inc()
}

func (m *Metrics) TaskDone() {
	if m == nil {
		return
	}
	m.PendingTasks.Dec()
}

// RecordGeneration records a generation call
func (m *Metrics) RecordGeneration(kind, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GenerationCalls.WithLabelValues(kind, outcome).Inc()
	m.GenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if outcome != "success" {
		m.mu.Lock()
		m.snapshot.GenerationFailed++
		m.mu.Unlock()
	}
}

// RecordNavTransition records a navigation state change
func (m *Metrics) RecordNavTransition(skin, action string) {
	if m == nil {
		return
	}
	m.NavTransitions.WithLabelValues(skin, action).Inc()
}

// SetInstalledApps sets the installed apps gauge
func (m *Metrics) SetInstalledApps(count int) {
	if m == nil {
		return
	}
	m.InstalledApps.Set(float64(count))
}

// SetCartItems sets the cart size gauge
func (m *Metrics) SetCartItems(count int) {
	if m == nil {
		return
	}
	m.CartItems.Set(float64(count))
}

// RecordWSMessage records a change-stream frame
func (m *Metrics) RecordWSMessage(direction, kind string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, kind).Inc()
}

// IncWSConnections increments open stream connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements open stream connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON stats endpoint
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMs = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
