// Package metrics tracks in-process HTTP request metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics tracks request counts, durations, and errors keyed by method+route.
type Metrics struct {
	mu              sync.RWMutex
	requestCount    map[string]int64
	requestDuration map[string]time.Duration
	requestErrors   map[string]int64
	activeRequests  int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		requestDuration: make(map[string]time.Duration),
		requestErrors:   make(map[string]int64),
	}
}

// errorStatusThreshold is the lowest status code counted as an error.
const errorStatusThreshold = 400

// Middleware returns gin middleware that records request metrics.
// Requests are keyed by the matched route pattern, not the raw path, so
// parameterized routes aggregate into one series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mu.Lock()
		m.activeRequests++
		m.mu.Unlock()

		c.Next()

		key := c.Request.Method + " " + c.FullPath()
		duration := time.Since(start)

		m.mu.Lock()
		m.requestCount[key]++
		m.requestDuration[key] += duration
		if c.Writer.Status() >= errorStatusThreshold {
			m.requestErrors[key]++
		}
		m.activeRequests--
		m.mu.Unlock()
	}
}

// RouteStats is the per-route snapshot exposed by the metrics endpoint.
type RouteStats struct {
	Count         int64  `json:"count"`
	Errors        int64  `json:"errors"`
	TotalDuration string `json:"totalDuration"`
}

// Snapshot returns a copy of the current metrics.
func (m *Metrics) Snapshot() (routes map[string]RouteStats, active int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	routes = make(map[string]RouteStats, len(m.requestCount))
	for key, count := range m.requestCount {
		routes[key] = RouteStats{
			Count:         count,
			Errors:        m.requestErrors[key],
			TotalDuration: m.requestDuration[key].String(),
		}
	}
	return routes, m.activeRequests
}

// RequestCount returns the request count for a method and route.
func (m *Metrics) RequestCount(method, route string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount[method+" "+route]
}

// ErrorCount returns the error count for a method and route.
func (m *Metrics) ErrorCount(method, route string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestErrors[method+" "+route]
}
