package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores request counters for one server instance.
type Metrics struct {
	requestsTotal      atomic.Uint64
	requestsInProgress atomic.Int64
	requestsSuccess    atomic.Uint64
	requestsFailed     atomic.Uint64
	rateLimited        atomic.Uint64
	startTime          time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]any {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]any{
		"requests_total":        m.requestsTotal.Load(),
		"requests_in_progress":  m.requestsInProgress.Load(),
		"requests_success":      m.requestsSuccess.Load(),
		"requests_failed":       m.requestsFailed.Load(),
		"requests_rate_limited": m.rateLimited.Load(),
		"uptime_seconds":        time.Since(m.startTime).Seconds(),
		"memory": map[string]any{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsTotal.Add(1)
		m.requestsInProgress.Add(1)
		defer m.requestsInProgress.Add(-1)

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		switch {
		case wrapped.statusCode == http.StatusTooManyRequests:
			m.rateLimited.Add(1)
			m.requestsFailed.Add(1)
		case wrapped.statusCode >= 200 && wrapped.statusCode < 400:
			m.requestsSuccess.Add(1)
		default:
			m.requestsFailed.Add(1)
		}
	})
}

// Handler returns the snapshot as JSON, merged with the sections from extra.
func (m *Metrics) Handler(extra func() map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := m.Snapshot()
		if extra != nil {
			for k, v := range extra() {
				out[k] = v
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}
