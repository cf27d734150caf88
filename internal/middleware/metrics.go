package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application counters.
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	SessionsStarted    uint64
	SessionsCompleted  uint64
	SessionsFailed     uint64
	ReportsSaved       uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

func IncrementSessionsStarted()   { atomic.AddUint64(&globalMetrics.SessionsStarted, 1) }
func IncrementSessionsCompleted() { atomic.AddUint64(&globalMetrics.SessionsCompleted, 1) }
func IncrementSessionsFailed()    { atomic.AddUint64(&globalMetrics.SessionsFailed, 1) }
func IncrementReportsSaved()      { atomic.AddUint64(&globalMetrics.ReportsSaved, 1) }

// MetricsMiddleware tracks request counters.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
		atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
		defer atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode < 500 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler serves the counters as JSON.
func MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		snapshot := map[string]any{
			"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
			"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
			"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
			"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
			"sessions_started":     atomic.LoadUint64(&globalMetrics.SessionsStarted),
			"sessions_completed":   atomic.LoadUint64(&globalMetrics.SessionsCompleted),
			"sessions_failed":      atomic.LoadUint64(&globalMetrics.SessionsFailed),
			"reports_saved":        atomic.LoadUint64(&globalMetrics.ReportsSaved),
			"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
			"goroutines":           runtime.NumGoroutine(),
			"heap_alloc_bytes":     mem.HeapAlloc,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	}
}
