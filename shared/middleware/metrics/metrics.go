// Package metrics provides Prometheus HTTP metrics middleware and the pipeline counters.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wall_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wall_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// SubmissionsTotal counts intake outcomes: created, invalid, captcha_rejected, persist_failed.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wall_submissions_total",
			Help: "Submission intake attempts by outcome",
		},
		[]string{"outcome"},
	)

	// MediaOpsTotal counts object storage operations by op (upload, remove, sign) and result (ok, error).
	MediaOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wall_media_operations_total",
			Help: "Object storage operations by kind and result",
		},
		[]string{"op", "result"},
	)

	// ModerationTotal counts admin mutations by action.
	ModerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wall_moderation_actions_total",
			Help: "Admin moderation actions by action and result",
		},
		[]string{"action", "result"},
	)
)

// Result is the result label for an operation that returned err.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency, labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{w, http.StatusOK}
		next.ServeHTTP(rec, r)

		path := "unmatched"
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
