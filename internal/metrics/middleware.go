package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// SearchRoute is the JSON submission route; its outcomes are counted apart.
const SearchRoute = "/api/search"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dnamatch",
			Name:      "http_request_duration_seconds",
			Help:      "Web UI request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dnamatch",
			Name:      "http_requests_total",
			Help:      "Total number of web UI requests",
		},
		[]string{"method", "path", "status"},
	)

	searchSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dnamatch",
			Name:      "search_submissions_total",
			Help:      "JSON search submissions by outcome",
		},
		[]string{"outcome"}, // "accepted" / "rejected" / "in_flight" / "error"
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(searchSubmissionsTotal)
}

// Middleware records web UI request duration and count, plus the outcome of
// every JSON search submission.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			// chi route pattern keeps label cardinality bounded
			path := normalizePath(chi.RouteContext(r.Context()).RoutePattern())

			httpRequestDuration.WithLabelValues(r.Method, path, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()

			if r.Method == http.MethodPost && path == SearchRoute {
				searchSubmissionsTotal.WithLabelValues(submissionOutcome(status)).Inc()
			}
		})
	}
}

// normalizePath maps requests that matched no route to one label.
func normalizePath(path string) string {
	if path == "" {
		return "unmatched"
	}
	return path
}

func submissionOutcome(status int) string {
	switch status {
	case http.StatusAccepted:
		return "accepted"
	case http.StatusBadRequest:
		return "rejected"
	case http.StatusConflict:
		return "in_flight"
	default:
		return "error"
	}
}
