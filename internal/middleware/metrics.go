package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circle360_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "circle360_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Metrics records per-request counters and latency
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		route := routeLabel(r.URL.Path)

		timer := prometheus.NewTimer(requestDuration.WithLabelValues(r.Method, route))
		next.ServeHTTP(wrapped, r)
		timer.ObserveDuration()

		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

// routeLabel collapses path parameters so label cardinality stays bounded.
func routeLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch parts[0] {
	case "user":
		if len(parts) == 1 {
			return "/user"
		}
		switch parts[1] {
		case "all":
			return "/user/all/{limit}"
		case "many":
			return "/user/many"
		case "upsert":
			return "/user/upsert"
		case "group":
			if len(parts) > 2 && parts[2] == "all" {
				return "/user/group/all"
			}
			return "/user/group/{groupID}"
		}
	case "group":
		if len(parts) == 1 {
			return "/group"
		}
		switch parts[1] {
		case "all":
			return "/group/all/{limit}"
		case "user":
			return "/group/user/{groupCode}"
		default:
			return "/group/{groupCode}"
		}
	case "", "healthz", "metrics":
		return path
	}
	return "other"
}
