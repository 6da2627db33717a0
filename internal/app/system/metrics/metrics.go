// Package metrics defines the Prometheus collectors for the catalog.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LinksCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "linkcatalog", Name: "links_created_total", Help: "Links created, by mode."},
		[]string{"mode"},
	)
	LinkDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "linkcatalog", Name: "link_duplicates_total", Help: "Create or edit attempts rejected as duplicate URLs."},
	)
	LinksDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "linkcatalog", Name: "links_deleted_total", Help: "Links deleted."},
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "linkcatalog", Name: "logins_total", Help: "Admin login attempts, by result."},
		[]string{"result"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "linkcatalog", Name: "http_requests_total", Help: "HTTP requests, by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "linkcatalog", Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
)

// Login results.
const (
	LoginSuccess     = "success"
	LoginFailed      = "failed"
	LoginRateLimited = "rate_limited"
)

// RegisterCollectors registers every collector with reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LinksCreated, LinkDuplicates, LinksDeleted, Logins, HTTPRequests, HTTPDuration)
}

// Handler serves the exposition format for reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests and observes latency. The route label is the
// chi route pattern so ids do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
