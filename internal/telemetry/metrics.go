package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Conversion results recorded in Conversions.
const (
	ResultOK          = "ok"
	ResultMalformed   = "malformed"
	ResultRenderError = "render_error"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	Conversions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trigger_point_conversions_total",
			Help: "Trigger point documents processed, by result",
		},
		[]string{"result"},
	)
	DocumentConditions = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trigger_point_conditions",
		Help:    "Number of SPT conditions per successfully parsed document",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	})
	DocumentGroups = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trigger_point_groups",
		Help:    "Number of distinct groups per successfully parsed document",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
	})
)

var initOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(httpReqs, httpDur, Conversions, DocumentConditions, DocumentGroups)
	})
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		// the route pattern is only complete once routing has finished
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
