// Package prometheus records docframe service and HTTP metrics with the
// Prometheus client library.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/docframe"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "docframe"

// Metrics holds the collectors shared by the decorators in this package.
type Metrics struct {
	reg *prom.Registry

	operations        *prom.CounterVec
	operationDuration *prom.HistogramVec
	iconsGenerated    prom.Counter
	requests          *prom.CounterVec
	requestDuration   *prom.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// gets a fresh registry.
func NewMetrics(reg *prom.Registry) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		operations: factory.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Service operations by name and error code",
		}, []string{"operation", "code"}),
		operationDuration: factory.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
		iconsGenerated: factory.NewCounter(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "icons_generated_total",
			Help:      "Number of times icon assets were regenerated",
		}),
		requests: factory.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status",
		}, []string{"method", "status"}),
		requestDuration: factory.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prom.DefBuckets,
		}, []string{"method"}),
	}
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prom.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Middleware counts and times HTTP requests. Paths are not used as labels to
// keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		m.requests.WithLabelValues(r.Method, strconv.Itoa(rw.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method).Observe(time.Since(begin).Seconds())
	})
}

func (m *Metrics) observe(op string, begin time.Time, err error) {
	code := "ok"
	if err != nil {
		code = docframe.ErrorCode(err)
	}
	m.operations.WithLabelValues(op, code).Inc()
	m.operationDuration.WithLabelValues(op).Observe(time.Since(begin).Seconds())
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
