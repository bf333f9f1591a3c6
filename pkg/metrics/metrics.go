// Package metrics exposes Prometheus collectors for seeding runs, the IP
// allow-list, HTTP traffic and the database pool.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/bootstrap"
)

// Ensure Metrics implements bootstrap.Recorder
var _ bootstrap.Recorder = (*Metrics)(nil)

// Metrics owns a private registry and the coresecurity collectors
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	seedRuns        *prometheus.CounterVec
	seedRecords     *prometheus.CounterVec
	accessDenied    prometheus.Counter
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the registry and registers every collector
func New() *Metrics {
	registry := prometheus.NewRegistry()
	seedRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coresecurity_seed_runs_total",
		Help: "Seeding runs by result.",
	}, []string{"result"})
	seedRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coresecurity_seed_records_total",
		Help: "Records created by seeding runs, by entity.",
	}, []string{"entity"})
	accessDenied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coresecurity_access_ip_denied_total",
		Help: "Requests rejected because the client address is not allow-listed.",
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coresecurity_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coresecurity_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	registry.MustRegister(seedRuns, seedRecords, accessDenied, requests, duration)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		seedRuns:        seedRuns,
		seedRecords:     seedRecords,
		accessDenied:    accessDenied,
		requestsTotal:   requests,
		requestDuration: duration,
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveSeed counts a finished seeding run
func (m *Metrics) ObserveSeed(report *bootstrap.Report, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.seedRuns.WithLabelValues("failure").Inc()
		return
	}
	m.seedRuns.WithLabelValues("success").Inc()
	for entity, counts := range report.ByEntity() {
		m.seedRecords.WithLabelValues(entity).Add(float64(counts.Created))
	}
}

// AccessDenied counts one request rejected by the IP allow-list
func (m *Metrics) AccessDenied() {
	if m == nil {
		return
	}
	m.accessDenied.Inc()
}

// Middleware records request count and latency per mux route template
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&rec, r)
		route := routeTemplate(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer exposes the registry for additional collectors
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// CollectDBStats publishes the go_sql_* pool gauges for db under dbName
func (m *Metrics) CollectDBStats(db *sql.DB, dbName string) error {
	if m == nil || db == nil {
		return nil
	}
	return m.Registerer().Register(collectors.NewDBStatsCollector(db, dbName))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unknown"
}
