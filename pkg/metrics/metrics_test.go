package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/bootstrap"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestObserveSeed(t *testing.T) {
	m := New()

	m.ObserveSeed(&bootstrap.Report{
		Roles:     bootstrap.Counts{Created: 5},
		Resources: bootstrap.Counts{Created: 6, Existing: 1},
		AccessIPs: bootstrap.Counts{Created: 1},
	}, nil)
	m.ObserveSeed(nil, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.seedRuns.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.seedRuns.WithLabelValues("failure")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.seedRecords.WithLabelValues(bootstrap.EntityRole)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.seedRecords.WithLabelValues(bootstrap.EntityResource)))

	body := scrape(t, m)
	assert.Contains(t, body, `coresecurity_seed_runs_total{result="success"} 1`)
	assert.Contains(t, body, `coresecurity_seed_records_total{entity="access_ip"} 1`)
}

func TestAccessDenied(t *testing.T) {
	m := New()
	m.AccessDenied()
	m.AccessDenied()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.accessDenied))
	assert.Contains(t, scrape(t, m), "coresecurity_access_ip_denied_total 2")
}

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	m := New()

	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/roles/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/roles/ROLE_ADMIN", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, m)
	assert.True(t, strings.Contains(body, `coresecurity_http_requests_total{code="418",route="/roles/{name}"} 1`), body)
	assert.Contains(t, body, `coresecurity_http_request_duration_seconds_bucket{route="/roles/{name}"`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	m.ObserveSeed(nil, nil)
	m.AccessDenied()
	assert.NoError(t, m.CollectDBStats(nil, "coresecurity"))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, m.Middleware(next))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCollectDBStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := New()
	require.NoError(t, m.CollectDBStats(db, "coresecurity"))

	body := scrape(t, m)
	assert.Contains(t, body, `go_sql_open_connections{db_name="coresecurity"}`)
	assert.Contains(t, body, `go_sql_max_open_connections{db_name="coresecurity"}`)

	err = m.CollectDBStats(db, "coresecurity")
	var already prometheus.AlreadyRegisteredError
	assert.True(t, errors.As(err, &already), "second registration should be rejected, got %v", err)
}
