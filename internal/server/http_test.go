package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/philly/snapgram/internal/adapters/metrics"
	"github.com/philly/snapgram/internal/server"
	"github.com/philly/snapgram/internal/testutil/memstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routeLabels(t *testing.T, reg *prometheus.Registry) []map[string]string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var labels []map[string]string
	for _, family := range families {
		if family.GetName() != "snapgram_http_request_duration_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			set := map[string]string{}
			for _, pair := range metric.GetLabel() {
				set[pair.GetName()] = pair.GetValue()
			}
			labels = append(labels, set)
		}
	}
	return labels
}

func TestObservabilityRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(server.Observability(m, memstore.Logger()))
	r.Get("/posts/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/posts/1", "/posts/2", "/ok"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPDuration))
	assert.ElementsMatch(t, []map[string]string{
		{"method": "GET", "route": "/posts/{id}", "status": "404"},
		{"method": "GET", "route": "/ok", "status": "200"},
	}, routeLabels(t, reg))
}

func TestObservabilityUnmatchedRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(server.Observability(m, memstore.Logger()))
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere/at/all", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []map[string]string{
		{"method": "GET", "route": "unmatched", "status": "404"},
	}, routeLabels(t, reg))
}
