package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	promcl "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/notesbox/internal/telemetry/metrics"
)

func TestRequestMetrics(t *testing.T) {
	metricsManager, registry := metrics.NewTestManagerAndRegistry()

	r := mux.NewRouter()
	r.HandleFunc("/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET").Name("get-note")
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
	r.Use(RequestMetrics(metricsManager))

	for _, path := range []string{"/notes/1", "/notes/2", "/"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "200")))

	// one histogram series per route, not per note id
	count, err := testutil.GatherAndCount(registry, "notesbox_test_server_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	gathered, err := registry.Gather()
	require.NoError(t, err)

	var foundDurationHistogram *promcl.MetricFamily
	for _, m := range gathered {
		if m.GetName() == "notesbox_test_server_request_duration_seconds" {
			foundDurationHistogram = m
			break
		}
	}
	require.NotNil(t, foundDurationHistogram)

	samplesPerRoute := map[string]uint64{}
	for _, m := range foundDurationHistogram.GetMetric() {
		for _, label := range m.GetLabel() {
			if label.GetName() == "route" {
				samplesPerRoute[label.GetValue()] = m.GetHistogram().GetSampleCount()
			}
		}
	}
	assert.Equal(t, map[string]uint64{"get-note": 2, "/": 1}, samplesPerRoute)
}

func TestRouteName_NoRoute(t *testing.T) {
	assert.Equal(t, "unknown", routeName(httptest.NewRequest("GET", "/", nil)))
}
