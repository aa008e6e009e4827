package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/fuzztruck/internal/metrics"
)

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	srv := New(0, metrics.New().Gatherer(), nil)
	rec := get(t, srv.httpServer.Handler, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK\n", rec.Body.String())
}

func TestServer_MetricsExposition(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.CyclesTotal.Inc()
	srv := New(0, m.Gatherer(), nil)

	rec := get(t, srv.httpServer.Handler, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "fuzztruck_cycles_total 1")
}

func TestServer_TelemetryRoute(t *testing.T) {
	t.Parallel()

	// Without a telemetry handler the route does not exist.
	srv := New(0, metrics.New().Gatherer(), nil)
	rec := get(t, srv.httpServer.Handler, "/telemetry")
	require.Equal(t, http.StatusNotFound, rec.Code)

	marker := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv = New(0, metrics.New().Gatherer(), marker)
	rec = get(t, srv.httpServer.Handler, "/telemetry")
	require.Equal(t, http.StatusTeapot, rec.Code)
}
