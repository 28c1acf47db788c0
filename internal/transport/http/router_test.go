package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fraudhandler "lynx/internal/fraud/handler"
	fraudservice "lynx/internal/fraud/service"
	graphhandler "lynx/internal/graph/handler"
	graphservice "lynx/internal/graph/service"
	idstore "lynx/internal/identity/store"
	insmodels "lynx/internal/insurance/models"
	insstore "lynx/internal/insurance/store"
	invhandler "lynx/internal/investigation/handler"
	invservice "lynx/internal/investigation/service"
	invstore "lynx/internal/investigation/store"
	"lynx/internal/platform/metrics"
)

func newTestRouter(t *testing.T, health func() error) http.Handler {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	m := metrics.NewForTest()

	identity := idstore.NewMemory()
	insurance := insstore.NewMemory([]insmodels.Product{})
	investigations := invstore.NewMemory()

	return NewRouter(Deps{
		Graph:         graphhandler.New(graphservice.New(identity, insurance, logger), logger),
		Fraud:         fraudhandler.New(fraudservice.New(identity, m, logger), logger),
		Investigation: invhandler.New(invservice.New(investigations, logger), logger),
		Metrics:       m,
		Logger:        logger,
		Health:        health,
	})
}

func TestRouterHealthz(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterHealthzUnhealthy(t *testing.T) {
	r := newTestRouter(t, func() error { return assert.AnError })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy"}`, rec.Body.String())
}

func TestRouterMountsAPIRoutes(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, path := range []string{
		"/api/graph-data",
		"/api/stats",
		"/api/fraud-patterns/ip-velocity",
		"/api/investigations",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), "GET %s", path)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouterUnknownRoute(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
