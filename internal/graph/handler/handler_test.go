package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idmodels "lynx/internal/identity/models"
	idstore "lynx/internal/identity/store"
	"lynx/internal/graph/service"
	insstore "lynx/internal/insurance/store"
)

func newTestHandler(t *testing.T) (*Handler, idstore.Store) {
	t.Helper()
	identity := idstore.NewMemory()
	svc := service.New(identity, insstore.NewMemory(nil), slog.New(slog.DiscardHandler))
	return New(svc, slog.New(slog.DiscardHandler)), identity
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return r
}

func TestHandleGraphData(t *testing.T) {
	h, identity := newTestHandler(t)
	require.NoError(t, identity.InsertUserProfiles(context.Background(), []idmodels.UserProfile{
		{UserID: "u1", FirstName: "Jane", LastName: "Doe", CreatedAt: time.Now().UTC()},
	}))

	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/graph-data", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var g service.Graph
	require.NoError(t, json.NewDecoder(w.Body).Decode(&g))
	assert.Equal(t, 1, g.Stats.TotalUsers)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Jane Doe", g.Nodes[0].Label)
}

func TestHandleInsuranceData_UnknownUser(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/node/nobody/insurance-data", nil))

	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestHandleInsuranceData_NoCustomer(t *testing.T) {
	h, identity := newTestHandler(t)
	require.NoError(t, identity.InsertUserProfiles(context.Background(), []idmodels.UserProfile{
		{UserID: "u1", FirstName: "Jane", LastName: "Doe"},
	}))

	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/node/u1/insurance-data", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var data service.InsuranceData
	require.NoError(t, json.NewDecoder(w.Body).Decode(&data))
	assert.False(t, data.HasInsurance)
	assert.Nil(t, data.Summary)
}

func TestHandleStats(t *testing.T) {
	h, identity := newTestHandler(t)
	require.NoError(t, identity.InsertUserProfiles(context.Background(), []idmodels.UserProfile{
		{UserID: "u1"}, {UserID: "u2"},
	}))

	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var stats service.Stats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, int64(2), stats.IDV.Users)
}
