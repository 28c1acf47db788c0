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

	"lynx/internal/fraud/service"
	"lynx/internal/identity/models"
	idstore "lynx/internal/identity/store"
	"lynx/internal/platform/metrics"
)

func newTestRouter(t *testing.T) (http.Handler, idstore.Store) {
	t.Helper()
	identity := idstore.NewMemory()
	svc := service.New(identity, metrics.NewForTest(), slog.New(slog.DiscardHandler))
	h := New(svc, slog.New(slog.DiscardHandler))

	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return r, identity
}

func seedSharedIP(t *testing.T, identity idstore.Store) {
	t.Helper()
	require.NoError(t, identity.InsertLoginSessions(context.Background(), []models.LoginSession{
		{SessionID: "s1", UserID: "u1", IPAddress: "10.0.0.1", RiskScore: 0.9, HighVelocityIP: true, Timestamp: time.Now().UTC()},
		{SessionID: "s2", UserID: "u2", IPAddress: "10.0.0.1", RiskScore: 0.8, HighVelocityIP: true, Timestamp: time.Now().UTC()},
	}))
}

func TestHandleIPVelocity(t *testing.T) {
	router, identity := newTestRouter(t)
	seedSharedIP(t, identity)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/fraud-patterns/ip-velocity", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count    int                 `json:"count"`
		Patterns []service.IPPattern `json:"patterns"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "10.0.0.1", body.Patterns[0].IPAddress)
	assert.Equal(t, 2, body.Patterns[0].UserCount)
}

func TestHandleIPNodes(t *testing.T) {
	router, identity := newTestRouter(t)
	seedSharedIP(t, identity)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/fraud-patterns/ip-nodes", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var graph service.IPGraph
	require.NoError(t, json.NewDecoder(w.Body).Decode(&graph))
	require.Len(t, graph.Nodes, 1)
	assert.Len(t, graph.Edges, 2)
}

func TestHandleUsersByFilter_Unknown(t *testing.T) {
	router, identity := newTestRouter(t)
	seedSharedIP(t, identity)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/fraud-patterns/users-by-filter?filter=bogus", nil))

	require.Equal(t, http.StatusOK, w.Code, "unknown filter is empty, not an error")

	var result service.UsersResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Zero(t, result.Count)
}

func TestHandleUserSessions(t *testing.T) {
	router, identity := newTestRouter(t)
	seedSharedIP(t, identity)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/fraud-patterns/user/u1/sessions", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID   string                `json:"userId"`
		Count    int                   `json:"count"`
		Sessions []service.SessionView `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "u1", body.UserID)
	assert.Equal(t, 1, body.Count)
}
