package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lynx/internal/investigation/models"
	"lynx/internal/investigation/service"
	"lynx/internal/investigation/store"
)

func newTestRouter() http.Handler {
	svc := service.New(store.NewMemory(), slog.New(slog.DiscardHandler))
	h := New(svc, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createInvestigation(t *testing.T, router http.Handler) models.Investigation {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/investigations", map[string]any{
		"name":  "suspicious cluster",
		"nodes": []map[string]string{{"id": "u1", "type": "user"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var inv models.Investigation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&inv))
	return inv
}

func TestCreateAndGet(t *testing.T) {
	router := newTestRouter()
	inv := createInvestigation(t, router)
	require.NotEmpty(t, inv.ID)

	w := doJSON(t, router, http.MethodGet, "/api/investigations/"+inv.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Investigation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "suspicious cluster", got.Name)
	assert.Equal(t, models.StatusActive, got.Status)
}

func TestCreate_MissingName(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/investigations", map[string]any{
		"nodes": []map[string]string{{"id": "u1"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestCreate_MissingNodes(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/investigations", map[string]any{
		"name": "no nodes",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList(t *testing.T) {
	router := newTestRouter()
	createInvestigation(t, router)
	createInvestigation(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/investigations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count          int                    `json:"count"`
		Investigations []models.Investigation `json:"investigations"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
}

func TestUpdate(t *testing.T) {
	router := newTestRouter()
	inv := createInvestigation(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/investigations/"+inv.ID, map[string]any{
		"status": "closed",
		"notes":  "resolved, no fraud found",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Investigation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "closed", got.Status)
	assert.Equal(t, "resolved, no fraud found", got.Notes)
	assert.Equal(t, "suspicious cluster", got.Name)
}

func TestNodeLifecycle(t *testing.T) {
	router := newTestRouter()
	inv := createInvestigation(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/investigations/"+inv.ID+"/nodes",
		map[string]string{"id": "v9", "type": "verification"})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Investigation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got.Nodes, 2)

	w = doJSON(t, router, http.MethodDelete, "/api/investigations/"+inv.ID+"/nodes/v9", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Len(t, got.Nodes, 1)

	w = doJSON(t, router, http.MethodDelete, "/api/investigations/"+inv.ID+"/nodes/v9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	router := newTestRouter()
	inv := createInvestigation(t, router)

	w := doJSON(t, router, http.MethodDelete, "/api/investigations/"+inv.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/investigations/"+inv.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
