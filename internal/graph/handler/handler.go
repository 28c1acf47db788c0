// Package handler exposes the graph views over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lynx/internal/graph/service"
	"lynx/pkg/platform/httputil"
)

// Service defines the graph operations the handler needs.
type Service interface {
	GraphData(ctx context.Context) (*service.Graph, error)
	InsuranceData(ctx context.Context, userID string) (*service.InsuranceData, error)
	Stats(ctx context.Context) (*service.Stats, error)
}

// Handler wires graph endpoints to the graph service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a graph handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts graph endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/graph-data", h.HandleGraphData)
	r.Get("/node/{id}/insurance-data", h.HandleInsuranceData)
	r.Get("/stats", h.HandleStats)
}

// HandleGraphData handles GET /api/graph-data.
func (h *Handler) HandleGraphData(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.GraphData(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "graph assembly failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, g)
}

// HandleInsuranceData handles GET /api/node/{id}/insurance-data.
func (h *Handler) HandleInsuranceData(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	data, err := h.service.InsuranceData(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "insurance lookup failed",
			"userId", userID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}

// HandleStats handles GET /api/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "stats aggregation failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
