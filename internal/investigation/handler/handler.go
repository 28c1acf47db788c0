// Package handler exposes investigation CRUD over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lynx/internal/investigation/models"
	"lynx/internal/investigation/service"
	"lynx/pkg/platform/httputil"
)

// Service defines the investigation operations the handler needs.
type Service interface {
	Create(ctx context.Context, req service.CreateRequest) (*models.Investigation, error)
	List(ctx context.Context) ([]models.Investigation, error)
	Get(ctx context.Context, id string) (*models.Investigation, error)
	Update(ctx context.Context, id string, req service.UpdateRequest) (*models.Investigation, error)
	AddNode(ctx context.Context, id string, node models.NodeRef) (*models.Investigation, error)
	RemoveNode(ctx context.Context, id, nodeID string) (*models.Investigation, error)
	Delete(ctx context.Context, id string) error
}

// Handler wires investigation endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an investigation handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts investigation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/investigations", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
			r.Post("/nodes", h.HandleAddNode)
			r.Delete("/nodes/{nodeID}", h.HandleRemoveNode)
		})
	})
}

// HandleCreate handles POST /api/investigations.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[service.CreateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inv)
}

// HandleList handles GET /api/investigations.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	investigations, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list investigations failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if investigations == nil {
		investigations = []models.Investigation{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"investigations": investigations,
		"count":          len(investigations),
	})
}

// HandleGet handles GET /api/investigations/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

// HandleUpdate handles PUT /api/investigations/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[service.UpdateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

// HandleDelete handles DELETE /api/investigations/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
	})
}

// HandleAddNode handles POST /api/investigations/{id}/nodes.
func (h *Handler) HandleAddNode(w http.ResponseWriter, r *http.Request) {
	node, err := httputil.Decode[models.NodeRef](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.service.AddNode(r.Context(), chi.URLParam(r, "id"), node)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

// HandleRemoveNode handles DELETE /api/investigations/{id}/nodes/{nodeID}.
func (h *Handler) HandleRemoveNode(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.RemoveNode(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "nodeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}
