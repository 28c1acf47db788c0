// Package handler exposes the fraud pattern queries over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lynx/internal/fraud/service"
	"lynx/pkg/platform/httputil"
)

// Service defines the fraud operations the handler needs.
type Service interface {
	IPVelocityPatterns(ctx context.Context) ([]service.IPPattern, error)
	UsersByFilter(ctx context.Context, filter service.Filter) (*service.UsersResult, error)
	IPNodes(ctx context.Context) (*service.IPGraph, error)
	UserSessions(ctx context.Context, userID string) ([]service.SessionView, error)
}

// Handler wires fraud endpoints to the fraud service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a fraud handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts fraud endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/fraud-patterns", func(r chi.Router) {
		r.Get("/ip-velocity", h.HandleIPVelocity)
		r.Get("/ip-nodes", h.HandleIPNodes)
		r.Get("/users-by-filter", h.HandleUsersByFilter)
		r.Get("/user/{id}/sessions", h.HandleUserSessions)
	})
}

// HandleIPVelocity handles GET /api/fraud-patterns/ip-velocity.
func (h *Handler) HandleIPVelocity(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.service.IPVelocityPatterns(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ip velocity query failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"patterns": patterns,
		"count":    len(patterns),
	})
}

// HandleIPNodes handles GET /api/fraud-patterns/ip-nodes.
func (h *Handler) HandleIPNodes(w http.ResponseWriter, r *http.Request) {
	graph, err := h.service.IPNodes(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ip nodes query failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, graph)
}

// HandleUsersByFilter handles GET /api/fraud-patterns/users-by-filter?filter=.
func (h *Handler) HandleUsersByFilter(w http.ResponseWriter, r *http.Request) {
	filter := service.Filter(r.URL.Query().Get("filter"))

	result, err := h.service.UsersByFilter(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "users by filter query failed",
			"filter", filter, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleUserSessions handles GET /api/fraud-patterns/user/{id}/sessions.
func (h *Handler) HandleUserSessions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	sessions, err := h.service.UserSessions(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "user sessions query failed",
			"userId", userID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"userId":   userID,
		"count":    len(sessions),
		"sessions": sessions,
	})
}
