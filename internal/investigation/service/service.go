// Package service implements investigation CRUD on top of the document store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"

	dErrors "lynx/pkg/domain-errors"

	"lynx/internal/investigation/models"
	"lynx/internal/investigation/store"
)

const maxNameLength = 255

// CreateRequest carries the fields required to open an investigation.
type CreateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Nodes       []models.NodeRef `json:"nodes"`
	Notes       string           `json:"notes"`
}

// UpdateRequest carries a partial merge; nil fields are left untouched.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

// Service owns investigation lifecycle rules.
type Service struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates the investigation service.
func New(s store.Store, logger *slog.Logger) *Service {
	return &Service{store: s, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

func validateName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "investigation name is required")
	}
	if !govalidator.RuneLength(name, "1", "255") {
		return dErrors.Newf(dErrors.CodeInvalidInput,
			"investigation name must be at most %d characters", maxNameLength)
	}
	return nil
}

// Create validates and stores a new investigation. The store assigns the id.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Investigation, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if len(req.Nodes) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one node must be selected")
	}

	now := s.now()
	inv := &models.Investigation{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Status:      models.StatusActive,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "investigation created",
		"investigationId", inv.ID, "nodes", len(inv.Nodes))
	return inv, nil
}

// List returns all investigations.
func (s *Service) List(ctx context.Context) ([]models.Investigation, error) {
	return s.store.List(ctx)
}

// Get returns one investigation by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Investigation, error) {
	return s.store.Get(ctx, id)
}

// Update merges the non-nil request fields into the stored investigation.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*models.Investigation, error) {
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		inv.Name = *req.Name
	}
	if req.Description != nil {
		inv.Description = *req.Description
	}
	if req.Status != nil {
		inv.Status = *req.Status
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	inv.UpdatedAt = s.now()

	if err := s.store.Put(ctx, *inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// AddNode appends a node reference to an investigation.
func (s *Service) AddNode(ctx context.Context, id string, node models.NodeRef) (*models.Investigation, error) {
	if node.ID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "node id is required")
	}

	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, n := range inv.Nodes {
		if n.ID == node.ID {
			return inv, nil // already captured
		}
	}
	inv.Nodes = append(inv.Nodes, node)
	inv.UpdatedAt = s.now()

	if err := s.store.Put(ctx, *inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RemoveNode removes a node reference by node id.
func (s *Service) RemoveNode(ctx context.Context, id, nodeID string) (*models.Investigation, error) {
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := inv.Nodes[:0]
	removed := false
	for _, n := range inv.Nodes {
		if n.ID == nodeID {
			removed = true
			continue
		}
		kept = append(kept, n)
	}
	if !removed {
		return nil, dErrors.New(dErrors.CodeNotFound, "node not found in investigation")
	}
	inv.Nodes = kept
	inv.UpdatedAt = s.now()

	if err := s.store.Put(ctx, *inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes an investigation.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "investigation deleted", "investigationId", id)
	return nil
}
