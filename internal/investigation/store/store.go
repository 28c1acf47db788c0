// Package store persists investigations as documents with store-assigned ids.
package store

import (
	"context"

	dErrors "lynx/pkg/domain-errors"

	"lynx/internal/investigation/models"
)

// Collection name in the document store.
const Collection = "investigations"

// ErrNotFound is returned when an investigation id misses.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "investigation not found")

// Store is the persistence surface for investigations. Create assigns the id.
type Store interface {
	Create(ctx context.Context, inv *models.Investigation) error
	List(ctx context.Context) ([]models.Investigation, error)
	Get(ctx context.Context, id string) (*models.Investigation, error)
	Put(ctx context.Context, inv models.Investigation) error
	Delete(ctx context.Context, id string) error
}
