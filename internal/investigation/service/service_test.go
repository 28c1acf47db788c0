package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lynx/pkg/domain-errors"

	"lynx/internal/investigation/models"
	"lynx/internal/investigation/store"
)

func newTestService() *Service {
	return New(store.NewMemory(), slog.New(slog.DiscardHandler))
}

func validCreate() CreateRequest {
	return CreateRequest{
		Name:  "shared ip cluster",
		Nodes: []models.NodeRef{{ID: "u1", Type: "user"}},
	}
}

func TestCreate(t *testing.T) {
	svc := newTestService()

	inv, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.NotEmpty(t, inv.ID, "store assigns the id")
	assert.Equal(t, models.StatusActive, inv.Status)
	assert.False(t, inv.CreatedAt.IsZero())
	assert.Equal(t, inv.CreatedAt, inv.UpdatedAt)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("empty name", func(t *testing.T) {
		req := validCreate()
		req.Name = ""
		_, err := svc.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
	})

	t.Run("name too long", func(t *testing.T) {
		req := validCreate()
		req.Name = strings.Repeat("x", 256)
		_, err := svc.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
	})

	t.Run("no nodes", func(t *testing.T) {
		req := validCreate()
		req.Nodes = nil
		_, err := svc.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
	})
}

func TestGetAndList(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = svc.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdate_PartialMerge(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Name:        "before",
		Description: "original description",
		Nodes:       []models.NodeRef{{ID: "u1"}},
	})
	require.NoError(t, err)

	status := models.StatusClosed
	updated, err := svc.Update(ctx, created.ID, UpdateRequest{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.StatusClosed, updated.Status)
	assert.Equal(t, "before", updated.Name, "unset fields are untouched")
	assert.Equal(t, "original description", updated.Description)
}

func TestUpdate_RejectsInvalidName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(ctx, created.ID, UpdateRequest{Name: &empty})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestAddAndRemoveNode(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	inv, err := svc.AddNode(ctx, created.ID, models.NodeRef{ID: "v1", Type: "verification"})
	require.NoError(t, err)
	assert.Len(t, inv.Nodes, 2)

	// Adding the same node again is a no-op.
	inv, err = svc.AddNode(ctx, created.ID, models.NodeRef{ID: "v1"})
	require.NoError(t, err)
	assert.Len(t, inv.Nodes, 2)

	inv, err = svc.RemoveNode(ctx, created.ID, "v1")
	require.NoError(t, err)
	assert.Len(t, inv.Nodes, 1)
	assert.Equal(t, "u1", inv.Nodes[0].ID)

	_, err = svc.RemoveNode(ctx, created.ID, "v1")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}
