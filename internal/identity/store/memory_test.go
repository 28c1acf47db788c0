package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lynx/pkg/domain-errors"

	"lynx/internal/identity/models"
	"lynx/internal/identity/store"
)

func TestMemoryStore_InsertAndList(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	profiles := []models.UserProfile{
		{UserID: "u1", Email: "a@example.com"},
		{UserID: "u2", Email: "b@example.com"},
		{UserID: "u3", Email: "c@example.com"},
	}
	require.NoError(t, s.InsertUserProfiles(ctx, profiles))

	got, err := s.ListUserProfiles(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	limited, err := s.ListUserProfiles(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMemoryStore_GetUserProfile(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.InsertUserProfiles(ctx, []models.UserProfile{{UserID: "u1", Email: "a@example.com"}}))

	p, err := s.GetUserProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", p.Email)

	_, err = s.GetUserProfile(ctx, "missing")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestMemoryStore_SessionsByUser(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	now := time.Now().UTC()
	sessions := []models.LoginSession{
		{SessionID: "s1", UserID: "u1", Timestamp: now},
		{SessionID: "s2", UserID: "u2", Timestamp: now},
		{SessionID: "s3", UserID: "u1", Timestamp: now},
	}
	require.NoError(t, s.InsertLoginSessions(ctx, sessions))

	got, err := s.ListLoginSessionsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, session := range got {
		assert.Equal(t, "u1", session.UserID)
	}
}

func TestMemoryStore_CountsAndTruncate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.InsertUserProfiles(ctx, []models.UserProfile{{UserID: "u1"}}))
	require.NoError(t, s.InsertVerifications(ctx, []models.Verification{{VerificationID: "v1", UserID: "u1"}}))
	require.NoError(t, s.InsertAttempts(ctx, []models.VerificationAttempt{{AttemptID: "a1", VerificationID: "v1"}}))
	require.NoError(t, s.InsertLoginSessions(ctx, []models.LoginSession{{SessionID: "s1", UserID: "u1"}}))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{Users: 1, Verifications: 1, Attempts: 1, LoginSessions: 1}, counts)

	require.NoError(t, s.Truncate(ctx))

	counts, err = s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{}, counts)
}
