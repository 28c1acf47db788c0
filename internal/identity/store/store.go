// Package store persists identity records as schemaless JSON documents in
// the document store, keyed by application-generated ids.
package store

import (
	"context"

	"lynx/internal/identity/models"
	dErrors "lynx/pkg/domain-errors"
)

// Collection names as they appear in the document store.
const (
	CollectionUserProfiles  = "user_profiles"
	CollectionVerifications = "identity_verifications"
	CollectionAttempts      = "verification_attempts"
	CollectionLoginSessions = "login_sessions"
)

// ErrUserNotFound is returned when a user profile lookup misses.
var ErrUserNotFound = dErrors.New(dErrors.CodeNotFound, "user profile not found")

// Counts summarizes collection sizes.
type Counts struct {
	Users         int64 `json:"users"`
	Verifications int64 `json:"verifications"`
	Attempts      int64 `json:"attempts"`
	LoginSessions int64 `json:"loginSessions"`
}

// Store is the document-store access surface for identity records. List
// operations return a bounded sample; ordering is not guaranteed.
type Store interface {
	InsertUserProfiles(ctx context.Context, profiles []models.UserProfile) error
	InsertVerifications(ctx context.Context, verifications []models.Verification) error
	InsertAttempts(ctx context.Context, attempts []models.VerificationAttempt) error
	InsertLoginSessions(ctx context.Context, sessions []models.LoginSession) error

	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	ListUserProfiles(ctx context.Context, limit int) ([]models.UserProfile, error)
	ListVerifications(ctx context.Context, limit int) ([]models.Verification, error)
	ListAttempts(ctx context.Context, limit int) ([]models.VerificationAttempt, error)
	ListLoginSessions(ctx context.Context, limit int) ([]models.LoginSession, error)
	ListLoginSessionsByUser(ctx context.Context, userID string) ([]models.LoginSession, error)

	Counts(ctx context.Context) (Counts, error)
	Truncate(ctx context.Context) error
}
