package store

import (
	"context"
	"sync"

	"lynx/internal/identity/models"
)

// MemoryStore is an in-memory Store used in tests and as a fallback when no
// document store is configured.
type MemoryStore struct {
	mu            sync.RWMutex
	profiles      map[string]models.UserProfile
	profileOrder  []string
	verifications []models.Verification
	attempts      []models.VerificationAttempt
	sessions      []models.LoginSession
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]models.UserProfile)}
}

func (s *MemoryStore) InsertUserProfiles(ctx context.Context, profiles []models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		if _, ok := s.profiles[p.UserID]; !ok {
			s.profileOrder = append(s.profileOrder, p.UserID)
		}
		s.profiles[p.UserID] = p
	}
	return nil
}

func (s *MemoryStore) InsertVerifications(ctx context.Context, verifications []models.Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifications = append(s.verifications, verifications...)
	return nil
}

func (s *MemoryStore) InsertAttempts(ctx context.Context, attempts []models.VerificationAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempts...)
	return nil
}

func (s *MemoryStore) InsertLoginSessions(ctx context.Context, sessions []models.LoginSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessions...)
	return nil
}

func (s *MemoryStore) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListUserProfiles(ctx context.Context, limit int) ([]models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserProfile, 0, len(s.profileOrder))
	for _, id := range s.profileOrder {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.profiles[id])
	}
	return out, nil
}

func (s *MemoryStore) ListVerifications(ctx context.Context, limit int) ([]models.Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return capSlice(s.verifications, limit), nil
}

func (s *MemoryStore) ListAttempts(ctx context.Context, limit int) ([]models.VerificationAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return capSlice(s.attempts, limit), nil
}

func (s *MemoryStore) ListLoginSessions(ctx context.Context, limit int) ([]models.LoginSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return capSlice(s.sessions, limit), nil
}

func (s *MemoryStore) ListLoginSessionsByUser(ctx context.Context, userID string) ([]models.LoginSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.LoginSession
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *MemoryStore) Counts(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Users:         int64(len(s.profiles)),
		Verifications: int64(len(s.verifications)),
		Attempts:      int64(len(s.attempts)),
		LoginSessions: int64(len(s.sessions)),
	}, nil
}

func (s *MemoryStore) Truncate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = make(map[string]models.UserProfile)
	s.profileOrder = nil
	s.verifications = nil
	s.attempts = nil
	s.sessions = nil
	return nil
}

func capSlice[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
