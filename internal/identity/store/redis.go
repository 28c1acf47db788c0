package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"lynx/internal/identity/models"
	dErrors "lynx/pkg/domain-errors"
)

const keyPrefix = "idv"

// RedisStore stores each record as a JSON document under a namespaced key
// and maintains a set of ids per collection. Login sessions additionally
// keep a per-user index set.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedis creates a Redis-backed document store.
func NewRedis(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func docKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, collection, id)
}

func idsKey(collection string) string {
	return fmt.Sprintf("%s:%s:ids", keyPrefix, collection)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("%s:%s:user:%s", keyPrefix, CollectionLoginSessions, userID)
}

func (s *RedisStore) insertDocs(ctx context.Context, collection string, docs map[string]any) error {
	if len(docs) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for id, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal %s document %s: %w", collection, id, err)
		}
		pipe.Set(ctx, docKey(collection, id), payload, 0)
		pipe.SAdd(ctx, idsKey(collection), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("insert into %s", collection))
	}
	return nil
}

func (s *RedisStore) InsertUserProfiles(ctx context.Context, profiles []models.UserProfile) error {
	docs := make(map[string]any, len(profiles))
	for _, p := range profiles {
		docs[p.UserID] = p
	}
	return s.insertDocs(ctx, CollectionUserProfiles, docs)
}

func (s *RedisStore) InsertVerifications(ctx context.Context, verifications []models.Verification) error {
	docs := make(map[string]any, len(verifications))
	for _, v := range verifications {
		docs[v.VerificationID] = v
	}
	return s.insertDocs(ctx, CollectionVerifications, docs)
}

func (s *RedisStore) InsertAttempts(ctx context.Context, attempts []models.VerificationAttempt) error {
	docs := make(map[string]any, len(attempts))
	for _, a := range attempts {
		docs[a.AttemptID] = a
	}
	return s.insertDocs(ctx, CollectionAttempts, docs)
}

func (s *RedisStore) InsertLoginSessions(ctx context.Context, sessions []models.LoginSession) error {
	if len(sessions) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, session := range sessions {
		payload, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal login session %s: %w", session.SessionID, err)
		}
		pipe.Set(ctx, docKey(CollectionLoginSessions, session.SessionID), payload, 0)
		pipe.SAdd(ctx, idsKey(CollectionLoginSessions), session.SessionID)
		pipe.SAdd(ctx, userSessionsKey(session.UserID), session.SessionID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "insert login sessions")
	}
	return nil
}

func (s *RedisStore) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	payload, err := s.client.Get(ctx, docKey(CollectionUserProfiles, userID)).Bytes()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "get user profile")
	}
	var profile models.UserProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("decode user profile %s: %w", userID, err)
	}
	return &profile, nil
}

// listDocs fetches up to limit documents from a collection. Set membership
// has no stable order, which matches the bounded-sample read semantics.
func (s *RedisStore) listDocs(ctx context.Context, collection string, limit int, decode func([]byte) error) error {
	ids, err := s.client.SMembers(ctx, idsKey(collection)).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("list %s ids", collection))
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return s.fetchByIDs(ctx, collection, ids, decode)
}

func (s *RedisStore) fetchByIDs(ctx context.Context, collection string, ids []string, decode func([]byte) error) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(collection, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("fetch %s documents", collection))
	}
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue // id indexed but document missing; skip
		}
		if err := decode([]byte(raw)); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) ListUserProfiles(ctx context.Context, limit int) ([]models.UserProfile, error) {
	var out []models.UserProfile
	err := s.listDocs(ctx, CollectionUserProfiles, limit, func(raw []byte) error {
		var p models.UserProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode user profile: %w", err)
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (s *RedisStore) ListVerifications(ctx context.Context, limit int) ([]models.Verification, error) {
	var out []models.Verification
	err := s.listDocs(ctx, CollectionVerifications, limit, func(raw []byte) error {
		var v models.Verification
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode verification: %w", err)
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (s *RedisStore) ListAttempts(ctx context.Context, limit int) ([]models.VerificationAttempt, error) {
	var out []models.VerificationAttempt
	err := s.listDocs(ctx, CollectionAttempts, limit, func(raw []byte) error {
		var a models.VerificationAttempt
		if err := json.Unmarshal(raw, &a); err != nil {
			return fmt.Errorf("decode attempt: %w", err)
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

func (s *RedisStore) ListLoginSessions(ctx context.Context, limit int) ([]models.LoginSession, error) {
	var out []models.LoginSession
	err := s.listDocs(ctx, CollectionLoginSessions, limit, func(raw []byte) error {
		var ls models.LoginSession
		if err := json.Unmarshal(raw, &ls); err != nil {
			return fmt.Errorf("decode login session: %w", err)
		}
		out = append(out, ls)
		return nil
	})
	return out, err
}

func (s *RedisStore) ListLoginSessionsByUser(ctx context.Context, userID string) ([]models.LoginSession, error) {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "list user session ids")
	}
	var out []models.LoginSession
	err = s.fetchByIDs(ctx, CollectionLoginSessions, ids, func(raw []byte) error {
		var ls models.LoginSession
		if err := json.Unmarshal(raw, &ls); err != nil {
			return fmt.Errorf("decode login session: %w", err)
		}
		out = append(out, ls)
		return nil
	})
	return out, err
}

func (s *RedisStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	for _, c := range []struct {
		collection string
		target     *int64
	}{
		{CollectionUserProfiles, &counts.Users},
		{CollectionVerifications, &counts.Verifications},
		{CollectionAttempts, &counts.Attempts},
		{CollectionLoginSessions, &counts.LoginSessions},
	} {
		n, err := s.client.SCard(ctx, idsKey(c.collection)).Result()
		if err != nil {
			return Counts{}, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("count %s", c.collection))
		}
		*c.target = n
	}
	return counts, nil
}

// Truncate removes every identity document and index so a fresh generation
// run starts clean.
func (s *RedisStore) Truncate(ctx context.Context) error {
	for _, collection := range []string{
		CollectionUserProfiles, CollectionVerifications,
		CollectionAttempts, CollectionLoginSessions,
	} {
		ids, err := s.client.SMembers(ctx, idsKey(collection)).Result()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("truncate %s", collection))
		}
		pipe := s.client.Pipeline()
		for _, id := range ids {
			pipe.Del(ctx, docKey(collection, id))
		}
		pipe.Del(ctx, idsKey(collection))
		if _, err := pipe.Exec(ctx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("truncate %s", collection))
		}
	}

	// Per-user session index sets are discovered by pattern.
	iter := s.client.Scan(ctx, 0, fmt.Sprintf("%s:%s:user:*", keyPrefix, CollectionLoginSessions), 0).Iterator()
	var indexKeys []string
	for iter.Next(ctx) {
		indexKeys = append(indexKeys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "scan session indexes")
	}
	if len(indexKeys) > 0 {
		if err := s.client.Del(ctx, indexKeys...).Err(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "delete session indexes")
		}
	}
	return nil
}
