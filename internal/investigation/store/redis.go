package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dErrors "lynx/pkg/domain-errors"

	"lynx/internal/investigation/models"
)

const keyPrefix = "idv"

// RedisStore keeps each investigation as a JSON document under a namespaced
// key plus a set of ids, matching the identity document layout.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedis creates a Redis-backed investigation store.
func NewRedis(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func docKey(id string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, Collection, id)
}

func idsKey() string {
	return fmt.Sprintf("%s:%s:ids", keyPrefix, Collection)
}

func (s *RedisStore) Create(ctx context.Context, inv *models.Investigation) error {
	inv.ID = uuid.NewString()
	return s.Put(ctx, *inv)
}

func (s *RedisStore) Put(ctx context.Context, inv models.Investigation) error {
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("marshal investigation %s: %w", inv.ID, err)
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, docKey(inv.ID), payload, 0)
	pipe.SAdd(ctx, idsKey(), inv.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store investigation")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Investigation, error) {
	payload, err := s.client.Get(ctx, docKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "get investigation")
	}
	var inv models.Investigation
	if err := json.Unmarshal(payload, &inv); err != nil {
		return nil, fmt.Errorf("unmarshal investigation %s: %w", id, err)
	}
	return &inv, nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.Investigation, error) {
	ids, err := s.client.SMembers(ctx, idsKey()).Result()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "list investigation ids")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "fetch investigations")
	}

	out := make([]models.Investigation, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // id set member without a document; skip
		}
		var inv models.Investigation
		if err := json.Unmarshal([]byte(raw), &inv); err != nil {
			return nil, fmt.Errorf("unmarshal investigation %s: %w", ids[i], err)
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, docKey(id)).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "delete investigation")
	}
	if deleted == 0 {
		return ErrNotFound
	}
	if err := s.client.SRem(ctx, idsKey(), id).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "unindex investigation")
	}
	return nil
}
