package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-advisory-contact/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// RedisStore keeps the draft as a JSON string under a single key.
type RedisStore struct {
	client RedisClient
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a store for key. A zero ttl keeps drafts until deleted.
func NewRedisStore(client RedisClient, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

// Key returns the redis key the draft lives under.
func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Save(ctx context.Context, draft domain.Draft) error {
	if s.client == nil {
		return domain.ErrStoreUnavailable
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (domain.Draft, error) {
	if s.client == nil {
		return domain.Draft{}, domain.ErrStoreUnavailable
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		_ = s.client.Del(ctx, s.key).Err()
		return domain.Draft{}, fmt.Errorf("%w: discarded corrupt draft: %v", domain.ErrDraftNotFound, err)
	}
	return draft, nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if s.client == nil {
		return domain.ErrStoreUnavailable
	}
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
