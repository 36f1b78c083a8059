package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"altrion-client/internal/domain/kv"

	"github.com/redis/go-redis/v9"
)

var _ kv.Store = (*DocumentStore)(nil)

// DocumentStore keeps each document as a JSON string under its key, without expiry.
type DocumentStore struct {
	rdb    *redis.Client
	prefix string
}

func NewDocumentStore(rdb *redis.Client, prefix string) *DocumentStore {
	return &DocumentStore{rdb: rdb, prefix: prefix}
}

func (s *DocumentStore) key(k string) string { return s.prefix + k }

func (s *DocumentStore) Get(ctx context.Context, key string, out any) error {
	raw, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return kv.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) Set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.rdb.Set(ctx, s.key(key), payload, 0).Err()
}

func (s *DocumentStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.rdb.Del(ctx, full...).Err()
}
