package redisstore

import (
	"context"
	"errors"
	"testing"

	"altrion-client/internal/domain/kv"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStore(t *testing.T) (*miniredis.Miniredis, *DocumentStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewDocumentStore(rdb, "test:")
}

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestDocumentStore_SetGet(t *testing.T) {
	mr, s := newStore(t)
	ctx := context.Background()

	in := doc{Name: "n", Items: []string{"a", "b"}}
	if err := s.Set(ctx, kv.KeyConnectedAccounts, in); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("test:" + kv.KeyConnectedAccounts) {
		t.Fatal("key should be stored with prefix")
	}
	if ttl := mr.TTL("test:" + kv.KeyConnectedAccounts); ttl != 0 {
		t.Fatalf("documents must not expire, ttl=%v", ttl)
	}

	var out doc
	if err := s.Get(ctx, kv.KeyConnectedAccounts, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Name != "n" || len(out.Items) != 2 {
		t.Fatalf("got %+v", out)
	}
}

func TestDocumentStore_NotFound(t *testing.T) {
	_, s := newStore(t)
	var out doc
	if err := s.Get(context.Background(), "missing", &out); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDocumentStore_DecodeError(t *testing.T) {
	mr, s := newStore(t)
	_ = mr.Set("test:broken", "{not json")
	var out doc
	err := s.Get(context.Background(), "broken", &out)
	if err == nil || errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("want decode error, got %v", err)
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	mr, s := newStore(t)
	ctx := context.Background()
	_ = s.Set(ctx, "a", 1)
	_ = s.Set(ctx, "b", 2)
	if err := s.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("test:a") || mr.Exists("test:b") {
		t.Fatal("keys should be gone")
	}
	if err := s.Delete(ctx); err != nil {
		t.Fatalf("empty Delete: %v", err)
	}
}
