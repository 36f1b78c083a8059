package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_SelectsDBAndAuthenticates(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("secret")

	c, err := OpenRedis(context.Background(), Options{Addr: s.Addr(), Password: "secret", DB: 2})
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}
	if err := c.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("SET err: %v", err)
	}
	if v, _ := s.DB(2).Get("k"); v != "v" {
		t.Fatalf("value in db 2 = %q, want %q", v, "v")
	}
}

func TestOpenRedis_WrongPassword(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("secret")

	if _, err := OpenRedis(context.Background(), Options{Addr: s.Addr(), Password: "nope"}); err == nil {
		t.Fatal("expected auth error, got nil")
	}
}

func TestOpenRedis_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	start := time.Now()
	if _, err := OpenRedis(context.Background(), Options{Addr: addr, PingTimeout: 500 * time.Millisecond}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("ping not bounded by timeout: %v", time.Since(start))
	}
}
