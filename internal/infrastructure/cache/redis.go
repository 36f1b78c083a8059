// Package cache opens the Redis connection shared by the document store and the
// duplicate action guard.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

type Options struct {
	Addr     string
	Password string
	DB       int
	// PingTimeout bounds the connectivity check; zero means 5s.
	PingTimeout time.Duration
}

// OpenRedis connects and pings. The client is closed when the ping fails.
func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	if o.PingTimeout <= 0 {
		o.PingTimeout = defaultPingTimeout
	}
	r := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  o.PingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, o.PingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
