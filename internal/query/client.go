// Package query is an in-process cache for backend reads: deduplicated, retried,
// invalidated by key prefix and refetched in the background.
package query

import (
	"context"
	"sync"
	"time"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/logger"
	"altrion-client/internal/metrics"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	StaleTime       time.Duration
	RefetchInterval time.Duration
	RefetchOnFocus  bool
	// Retry is the number of retries after the first attempt.
	Retry int
}

type fetchFunc func(ctx context.Context) (any, error)

type entry struct {
	key         Key
	data        any
	hasData     bool
	updatedAt   time.Time
	invalidated bool
	opts        Options
	fetch       fetchFunc
}

func (e *entry) fresh(now time.Time) bool {
	return e.hasData && !e.invalidated && now.Sub(e.updatedAt) < e.opts.StaleTime
}

type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	// epoch advances on Clear; fetches started in an older epoch do not write back.
	epoch uint64
	group singleflight.Group
	log   *zap.Logger
	now   func() time.Time

	retryInitial time.Duration
	retryMax     time.Duration
	tick         time.Duration
}

func NewClient(log *zap.Logger) *Client {
	return &Client{
		entries:      map[string]*entry{},
		log:          logger.OrNop(log),
		now:          time.Now,
		retryInitial: time.Second,
		retryMax:     30 * time.Second,
		tick:         time.Second,
	}
}

// Fetch returns the cached value for key while it is fresh, and otherwise runs fn.
// Concurrent fetches of one key share a single call. Failed attempts are retried
// with exponential backoff, except 4xx API errors.
func Fetch[T any](ctx context.Context, c *Client, key Key, opts Options, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	fetch := func(ctx context.Context) (any, error) { return fn(ctx) }

	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok {
		e = &entry{key: key}
		c.entries[key.String()] = e
	}
	e.opts = opts
	e.fetch = fetch
	if e.fresh(c.now()) {
		if v, ok := e.data.(T); ok {
			c.mu.Unlock()
			metrics.QueryCache.WithLabelValues("hit").Inc()
			return v, nil
		}
	}
	c.mu.Unlock()

	metrics.QueryCache.WithLabelValues("miss").Inc()
	v, err := c.load(ctx, key, opts, fetch)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return out, nil
}

// load runs fetch through singleflight and writes the result back. The shared
// fetch runs detached from any single caller; each caller stops waiting when
// its own ctx is done.
func (c *Client) load(ctx context.Context, key Key, opts Options, fetch fetchFunc) (any, error) {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		v, err := c.retry(detached, opts.Retry, fetch)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.epoch == epoch {
			e, ok := c.entries[key.String()]
			if !ok {
				e = &entry{key: key, opts: opts, fetch: fetch}
				c.entries[key.String()] = e
			}
			e.data = v
			e.hasData = true
			e.updatedAt = c.now()
			e.invalidated = false
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.QueryCache.WithLabelValues("shared").Inc()
		}
		if res.Err != nil {
			metrics.QueryCache.WithLabelValues("error").Inc()
			c.log.Debug("query failed", zap.String("key", key.String()), zap.Error(res.Err))
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) retry(ctx context.Context, retries int, fetch fetchFunc) (any, error) {
	if retries < 0 {
		retries = 0
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxInterval = c.retryMax
	b.Multiplier = 2

	return backoff.Retry(ctx, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil && apperr.IsClientError(err) {
			return nil, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(retries+1)))
}

// Mutate runs fn once, without retries, and on success invalidates every
// prefix in invalidate.
func Mutate[T any](ctx context.Context, c *Client, fn func(ctx context.Context) (T, error), invalidate ...Key) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	for _, k := range invalidate {
		c.Invalidate(k)
	}
	return v, nil
}

// Invalidate marks every entry under prefix stale; the next read refetches.
func (c *Client) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.invalidated = true
		}
	}
}

// SetData writes v as the fresh value of key.
func (c *Client) SetData(key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		e = &entry{key: key, opts: DefaultOptions}
		c.entries[key.String()] = e
	}
	e.data = v
	e.hasData = true
	e.updatedAt = c.now()
	e.invalidated = false
}

// GetData returns the cached value of key regardless of freshness.
func GetData[T any](c *Client, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	e, ok := c.entries[key.String()]
	if !ok || !e.hasData {
		return zero, false
	}
	v, ok := e.data.(T)
	return v, ok
}

// Clear drops every entry. In-flight fetches finish but are not cached.
func (c *Client) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*entry{}
	c.epoch++
}

// Focus revalidates stale refetch-on-focus queries, as when the user returns to
// the app.
func (c *Client) Focus(ctx context.Context) {
	c.revalidate(ctx, func(e *entry, now time.Time) bool {
		return e.opts.RefetchOnFocus && !e.fresh(now)
	})
}

// Run refetches interval queries until ctx ends.
func (c *Client) Run(ctx context.Context) {
	t := time.NewTicker(c.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.refetchDue(ctx)
		}
	}
}

func (c *Client) refetchDue(ctx context.Context) {
	c.revalidate(ctx, func(e *entry, now time.Time) bool {
		return e.opts.RefetchInterval > 0 && e.hasData && now.Sub(e.updatedAt) >= e.opts.RefetchInterval
	})
}

func (c *Client) revalidate(ctx context.Context, due func(*entry, time.Time) bool) {
	type job struct {
		key   Key
		opts  Options
		fetch fetchFunc
	}
	c.mu.Lock()
	now := c.now()
	var jobs []job
	for _, e := range c.entries {
		if e.fetch != nil && due(e, now) {
			jobs = append(jobs, job{key: e.key, opts: e.opts, fetch: e.fetch})
		}
	}
	c.mu.Unlock()

	for _, j := range jobs {
		if _, err := c.load(ctx, j.key, j.opts, j.fetch); err != nil {
			c.log.Warn("background refetch failed", zap.String("key", j.key.String()), zap.Error(err))
		}
	}
}
