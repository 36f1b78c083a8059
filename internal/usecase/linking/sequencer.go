// Package linking connects a chosen list of platforms one at a time and reports
// per-platform progress.
package linking

import (
	"context"
	"errors"
	"sync"
	"time"

	"altrion-client/internal/domain/platform"
	"altrion-client/internal/logger"
	"altrion-client/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultPace is the minimum spacing between two connection attempts.
const DefaultPace = 500 * time.Millisecond

var (
	ErrNotRetryable = errors.New("only failed platforms can be retried")
	ErrOutOfRange   = errors.New("no platform at that position")
)

// Connector performs one connection attempt.
type Connector interface {
	Connect(ctx context.Context, p platform.Platform) error
}

// AccountMerger persists the ids of successfully linked platforms.
type AccountMerger interface {
	MergeConnectedAccounts(ctx context.Context, ids []string) ([]string, error)
}

type Item struct {
	Platform platform.Platform         `json:"platform"`
	Status   platform.ConnectionStatus `json:"status"`
	Message  string                    `json:"message,omitempty"`
}

// Snapshot is the progress of a sequence at one point in time.
type Snapshot struct {
	Items        []Item `json:"items"`
	Done         bool   `json:"done"`
	SuccessCount int    `json:"successCount"`
}

type Sequencer struct {
	mu    sync.Mutex
	items []Item

	// attempt serializes connection attempts across Run and Retry.
	attempt sync.Mutex
	limiter *rate.Limiter

	conn     Connector
	accounts AccountMerger
	log      *zap.Logger

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObs   int
}

// NewSequencer queues platforms in the given order, all pending. A pace of zero
// disables spacing.
func NewSequencer(platforms []platform.Platform, conn Connector, accounts AccountMerger, pace time.Duration, log *zap.Logger) *Sequencer {
	items := make([]Item, len(platforms))
	for i, p := range platforms {
		items[i] = Item{Platform: p, Status: platform.StatusPending}
	}
	limit := rate.Inf
	if pace > 0 {
		limit = rate.Every(pace)
	}
	return &Sequencer{
		items:     items,
		limiter:   rate.NewLimiter(limit, 1),
		conn:      conn,
		accounts:  accounts,
		log:       logger.OrNop(log),
		observers: map[int]func(Snapshot){},
	}
}

// Subscribe registers fn for a snapshot after every status change.
func (s *Sequencer) Subscribe(fn func(Snapshot)) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Sequencer) notify(snap Snapshot) {
	s.obsMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Sequencer) snapshotLocked() Snapshot {
	snap := Snapshot{Items: append([]Item(nil), s.items...), Done: true}
	for _, it := range s.items {
		if !it.Status.Terminal() {
			snap.Done = false
		}
		if it.Status == platform.StatusSuccess {
			snap.SuccessCount++
		}
	}
	return snap
}

func (s *Sequencer) SuccessCount() int { return s.Snapshot().SuccessCount }

// Run attempts every pending platform in order. Failures are recorded per item
// and never stop the sequence. Once every item is terminal the successful ids
// are merged into the connected accounts.
func (s *Sequencer) Run(ctx context.Context) (Snapshot, error) {
	for i := range s.items {
		if err := s.tryItem(ctx, i, platform.StatusPending); err != nil {
			if errors.Is(err, ErrNotRetryable) {
				continue
			}
			return s.Snapshot(), err
		}
	}
	return s.finish(ctx)
}

// Retry attempts the failed item at index i again.
func (s *Sequencer) Retry(ctx context.Context, i int) (Snapshot, error) {
	if err := s.tryItem(ctx, i, platform.StatusError); err != nil {
		return s.Snapshot(), err
	}
	return s.finish(ctx)
}

// tryItem attempts item i if its status is from. A failed attempt is recorded on
// the item, not returned; only cancellation and bad indices are errors.
func (s *Sequencer) tryItem(ctx context.Context, i int, from platform.ConnectionStatus) error {
	s.attempt.Lock()
	defer s.attempt.Unlock()

	s.mu.Lock()
	if i < 0 || i >= len(s.items) {
		s.mu.Unlock()
		return ErrOutOfRange
	}
	if s.items[i].Status != from {
		s.mu.Unlock()
		return ErrNotRetryable
	}
	s.mu.Unlock()

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	p := s.setStatus(i, platform.StatusConnecting, "")
	metrics.LinkInFlight.Inc()
	err := s.conn.Connect(ctx, p)
	metrics.LinkInFlight.Dec()

	if err != nil {
		s.log.Warn("platform link failed", zap.String("platform", p.ID), zap.Error(err))
		metrics.LinkAttempts.WithLabelValues(string(p.Category), string(platform.StatusError)).Inc()
		s.setStatus(i, platform.StatusError, err.Error())
		return nil
	}
	metrics.LinkAttempts.WithLabelValues(string(p.Category), string(platform.StatusSuccess)).Inc()
	s.setStatus(i, platform.StatusSuccess, "")
	return nil
}

func (s *Sequencer) setStatus(i int, st platform.ConnectionStatus, msg string) platform.Platform {
	s.mu.Lock()
	s.items[i].Status = st
	s.items[i].Message = msg
	p := s.items[i].Platform
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return p
}

func (s *Sequencer) finish(ctx context.Context) (Snapshot, error) {
	snap := s.Snapshot()
	if !snap.Done || snap.SuccessCount == 0 {
		return snap, nil
	}
	ids := make([]string, 0, snap.SuccessCount)
	for _, it := range snap.Items {
		if it.Status == platform.StatusSuccess {
			ids = append(ids, it.Platform.ID)
		}
	}
	if _, err := s.accounts.MergeConnectedAccounts(ctx, ids); err != nil {
		return snap, err
	}
	return snap, nil
}
