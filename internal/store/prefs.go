package store

import (
	"context"
	"errors"
	"sync"

	"altrion-client/internal/domain/kv"
)

// PrefsStore keeps the display name and the set of linked platform ids.
type PrefsStore struct {
	mu   sync.Mutex
	kv   kv.Store
	subs notifier[[]string]
}

func NewPrefsStore(store kv.Store) *PrefsStore { return &PrefsStore{kv: store} }

func (s *PrefsStore) Close() { s.subs.close() }

// SubscribeAccounts is notified with the connected account set after each merge.
func (s *PrefsStore) SubscribeAccounts(fn func([]string)) func() { return s.subs.Subscribe(fn) }

// DisplayName returns "" when none was chosen.
func (s *PrefsStore) DisplayName(ctx context.Context) (string, error) {
	var name string
	err := s.kv.Get(ctx, kv.KeyDisplayName, &name)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	return name, err
}

func (s *PrefsStore) SetDisplayName(ctx context.Context, name string) error {
	return s.kv.Set(ctx, kv.KeyDisplayName, name)
}

func (s *PrefsStore) ConnectedAccounts(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountsLocked(ctx)
}

func (s *PrefsStore) accountsLocked(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.kv.Get(ctx, kv.KeyConnectedAccounts, &ids)
	if errors.Is(err, kv.ErrNotFound) {
		return []string{}, nil
	}
	return ids, err
}

// MergeConnectedAccounts adds ids to the persisted set (set union, existing order
// first) and returns the result.
func (s *PrefsStore) MergeConnectedAccounts(ctx context.Context, ids []string) ([]string, error) {
	s.mu.Lock()
	current, err := s.accountsLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	merged := union(current, ids)
	if err := s.kv.Set(ctx, kv.KeyConnectedAccounts, merged); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.subs.notify(append([]string(nil), merged...))
	return merged, nil
}

// Clear removes every preference.
func (s *PrefsStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, kv.KeyDisplayName, kv.KeyConnectedAccounts)
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
