package store

import (
	"context"
	"errors"
	"sync"

	"altrion-client/internal/domain/kv"
	"altrion-client/internal/domain/session"
	"altrion-client/internal/logger"

	"go.uber.org/zap"
)

// AuthState is the persisted session plus transient request status.
type AuthState struct {
	session.Session
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

type AuthStore struct {
	mu      sync.RWMutex
	kv      kv.Store
	log     *zap.Logger
	sess    session.Session
	loading bool
	errMsg  string
	subs    notifier[AuthState]
}

func NewAuthStore(store kv.Store, log *zap.Logger) *AuthStore {
	return &AuthStore{kv: store, log: logger.OrNop(log)}
}

// Hydrate loads the persisted session. A missing document leaves the store signed out.
func (s *AuthStore) Hydrate(ctx context.Context) error {
	var sess session.Session
	err := s.kv.Get(ctx, kv.KeyAuth, &sess)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()
	return nil
}

func (s *AuthStore) Close() { s.subs.close() }

func (s *AuthStore) Subscribe(fn func(AuthState)) func() { return s.subs.Subscribe(fn) }

func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *AuthStore) stateLocked() AuthState {
	st := AuthState{Session: s.sess, IsLoading: s.loading, Error: s.errMsg}
	if s.sess.User != nil {
		u := *s.sess.User
		st.User = &u
	}
	return st
}

// Session returns the persisted part of the state.
func (s *AuthStore) Session() session.Session { return s.State().Session }

// Token is the bearer token for backend calls, "" when signed out.
func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Token
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.IsAuthenticated
}

func (s *AuthStore) Login(ctx context.Context, u session.User, token string) error {
	return s.update(ctx, true, func() {
		s.sess.User = &u
		s.sess.Token = token
		s.sess.IsAuthenticated = true
		s.errMsg = ""
	})
}

func (s *AuthStore) Logout(ctx context.Context) error {
	return s.update(ctx, true, func() {
		s.sess = session.Session{}
		s.errMsg = ""
	})
}

// SetUser replaces the profile; a nil user signs the session out.
func (s *AuthStore) SetUser(ctx context.Context, u *session.User) error {
	return s.update(ctx, true, func() {
		if u == nil {
			s.sess.User = nil
			s.sess.IsAuthenticated = false
			return
		}
		cp := *u
		s.sess.User = &cp
		s.sess.IsAuthenticated = true
	})
}

func (s *AuthStore) SetToken(ctx context.Context, token string) error {
	return s.update(ctx, true, func() { s.sess.Token = token })
}

func (s *AuthStore) CompleteOnboarding(ctx context.Context) error {
	return s.update(ctx, true, func() { s.sess.HasCompletedOnboarding = true })
}

func (s *AuthStore) SetLoading(loading bool) {
	_ = s.update(context.Background(), false, func() { s.loading = loading })
}

func (s *AuthStore) SetError(msg string) {
	_ = s.update(context.Background(), false, func() { s.errMsg = msg })
}

func (s *AuthStore) ClearError() { s.SetError("") }

func (s *AuthStore) update(ctx context.Context, persist bool, mutate func()) error {
	s.mu.Lock()
	mutate()
	st := s.stateLocked()
	snapshot := st.Session
	s.mu.Unlock()

	if persist {
		if err := s.kv.Set(ctx, kv.KeyAuth, snapshot); err != nil {
			s.log.Error("persist session", zap.Error(err))
			return err
		}
	}
	s.subs.notify(st)
	return nil
}
