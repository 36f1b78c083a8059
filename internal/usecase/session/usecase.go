// Package session runs sign-in, sign-up, onboarding and sign-out across the
// auth service and the local stores.
package session

import (
	"context"
	"errors"
	"strings"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/form"
	domain "altrion-client/internal/domain/session"
	"altrion-client/internal/logger"

	"go.uber.org/zap"
)

const (
	RouteLogin      = "/login"
	RouteOnboarding = "/onboarding"
	RouteDashboard  = "/dashboard"
)

// AuthAPI is the backend auth surface.
type AuthAPI interface {
	Login(ctx context.Context, in form.Login) (*domain.AuthResponse, error)
	Signup(ctx context.Context, in form.Signup) (*domain.AuthResponse, error)
	Logout(ctx context.Context)
	Me(ctx context.Context) (*domain.User, error)
	OAuthURL(p domain.OAuthProvider) (string, error)
	ForgotPassword(ctx context.Context, in form.ForgotPassword) error
	ResetPassword(ctx context.Context, in form.ResetPassword) error
}

// SessionStore holds the signed-in session.
type SessionStore interface {
	Login(ctx context.Context, u domain.User, token string) error
	Logout(ctx context.Context) error
	SetUser(ctx context.Context, u *domain.User) error
	CompleteOnboarding(ctx context.Context) error
	SetLoading(loading bool)
	SetError(msg string)
	Session() domain.Session
}

// Prefs holds the per-user preferences cleared on sign-out.
type Prefs interface {
	DisplayName(ctx context.Context) (string, error)
	SetDisplayName(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}

// Resetter is local state dropped on sign-out: caches, screen flows, snapshots.
type Resetter interface {
	Reset(ctx context.Context) error
}

// ResetFunc adapts a function to Resetter.
type ResetFunc func(ctx context.Context) error

func (f ResetFunc) Reset(ctx context.Context) error { return f(ctx) }

// Result is the session after an operation plus the screen to show next.
type Result struct {
	Session  domain.Session `json:"session"`
	Redirect string         `json:"redirect"`
}

type Usecase struct {
	api      AuthAPI
	sessions SessionStore
	prefs    Prefs
	resets   []Resetter
	log      *zap.Logger
}

func NewUsecase(api AuthAPI, sessions SessionStore, prefs Prefs, log *zap.Logger, resets ...Resetter) *Usecase {
	return &Usecase{api: api, sessions: sessions, prefs: prefs, resets: resets, log: logger.OrNop(log)}
}

// Login signs in and lands on the dashboard, or on onboarding when no display
// name was chosen yet.
func (u *Usecase) Login(ctx context.Context, in form.Login) (*Result, error) {
	resp, err := u.authenticate(func() (*domain.AuthResponse, error) { return u.api.Login(ctx, in) })
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Login(ctx, resp.User, resp.Tokens.AccessToken); err != nil {
		return nil, err
	}
	next := RouteDashboard
	if name, err := u.prefs.DisplayName(ctx); err != nil || name == "" {
		next = RouteOnboarding
	}
	return &Result{Session: u.sessions.Session(), Redirect: next}, nil
}

// Signup creates the account, signs in and always continues to onboarding.
func (u *Usecase) Signup(ctx context.Context, in form.Signup) (*Result, error) {
	resp, err := u.authenticate(func() (*domain.AuthResponse, error) { return u.api.Signup(ctx, in) })
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Login(ctx, resp.User, resp.Tokens.AccessToken); err != nil {
		return nil, err
	}
	return &Result{Session: u.sessions.Session(), Redirect: RouteOnboarding}, nil
}

func (u *Usecase) authenticate(call func() (*domain.AuthResponse, error)) (*domain.AuthResponse, error) {
	u.sessions.SetLoading(true)
	u.sessions.SetError("")
	defer u.sessions.SetLoading(false)

	resp, err := call()
	if err != nil {
		u.sessions.SetError(errorMessage(err))
		return nil, err
	}
	return resp, nil
}

// Onboard stores the chosen display name and marks onboarding done.
func (u *Usecase) Onboard(ctx context.Context, in form.Onboarding) (*Result, error) {
	if err := form.Check(in); err != nil {
		return nil, err
	}
	if err := u.prefs.SetDisplayName(ctx, strings.TrimSpace(in.DisplayName)); err != nil {
		return nil, err
	}
	if err := u.sessions.CompleteOnboarding(ctx); err != nil {
		return nil, err
	}
	return &Result{Session: u.sessions.Session(), Redirect: "/connect"}, nil
}

// Logout ends the session locally even when the backend call fails, then drops
// caches, preferences and screen state.
func (u *Usecase) Logout(ctx context.Context) (*Result, error) {
	u.api.Logout(ctx)

	var errs []error
	if err := u.sessions.Logout(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := u.prefs.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, r := range u.resets {
		if err := r.Reset(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		u.log.Warn("local sign-out incomplete", zap.Error(err))
		return nil, err
	}
	return &Result{Session: u.sessions.Session(), Redirect: RouteLogin}, nil
}

// Me refreshes the profile from the backend. A 401 signs the session out.
func (u *Usecase) Me(ctx context.Context) (*domain.User, error) {
	user, err := u.api.Me(ctx)
	if err != nil {
		var apiErr *apperr.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			if serr := u.sessions.SetUser(ctx, nil); serr != nil {
				u.log.Warn("sign out after 401", zap.Error(serr))
			}
		}
		return nil, err
	}
	if err := u.sessions.SetUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *Usecase) OAuthURL(provider string) (string, error) {
	return u.api.OAuthURL(domain.OAuthProvider(strings.ToLower(provider)))
}

func (u *Usecase) ForgotPassword(ctx context.Context, in form.ForgotPassword) error {
	return u.api.ForgotPassword(ctx, in)
}

func (u *Usecase) ResetPassword(ctx context.Context, in form.ResetPassword) error {
	return u.api.ResetPassword(ctx, in)
}

// Session returns the current session without touching the network.
func (u *Usecase) Session() domain.Session { return u.sessions.Session() }

// DisplayName is the chosen name, or "" when none.
func (u *Usecase) DisplayName(ctx context.Context) (string, error) {
	return u.prefs.DisplayName(ctx)
}

func errorMessage(err error) string {
	var apiErr *apperr.APIError
	if errors.As(err, &apiErr) {
		if m := apiErr.Message(); m != "" {
			return m
		}
	}
	return err.Error()
}
