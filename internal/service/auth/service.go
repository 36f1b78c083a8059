// Package auth talks to the backend /auth endpoints and normalizes its response shapes.
package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/form"
	"altrion-client/internal/domain/session"
	"altrion-client/internal/logger"

	"go.uber.org/zap"
)

const tokenLifetime = 7 * 24 * time.Hour

// API is the subset of the backend client this service needs.
type API interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

type Service struct {
	api     API
	baseURL string
	log     *zap.Logger
	now     func() time.Time
}

func New(api API, baseURL string, log *zap.Logger) *Service {
	return &Service{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

// backend shapes

type backendUser struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Avatar          *string `json:"avatar"`
	Provider        string  `json:"provider"`
	IsEmailVerified bool    `json:"isEmailVerified"`
}

type backendAuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		User         backendUser `json:"user"`
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
	} `json:"data"`
}

type backendUserResponse struct {
	Success bool `json:"success"`
	Data    struct {
		User backendUser `json:"user"`
	} `json:"data"`
}

func (s *Service) toUser(u backendUser) session.User {
	now := s.now().UTC()
	out := session.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		DisplayName: session.DisplayNameFor(u.Name, u.Email),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if u.Avatar != nil {
		out.Avatar = *u.Avatar
	}
	return out
}

func (s *Service) toAuthResponse(r backendAuthResponse) *session.AuthResponse {
	return &session.AuthResponse{
		User: s.toUser(r.Data.User),
		Tokens: session.Tokens{
			AccessToken:  r.Data.AccessToken,
			RefreshToken: r.Data.RefreshToken,
			ExpiresAt:    s.now().Add(tokenLifetime).UnixMilli(),
		},
	}
}

func (s *Service) Login(ctx context.Context, in form.Login) (*session.AuthResponse, error) {
	if err := form.Check(in); err != nil {
		return nil, err
	}
	var out backendAuthResponse
	err := s.api.Post(ctx, "/auth/signin", map[string]string{
		"email":    in.Email,
		"password": in.Password,
	}, &out)
	if err != nil {
		return nil, withMessage(err, "Invalid credentials")
	}
	return s.toAuthResponse(out), nil
}

func (s *Service) Signup(ctx context.Context, in form.Signup) (*session.AuthResponse, error) {
	if err := form.Check(in); err != nil {
		return nil, err
	}
	var out backendAuthResponse
	err := s.api.Post(ctx, "/auth/signup", map[string]string{
		"email":    in.Email,
		"password": in.Password,
		"name":     in.Name,
	}, &out)
	if err != nil {
		return nil, withMessage(err, "Registration failed")
	}
	return s.toAuthResponse(out), nil
}

// Logout tells the backend the session ended. Failures are logged and dropped;
// the local session is cleared regardless.
func (s *Service) Logout(ctx context.Context) {
	if err := s.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
		s.log.Warn("logout call failed", zap.Error(err))
	}
}

func (s *Service) Me(ctx context.Context) (*session.User, error) {
	var out backendUserResponse
	if err := s.api.Get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	u := s.toUser(out.Data.User)
	return &u, nil
}

// Refresh re-reads the profile; the backend has no token rotation endpoint,
// so the refresh token is reused as the access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*session.AuthResponse, error) {
	u, err := s.Me(ctx)
	if err != nil {
		return nil, err
	}
	return &session.AuthResponse{
		User: *u,
		Tokens: session.Tokens{
			AccessToken:  refreshToken,
			RefreshToken: refreshToken,
			ExpiresAt:    s.now().Add(tokenLifetime).UnixMilli(),
		},
	}, nil
}

// OAuthURL is the backend URL that starts the provider's OAuth flow.
func (s *Service) OAuthURL(p session.OAuthProvider) (string, error) {
	if !p.Valid() {
		return "", apperr.NewValidationError("provider", "must be one of: google github")
	}
	return s.baseURL + "/auth/" + string(p), nil
}

func (s *Service) ForgotPassword(_ context.Context, in form.ForgotPassword) error {
	if err := form.Check(in); err != nil {
		return err
	}
	return notImplemented()
}

func (s *Service) ResetPassword(_ context.Context, in form.ResetPassword) error {
	if err := form.Check(in); err != nil {
		return err
	}
	return notImplemented()
}

func notImplemented() error {
	const msg = "Password reset not implemented yet"
	return apperr.NewAPIError(http.StatusNotImplemented, msg, map[string]any{"message": msg})
}

// withMessage rewrites an APIError so its message is the backend's, or fallback.
func withMessage(err error, fallback string) error {
	var apiErr *apperr.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	msg := apiErr.Message()
	if msg == "" {
		msg = fallback
	}
	return apperr.NewAPIError(apiErr.Status, msg, map[string]any{"message": msg})
}
