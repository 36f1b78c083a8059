// Package platform manages platform connections through the backend.
package platform

import (
	"context"
	"net/url"

	"altrion-client/internal/domain/form"
	domain "altrion-client/internal/domain/platform"
)

type API interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Service struct{ api API }

func New(api API) *Service { return &Service{api: api} }

func platformPath(id, suffix string) string {
	return "/platforms/" + url.PathEscape(id) + suffix
}

func (s *Service) Catalog(ctx context.Context) (*domain.Catalog, error) {
	var out domain.Catalog
	if err := s.api.Get(ctx, "/platforms", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Connected(ctx context.Context) ([]domain.Platform, error) {
	var out []domain.Platform
	if err := s.api.Get(ctx, "/platforms/connected", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConnectWithCredentials links a bank or broker with a username/password exchange.
func (s *Service) ConnectWithCredentials(ctx context.Context, id string, c domain.Credentials) (*domain.ConnectionResult, error) {
	if err := form.Check(c); err != nil {
		return nil, err
	}
	return s.connect(ctx, platformPath(id, "/connect"), id, c)
}

// ConnectWithAPIKey links a crypto exchange with an API key exchange.
func (s *Service) ConnectWithAPIKey(ctx context.Context, id string, k domain.APIKey) (*domain.ConnectionResult, error) {
	if err := form.Check(k); err != nil {
		return nil, err
	}
	return s.connect(ctx, platformPath(id, "/connect-api"), id, k)
}

func (s *Service) connect(ctx context.Context, path, id string, body any) (*domain.ConnectionResult, error) {
	var out domain.ConnectionResult
	if err := s.api.Post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	if out.PlatformID == "" {
		out.PlatformID = id
	}
	return &out, nil
}

func (s *Service) Disconnect(ctx context.Context, id string) error {
	return s.api.Delete(ctx, platformPath(id, "/connection"), nil)
}

func (s *Service) Verify(ctx context.Context, id string) (*domain.ConnectionResult, error) {
	var out domain.ConnectionResult
	if err := s.api.Get(ctx, platformPath(id, "/verify"), nil, &out); err != nil {
		return nil, err
	}
	if out.PlatformID == "" {
		out.PlatformID = id
	}
	return &out, nil
}

func (s *Service) Sync(ctx context.Context, id string) (*domain.SyncResult, error) {
	var out domain.SyncResult
	if err := s.api.Post(ctx, platformPath(id, "/sync"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
