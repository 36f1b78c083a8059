// Package portfolio reads the aggregated portfolio from the backend.
package portfolio

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"altrion-client/internal/domain/apperr"
	domain "altrion-client/internal/domain/portfolio"
)

type API interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

type Service struct{ api API }

func New(api API) *Service { return &Service{api: api} }

func (s *Service) Portfolio(ctx context.Context) (*domain.Portfolio, error) {
	var out domain.Portfolio
	if err := s.api.Get(ctx, "/portfolio", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Asset returns nil without error when the backend does not know the id.
func (s *Service) Asset(ctx context.Context, id string) (*domain.Asset, error) {
	var out domain.Asset
	err := s.api.Get(ctx, "/portfolio/assets/"+url.PathEscape(id), nil, &out)
	var apiErr *apperr.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) LoanEligibility(ctx context.Context) (*domain.LoanEligibility, error) {
	var out domain.LoanEligibility
	if err := s.api.Get(ctx, "/portfolio/loan-eligibility", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) History(ctx context.Context, p domain.Period) ([]domain.HistoryPoint, error) {
	if !p.Valid() {
		return nil, apperr.NewValidationError("period", "must be one of: 1H 24H 7D 1M 1Y")
	}
	var out []domain.HistoryPoint
	if err := s.api.Get(ctx, "/portfolio/history", url.Values{"period": {string(p)}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Refresh asks the backend to re-pull balances from every connected platform.
func (s *Service) Refresh(ctx context.Context) (*domain.Portfolio, error) {
	var out domain.Portfolio
	if err := s.api.Post(ctx, "/portfolio/refresh", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
