package loanmock

import (
	"context"
	"time"

	domain "altrion-client/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset reads return domain.ErrNotFound, unset writes succeed.
type Repo struct {
	CreateFn       func(ctx context.Context, a *domain.Application) error
	GetByIDFn      func(ctx context.Context, id string) (*domain.Application, error)
	ListFn         func(ctx context.Context) ([]domain.Application, error)
	UpdateStatusFn func(ctx context.Context, id string, s domain.Status, at time.Time) error
	DeleteAllFn    func(ctx context.Context) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context) ([]domain.Application, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) UpdateStatus(ctx context.Context, id string, s domain.Status, at time.Time) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, s, at)
	}
	return nil
}

func (m *Repo) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(ctx)
	}
	return nil
}
