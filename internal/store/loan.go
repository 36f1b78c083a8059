package store

import (
	"context"
	"errors"
	"time"

	"altrion-client/internal/domain/kv"
	"altrion-client/internal/domain/loan"
	"altrion-client/internal/logger"
	"altrion-client/pkg/id"

	"go.uber.org/zap"
)

// LoanEvent describes one change to the application list.
type LoanEvent struct {
	ID     string      `json:"id"`
	Status loan.Status `json:"status"`
}

type LoanStore struct {
	repo  loan.Repository
	kv    kv.Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string
	subs  notifier[LoanEvent]
}

func NewLoanStore(repo loan.Repository, store kv.Store, log *zap.Logger) *LoanStore {
	return &LoanStore{
		repo:  repo,
		kv:    store,
		log:   logger.OrNop(log),
		now:   time.Now,
		newID: id.NewApplicationID,
	}
}

func (s *LoanStore) Close() { s.subs.close() }

func (s *LoanStore) Subscribe(fn func(LoanEvent)) func() { return s.subs.Subscribe(fn) }

// Add records a new pending application and returns it.
func (s *LoanStore) Add(ctx context.Context, d loan.Draft) (*loan.Application, error) {
	now := s.now().UTC()
	a := &loan.Application{
		ID:              s.newID(),
		TotalCollateral: d.TotalCollateral,
		LoanAmount:      d.LoanAmount,
		InterestRate:    d.InterestRate,
		LTV:             d.LTV,
		SelectedAssets:  d.SelectedAssets,
		Status:          loan.StatusPending,
		SubmittedAt:     now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("loan application recorded", zap.String("id", a.ID), zap.Float64("loan_amount", a.LoanAmount))
	s.subs.notify(LoanEvent{ID: a.ID, Status: a.Status})
	return a, nil
}

func (s *LoanStore) UpdateStatus(ctx context.Context, appID string, st loan.Status) error {
	if !st.Valid() {
		return loan.ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, appID, st, s.now()); err != nil {
		return err
	}
	s.subs.notify(LoanEvent{ID: appID, Status: st})
	return nil
}

func (s *LoanStore) Get(ctx context.Context, appID string) (*loan.Application, error) {
	return s.repo.GetByID(ctx, appID)
}

// List returns every application, newest first.
func (s *LoanStore) List(ctx context.Context) ([]loan.Application, error) {
	return s.repo.List(ctx)
}

func (s *LoanStore) Pending(ctx context.Context) ([]loan.Application, error) {
	return s.byStatus(ctx, loan.StatusPending)
}

func (s *LoanStore) Active(ctx context.Context) ([]loan.Application, error) {
	return s.byStatus(ctx, loan.StatusActive)
}

func (s *LoanStore) byStatus(ctx context.Context, st loan.Status) ([]loan.Application, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]loan.Application, 0, len(all))
	for _, a := range all {
		if a.Status == st {
			out = append(out, a)
		}
	}
	return out, nil
}

// SetActive marks a as the active loan; nil clears it.
func (s *LoanStore) SetActive(ctx context.Context, a *loan.Application) error {
	if a == nil {
		return s.kv.Delete(ctx, kv.KeyActiveLoan)
	}
	return s.kv.Set(ctx, kv.KeyActiveLoan, a.ID)
}

// ActiveLoan returns the active application, or nil when none is set or it no
// longer exists.
func (s *LoanStore) ActiveLoan(ctx context.Context) (*loan.Application, error) {
	var appID string
	err := s.kv.Get(ctx, kv.KeyActiveLoan, &appID)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, appID)
	if errors.Is(err, loan.ErrNotFound) {
		return nil, nil
	}
	return a, err
}

// Clear drops every application and the active loan pointer.
func (s *LoanStore) Clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, kv.KeyActiveLoan); err != nil {
		return err
	}
	s.subs.notify(LoanEvent{})
	return nil
}
