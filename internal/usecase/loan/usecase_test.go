package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"altrion-client/internal/domain/apperr"
	domain "altrion-client/internal/domain/loan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----- test doubles -----

type mockApps struct {
	ListFn         func(ctx context.Context) ([]domain.Application, error)
	GetFn          func(ctx context.Context, id string) (*domain.Application, error)
	UpdateStatusFn func(ctx context.Context, id string, st domain.Status) error
	ActiveLoanFn   func(ctx context.Context) (*domain.Application, error)
}

func (m *mockApps) List(ctx context.Context) ([]domain.Application, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *mockApps) Get(ctx context.Context, id string) (*domain.Application, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockApps) UpdateStatus(ctx context.Context, id string, st domain.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, st)
	}
	return nil
}

func (m *mockApps) ActiveLoan(ctx context.Context) (*domain.Application, error) {
	if m.ActiveLoanFn != nil {
		return m.ActiveLoanFn(ctx)
	}
	return nil, nil
}

func app(id string, st domain.Status) domain.Application {
	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return domain.Application{ID: id, LoanAmount: 1000, Status: st, SubmittedAt: at, UpdatedAt: at}
}

// ----- tests -----

func TestOverview_CountsAndActive(t *testing.T) {
	apps := []domain.Application{
		app("ALT-00000003", domain.StatusActive),
		app("ALT-00000002", domain.StatusPending),
		app("ALT-00000001", domain.StatusPending),
	}
	uc := NewUsecase(&mockApps{
		ListFn: func(ctx context.Context) ([]domain.Application, error) { return apps, nil },
		ActiveLoanFn: func(ctx context.Context) (*domain.Application, error) {
			a := apps[0]
			return &a, nil
		},
	})

	ov, err := uc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, ov.Applications, 3)
	assert.Equal(t, 2, ov.PendingCount)
	assert.Equal(t, 1, ov.ActiveCount)
	require.NotNil(t, ov.ActiveLoan)
	assert.Equal(t, "ALT-00000003", ov.ActiveLoan.ID)
	assert.True(t, ov.Applications[0].Active)
	assert.False(t, ov.Applications[1].Active)
}

func TestOverview_ListError(t *testing.T) {
	boom := errors.New("db down")
	uc := NewUsecase(&mockApps{
		ListFn: func(ctx context.Context) ([]domain.Application, error) { return nil, boom },
	})
	_, err := uc.Overview(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGet_NotFound(t *testing.T) {
	uc := NewUsecase(&mockApps{})
	_, err := uc.Get(context.Background(), "ALT-MISSING0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus_Success(t *testing.T) {
	current := app("ALT-00000001", domain.StatusPending)
	uc := NewUsecase(&mockApps{
		UpdateStatusFn: func(ctx context.Context, id string, st domain.Status) error {
			if id != current.ID {
				return domain.ErrNotFound
			}
			current.Status = st
			return nil
		},
		GetFn: func(ctx context.Context, id string) (*domain.Application, error) {
			a := current
			return &a, nil
		},
	})

	dto, err := uc.UpdateStatus(context.Background(), "ALT-00000001", UpdateStatusInput{Status: " Approved "})
	require.NoError(t, err)
	assert.Equal(t, "approved", dto.Status)
}

func TestUpdateStatus_Invalid(t *testing.T) {
	uc := NewUsecase(&mockApps{
		UpdateStatusFn: func(ctx context.Context, id string, st domain.Status) error {
			if !st.Valid() {
				return domain.ErrInvalidStatus
			}
			return nil
		},
	})

	var verr *apperr.ValidationError
	_, err := uc.UpdateStatus(context.Background(), "ALT-00000001", UpdateStatusInput{})
	assert.ErrorAs(t, err, &verr, "empty status")
	_, err = uc.UpdateStatus(context.Background(), "ALT-00000001", UpdateStatusInput{Status: "funded"})
	assert.ErrorAs(t, err, &verr, "unknown status")
}
