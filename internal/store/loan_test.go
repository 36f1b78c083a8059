package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"altrion-client/internal/domain/loan"
	"altrion-client/internal/testutil/loanmock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reAppID = regexp.MustCompile(`^ALT-[A-Z0-9]{8}$`)

func newLoanStore(t *testing.T) *LoanStore {
	t.Helper()
	s := NewLoanStore(newRepo(t), newKV(t), nil)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func draft(amount float64) loan.Draft {
	return loan.Draft{
		TotalCollateral: amount * 2,
		LoanAmount:      amount,
		InterestRate:    8.5,
		LTV:             50,
		SelectedAssets:  []loan.SelectedAsset{{Name: "Bitcoin", Symbol: "BTC", Amount: 1, Value: amount * 2}},
	}
}

func TestLoanStore_AddAssignsIDAndPending(t *testing.T) {
	s := newLoanStore(t)
	var events []LoanEvent
	s.Subscribe(func(e LoanEvent) { events = append(events, e) })

	a, err := s.Add(context.Background(), draft(1000))
	require.NoError(t, err)
	assert.Regexp(t, reAppID, a.ID)
	assert.Equal(t, loan.StatusPending, a.Status)
	assert.Equal(t, a.SubmittedAt, a.UpdatedAt)
	require.Len(t, events, 1)
	assert.Equal(t, a.ID, events[0].ID)
}

func TestLoanStore_ListNewestFirstAndSelectors(t *testing.T) {
	ctx := context.Background()
	s := newLoanStore(t)
	first, _ := s.Add(ctx, draft(1000))
	second, _ := s.Add(ctx, draft(2000))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	require.NoError(t, s.UpdateStatus(ctx, first.ID, loan.StatusActive))
	pending, _ := s.Pending(ctx)
	active, _ := s.Active(ctx)
	require.Len(t, pending, 1)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, pending[0].ID)
	assert.Equal(t, first.ID, active[0].ID)

	got, _ := s.Get(ctx, first.ID)
	assert.True(t, got.UpdatedAt.After(got.SubmittedAt))
}

func TestLoanStore_UpdateStatusValidates(t *testing.T) {
	s := newLoanStore(t)
	err := s.UpdateStatus(context.Background(), "ALT-00000000", loan.Status("archived"))
	assert.True(t, errors.Is(err, loan.ErrInvalidStatus))

	err = s.UpdateStatus(context.Background(), "ALT-00000000", loan.StatusApproved)
	assert.True(t, errors.Is(err, loan.ErrNotFound))
}

func TestLoanStore_ActiveLoanAndClear(t *testing.T) {
	ctx := context.Background()
	s := newLoanStore(t)

	none, err := s.ActiveLoan(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	a, _ := s.Add(ctx, draft(500))
	require.NoError(t, s.SetActive(ctx, a))
	got, err := s.ActiveLoan(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	require.NoError(t, s.Clear(ctx))
	list, _ := s.List(ctx)
	assert.Empty(t, list)
	got, err = s.ActiveLoan(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoanStore_RepositoryFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	notified := 0
	repo := &loanmock.Repo{
		CreateFn: func(context.Context, *loan.Application) error { return boom },
		UpdateStatusFn: func(context.Context, string, loan.Status, time.Time) error {
			return loan.ErrNotFound
		},
	}
	s := NewLoanStore(repo, newKV(t), nil)
	defer s.Subscribe(func(LoanEvent) { notified++ })()

	_, err := s.Add(ctx, draft(100))
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.UpdateStatus(ctx, "ALT-MISSING1", loan.StatusApproved), loan.ErrNotFound)
	assert.Zero(t, notified)
}

func TestLoanStore_ActiveLoanDroppedWhenApplicationGone(t *testing.T) {
	ctx := context.Background()
	repo := &loanmock.Repo{}
	s := NewLoanStore(repo, newKV(t), nil)

	require.NoError(t, s.SetActive(ctx, &loan.Application{ID: "ALT-GONE0000"}))
	got, err := s.ActiveLoan(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
