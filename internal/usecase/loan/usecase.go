package loan

import (
	"context"
	"errors"
	"strings"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/form"
	domain "altrion-client/internal/domain/loan"
)

// Applications is the loan store surface behind the loans screen.
type Applications interface {
	List(ctx context.Context) ([]domain.Application, error)
	Get(ctx context.Context, id string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, id string, st domain.Status) error
	ActiveLoan(ctx context.Context) (*domain.Application, error)
}

type Usecase struct{ apps Applications }

func NewUsecase(apps Applications) *Usecase { return &Usecase{apps: apps} }

func (u *Usecase) Overview(ctx context.Context) (*Overview, error) {
	all, err := u.apps.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := u.apps.ActiveLoan(ctx)
	if err != nil {
		return nil, err
	}
	activeID := ""
	if active != nil {
		activeID = active.ID
	}

	out := &Overview{Applications: make([]ApplicationDTO, 0, len(all))}
	for _, a := range all {
		dto := toDTO(a, activeID)
		out.Applications = append(out.Applications, dto)
		switch a.Status {
		case domain.StatusPending:
			out.PendingCount++
		case domain.StatusActive:
			out.ActiveCount++
		}
		if dto.Active {
			cp := dto
			out.ActiveLoan = &cp
		}
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, id string) (*ApplicationDTO, error) {
	a, err := u.apps.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	active, err := u.apps.ActiveLoan(ctx)
	if err != nil {
		return nil, err
	}
	activeID := ""
	if active != nil {
		activeID = active.ID
	}
	dto := toDTO(*a, activeID)
	return &dto, nil
}

// UpdateStatus moves an application to a new status and returns it.
func (u *Usecase) UpdateStatus(ctx context.Context, id string, in UpdateStatusInput) (*ApplicationDTO, error) {
	if err := form.Check(in); err != nil {
		return nil, err
	}
	st := domain.Status(strings.ToLower(strings.TrimSpace(in.Status)))
	if err := u.apps.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			return nil, apperr.NewValidationError("status", "must be one of: pending approved rejected active completed")
		}
		return nil, err
	}
	return u.Get(ctx, id)
}
