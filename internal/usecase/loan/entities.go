package loan

import (
	"time"

	domain "altrion-client/internal/domain/loan"
)

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

type ApplicationDTO struct {
	ID              string                 `json:"id"`
	TotalCollateral float64                `json:"totalCollateral"`
	LoanAmount      float64                `json:"loanAmount"`
	InterestRate    float64                `json:"interestRate"`
	LTV             float64                `json:"ltv"`
	SelectedAssets  []domain.SelectedAsset `json:"selectedAssets"`
	Status          string                 `json:"status"`
	Active          bool                   `json:"active"`
	SubmittedAt     time.Time              `json:"submittedAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// Overview is the loans screen: every application newest first, plus the
// pending and active counts shown in its header.
type Overview struct {
	Applications []ApplicationDTO `json:"applications"`
	PendingCount int              `json:"pendingCount"`
	ActiveCount  int              `json:"activeCount"`
	ActiveLoan   *ApplicationDTO  `json:"activeLoan,omitempty"`
}

func toDTO(a domain.Application, activeID string) ApplicationDTO {
	return ApplicationDTO{
		ID:              a.ID,
		TotalCollateral: a.TotalCollateral,
		LoanAmount:      a.LoanAmount,
		InterestRate:    a.InterestRate,
		LTV:             a.LTV,
		SelectedAssets:  a.SelectedAssets,
		Status:          string(a.Status),
		Active:          a.ID == activeID,
		SubmittedAt:     a.SubmittedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
