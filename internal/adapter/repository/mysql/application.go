package mysql

import (
	"context"
	"errors"
	"time"

	loanDomain "altrion-client/internal/domain/loan"

	"gorm.io/gorm"
)

var _ loanDomain.Repository = (*ApplicationRepository)(nil)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*loanDomain.Application, error) {
	var out loanDomain.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ApplicationRepository) List(ctx context.Context) ([]loanDomain.Application, error) {
	var out []loanDomain.Application
	err := r.db.WithContext(ctx).
		Order("submitted_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, s loanDomain.Status, at time.Time) error {
	if !s.Valid() {
		return loanDomain.ErrInvalidStatus
	}
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": s, "updated_at": at.UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&loanDomain.Application{}).Error
}
