package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	// List returns applications newest first.
	List(ctx context.Context) ([]Application, error)
	UpdateStatus(ctx context.Context, id string, s Status, at time.Time) error
	DeleteAll(ctx context.Context) error
}
