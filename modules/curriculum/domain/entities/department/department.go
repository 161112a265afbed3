package department

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	// Upsert creates the department or updates it in place, keyed by Code.
	Upsert(ctx context.Context, d *Department) error
	GetByCode(ctx context.Context, code string) (*Department, error)
	List(ctx context.Context, params *FindParams) ([]*Department, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
