package course

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID             uuid.UUID
	Code           string
	Name           string
	DepartmentCode string
	WeeklyHours    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type FindParams struct {
	Search         string
	DepartmentCode string
	Limit          int
	Offset         int
}

type Repository interface {
	Upsert(ctx context.Context, c *Course) error
	GetByCode(ctx context.Context, code string) (*Course, error)
	List(ctx context.Context, params *FindParams) ([]*Course, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
