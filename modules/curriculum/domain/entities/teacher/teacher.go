package teacher

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Teacher is the staff record plus its person identity. A teacher upsert
// writes both the person and the teacher row in one transaction.
type Teacher struct {
	ID             uuid.UUID
	Code           string
	FirstName      string
	LastName       string
	Email          string
	DepartmentCode string
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
	Upsert(ctx context.Context, t *Teacher) error
	GetByCode(ctx context.Context, code string) (*Teacher, error)
	Exists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, params *FindParams) ([]*Teacher, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
