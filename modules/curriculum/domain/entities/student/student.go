package student

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID        uuid.UUID
	Code      string
	FirstName string
	LastName  string
	Email     string
	GroupCode string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FindParams struct {
	Search    string
	GroupCode string
	Limit     int
	Offset    int
}

type Repository interface {
	Upsert(ctx context.Context, s *Student) error
	GetByCode(ctx context.Context, code string) (*Student, error)
	List(ctx context.Context, params *FindParams) ([]*Student, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
