package studentgroup

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type StudentGroup struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Year      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FindParams struct {
	Search string
	Year   int
	Limit  int
	Offset int
}

type Repository interface {
	Upsert(ctx context.Context, g *StudentGroup) error
	GetByCode(ctx context.Context, code string) (*StudentGroup, error)
	Exists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, params *FindParams) ([]*StudentGroup, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
