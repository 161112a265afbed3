package classroom

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Classroom struct {
	ID           uuid.UUID
	Code         string
	Name         string
	BuildingCode string
	Capacity     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type FindParams struct {
	Search       string
	BuildingCode string
	Limit        int
	Offset       int
}

type Repository interface {
	Upsert(ctx context.Context, c *Classroom) error
	GetByCode(ctx context.Context, code string) (*Classroom, error)
	List(ctx context.Context, params *FindParams) ([]*Classroom, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
