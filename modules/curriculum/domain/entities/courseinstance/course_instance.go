package courseinstance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CourseInstance is one concrete offering of a course template taught by a
// specific teacher. Its code is composed from the course, group and teacher
// codes, so re-deriving the same assignment is idempotent.
type CourseInstance struct {
	ID          uuid.UUID
	Code        string
	CourseCode  string
	TeacherCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type FindParams struct {
	CourseCode  string
	TeacherCode string
	GroupCode   string
	Limit       int
	Offset      int
}

type Repository interface {
	Upsert(ctx context.Context, ci *CourseInstance) error
	GetByCode(ctx context.Context, code string) (*CourseInstance, error)
	// LinkGroup attaches a student group to the instance; linking the same
	// pair twice is a no-op.
	LinkGroup(ctx context.Context, instanceCode, groupCode string) error
	List(ctx context.Context, params *FindParams) ([]*CourseInstance, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
