package importtask

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the task lifecycle state. A task is created QUEUED and moves to
// exactly one of COMPLETED or FAILED, never back.
type Status string

const (
	StatusQueued    Status = "QUEUED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// ErrorKind is the stable error vocabulary surfaced to operators. It stays
// fixed even if the storage engine underneath is swapped.
type ErrorKind string

const (
	KindDuplicateKey        ErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolation ErrorKind = "FOREIGN_KEY_VIOLATION"
	KindFieldTooLong        ErrorKind = "FIELD_TOO_LONG"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindUnknownStorage      ErrorKind = "UNKNOWN_STORAGE_ERROR"
	KindUnknown             ErrorKind = "UNKNOWN"
	KindValidation          ErrorKind = "VALIDATION_ERROR"
	KindStale               ErrorKind = "STALE"
)

var (
	ErrTaskNotFound  = errors.New("import task not found")
	ErrTaskNotQueued = errors.New("import task already finished")
)

// ImportTask is one asynchronous import request and its outcome.
type ImportTask struct {
	ID          uuid.UUID
	SubmitterID string
	CampusID    string
	FileName    string
	Description string
	Status      Status
	ErrorCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskError is one row-level failure attached to a task. Row is 1-based.
type TaskError struct {
	ID        int64
	TaskID    uuid.UUID
	Row       int
	Column    *string
	Kind      ErrorKind
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

type FindParams struct {
	Status      Status
	SubmitterID string
	CampusID    string
	Limit       int
	Offset      int
}

type Repository interface {
	Create(ctx context.Context, task *ImportTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*ImportTask, error)
	List(ctx context.Context, params *FindParams) ([]*ImportTask, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	// Delete removes the task; its errors cascade with it.
	Delete(ctx context.Context, id uuid.UUID) error

	ListErrors(ctx context.Context, taskID uuid.UUID) ([]*TaskError, error)

	// Complete performs the terminal transition: status, error count and the
	// TaskError rows are written in the caller's transaction. It applies only
	// while the task is still QUEUED and returns ErrTaskNotQueued otherwise,
	// which keeps redelivered result messages idempotent.
	Complete(ctx context.Context, taskID uuid.UUID, status Status, taskErrors []*TaskError) error

	// FailStale ages out tasks stuck in QUEUED longer than the cutoff,
	// marking them FAILED with a single STALE error each.
	FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error)
}
