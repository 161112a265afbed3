package models

import (
	"database/sql"
	"time"
)

type ImportTask struct {
	ID          string
	SubmitterID string
	CampusID    sql.NullString
	FileName    string
	Description sql.NullString
	Status      string
	ErrorCount  int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskError struct {
	ID        int64
	TaskID    string
	Row       int32
	Column    sql.NullString
	Kind      string
	Message   string
	Severity  string
	CreatedAt time.Time
}
