// Package messages defines the wire contracts shared with the external
// validation worker. Field names follow the worker's JSON conventions and
// must not change without coordinating both sides.
package messages

import (
	"encoding/json"
	"fmt"
)

// Category tags a batch of rows with the entity type it seeds.
type Category string

const (
	CategoryDepartment            Category = "DEPARTMENT"
	CategoryCourse                Category = "COURSE"
	CategoryTeacher               Category = "TEACHER"
	CategoryClassroom             Category = "CLASSROOM"
	CategoryStudentGroup          Category = "STUDENT_GROUP"
	CategoryStudent               Category = "STUDENT"
	CategoryGroupCourseAssignment Category = "GROUP_COURSE_ASSIGNMENT"
)

func Categories() []Category {
	return []Category{
		CategoryDepartment,
		CategoryCourse,
		CategoryTeacher,
		CategoryClassroom,
		CategoryStudentGroup,
		CategoryStudent,
		CategoryGroupCourseAssignment,
	}
}

func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown import category %q", raw)
}

// ImportRequest is the outbound fire-and-forget message to the validator.
// FileData carries the uploaded bytes base64-encoded so the payload survives
// the JSON hop across the process boundary.
type ImportRequest struct {
	TaskID      string `json:"taskId"`
	FileData    string `json:"fileData"`
	Category    string `json:"category"`
	SubmitterID string `json:"submitterId"`
	CampusID    string `json:"campusId,omitempty"`
}

// WorkerError is one validation failure reported by the worker. All fields
// are optional on the wire; the consumer fills defaults.
type WorkerError struct {
	Row      *int    `json:"row,omitempty"`
	Column   *string `json:"column,omitempty"`
	Message  *string `json:"message,omitempty"`
	Severity *string `json:"severity,omitempty"`
}

// ValidationResult is the worker's verdict for one task's file.
type ValidationResult struct {
	Success bool              `json:"success"`
	Type    Category          `json:"type"`
	Data    []json.RawMessage `json:"data,omitempty"`
	Errors  []WorkerError     `json:"errors,omitempty"`
}

// ResultEnvelope correlates a validation result back to a task. TaskID is the
// sole correlation key and is treated as a capability token.
type ResultEnvelope struct {
	TaskID   string           `json:"taskId"`
	Result   ValidationResult `json:"result"`
	AdminID  string           `json:"adminId"`
	CampusID string           `json:"campusId,omitempty"`
}
