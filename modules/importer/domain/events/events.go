package events

import (
	"github.com/google/uuid"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
)

// TaskFinished is published on the in-process event bus after a task reaches
// its terminal state.
type TaskFinished struct {
	TaskID     uuid.UUID
	Status     importtask.Status
	ErrorCount int
}
