package persistence

import (
	"github.com/google/uuid"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/mapping"
)

func toDomainImportTask(row *models.ImportTask) *importtask.ImportTask {
	return &importtask.ImportTask{
		ID:          uuid.MustParse(row.ID),
		SubmitterID: row.SubmitterID,
		CampusID:    row.CampusID.String,
		FileName:    row.FileName,
		Description: row.Description.String,
		Status:      importtask.Status(row.Status),
		ErrorCount:  int(row.ErrorCount),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toDomainTaskError(row *models.TaskError) *importtask.TaskError {
	return &importtask.TaskError{
		ID:        row.ID,
		TaskID:    uuid.MustParse(row.TaskID),
		Row:       int(row.Row),
		Column:    mapping.SQLNullStringToPointer(row.Column),
		Kind:      importtask.ErrorKind(row.Kind),
		Message:   row.Message,
		Severity:  importtask.Severity(row.Severity),
		CreatedAt: row.CreatedAt,
	}
}
