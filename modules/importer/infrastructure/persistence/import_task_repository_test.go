package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/infrastructure/persistence/models"
)

func TestBuildImportTaskFilters(t *testing.T) {
	where, args := buildImportTaskFilters(nil)
	require.Equal(t, []string{"1 = 1"}, where)
	require.Empty(t, args)

	where, args = buildImportTaskFilters(&importtask.FindParams{
		Status:      importtask.StatusQueued,
		SubmitterID: "admin-1",
		CampusID:    "north",
	})
	require.Equal(t, []string{"1 = 1", "status = $1", "submitter_id = $2", "campus_id = $3"}, where)
	require.Equal(t, []interface{}{"QUEUED", "admin-1", "north"}, args)

	where, args = buildImportTaskFilters(&importtask.FindParams{CampusID: "north"})
	require.Equal(t, []string{"1 = 1", "campus_id = $1"}, where)
	require.Equal(t, []interface{}{"north"}, args)
}

func TestToDomainImportTask(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	task := toDomainImportTask(&models.ImportTask{
		ID:          id.String(),
		SubmitterID: "admin-1",
		CampusID:    sql.NullString{String: "north", Valid: true},
		FileName:    "teachers.xlsx",
		Description: sql.NullString{},
		Status:      "COMPLETED",
		ErrorCount:  3,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	require.Equal(t, id, task.ID)
	require.Equal(t, "north", task.CampusID)
	require.Empty(t, task.Description)
	require.Equal(t, importtask.StatusCompleted, task.Status)
	require.Equal(t, 3, task.ErrorCount)
}

func TestToDomainTaskError(t *testing.T) {
	taskID := uuid.New()
	row := toDomainTaskError(&models.TaskError{
		ID:       7,
		TaskID:   taskID.String(),
		Row:      12,
		Column:   sql.NullString{String: "email", Valid: true},
		Kind:     "DUPLICATE_KEY",
		Message:  "duplicate email",
		Severity: "ERROR",
	})

	require.Equal(t, int64(7), row.ID)
	require.Equal(t, taskID, row.TaskID)
	require.Equal(t, 12, row.Row)
	require.NotNil(t, row.Column)
	require.Equal(t, "email", *row.Column)
	require.Equal(t, importtask.KindDuplicateKey, row.Kind)

	noColumn := toDomainTaskError(&models.TaskError{
		TaskID: taskID.String(), Kind: "STALE", Severity: "ERROR",
	})
	require.Nil(t, noColumn.Column)
}
