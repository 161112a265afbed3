package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/mapping"
	"github.com/campusware/campus/pkg/repo"
)

const (
	importTaskFindQuery = `
		SELECT id, submitter_id, campus_id, file_name, description, status, error_count, created_at, updated_at
		FROM import_tasks`

	importTaskInsertQuery = `
		INSERT INTO import_tasks (id, submitter_id, campus_id, file_name, description, status, error_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, now(), now())
	`

	importTaskCompleteQuery = `
		UPDATE import_tasks
		SET status = $1, error_count = $2, updated_at = now()
		WHERE id = $3 AND status = 'QUEUED'
	`

	taskErrorInsertQuery = `
		INSERT INTO task_errors (task_id, row_number, column_name, kind, message, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`

	taskErrorFindQuery = `
		SELECT id, task_id, row_number, column_name, kind, message, severity, created_at
		FROM task_errors`
)

type ImportTaskRepository struct{}

func NewImportTaskRepository() importtask.Repository {
	return &ImportTaskRepository{}
}

func (r *ImportTaskRepository) Create(ctx context.Context, task *importtask.ImportTask) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		importTaskInsertQuery,
		task.ID.String(),
		task.SubmitterID,
		mapping.ValueToSQLNullString(task.CampusID),
		task.FileName,
		mapping.ValueToSQLNullString(task.Description),
		string(task.Status),
	)
	if err != nil {
		return errors.Wrap(err, "create import task")
	}
	return nil
}

func (r *ImportTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*importtask.ImportTask, error) {
	tasks, err := r.queryTasks(ctx, importTaskFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, importtask.ErrTaskNotFound
	}
	return tasks[0], nil
}

func (r *ImportTaskRepository) List(ctx context.Context, params *importtask.FindParams) ([]*importtask.ImportTask, error) {
	where, args := buildImportTaskFilters(params)
	query := importTaskFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at DESC"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryTasks(ctx, query, args...)
}

func (r *ImportTaskRepository) Count(ctx context.Context, params *importtask.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildImportTaskFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM import_tasks WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ImportTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM import_tasks WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return importtask.ErrTaskNotFound
	}
	return nil
}

func (r *ImportTaskRepository) ListErrors(ctx context.Context, taskID uuid.UUID) ([]*importtask.TaskError, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, taskErrorFindQuery+" WHERE task_id = $1 ORDER BY row_number, id", taskID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*importtask.TaskError
	for rows.Next() {
		var row models.TaskError
		if err := rows.Scan(
			&row.ID,
			&row.TaskID,
			&row.Row,
			&row.Column,
			&row.Kind,
			&row.Message,
			&row.Severity,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainTaskError(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ImportTaskRepository) Complete(
	ctx context.Context,
	taskID uuid.UUID,
	status importtask.Status,
	taskErrors []*importtask.TaskError,
) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, importTaskCompleteQuery, string(status), len(taskErrors), taskID.String())
	if err != nil {
		return errors.Wrap(err, "complete import task")
	}
	if tag.RowsAffected() == 0 {
		// Either the task is gone or it already reached a terminal state.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM import_tasks WHERE id = $1)`, taskID.String()).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return importtask.ErrTaskNotFound
		}
		return importtask.ErrTaskNotQueued
	}

	for _, e := range taskErrors {
		if _, err := tx.Exec(
			ctx,
			taskErrorInsertQuery,
			taskID.String(),
			e.Row,
			mapping.PointerToSQLNullString(e.Column),
			string(e.Kind),
			e.Message,
			string(e.Severity),
		); err != nil {
			return errors.Wrap(err, "insert task error")
		}
	}
	return nil
}

func (r *ImportTaskRepository) FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	rows, err := tx.Query(
		ctx,
		`UPDATE import_tasks
		 SET status = 'FAILED', error_count = 1, updated_at = now()
		 WHERE status = 'QUEUED' AND created_at < $1
		 RETURNING id`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if _, err := tx.Exec(
			ctx,
			taskErrorInsertQuery,
			id,
			0,
			mapping.PointerToSQLNullString(nil),
			string(importtask.KindStale),
			message,
			string(importtask.SeverityError),
		); err != nil {
			return 0, err
		}
	}
	return int64(len(ids)), nil
}

func (r *ImportTaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*importtask.ImportTask, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*importtask.ImportTask
	for rows.Next() {
		var row models.ImportTask
		if err := rows.Scan(
			&row.ID,
			&row.SubmitterID,
			&row.CampusID,
			&row.FileName,
			&row.Description,
			&row.Status,
			&row.ErrorCount,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainImportTask(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildImportTaskFilters(params *importtask.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params == nil {
		return where, args
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.SubmitterID != "" {
		args = append(args, params.SubmitterID)
		where = append(where, fmt.Sprintf("submitter_id = $%d", len(args)))
	}
	if params.CampusID != "" {
		args = append(args, params.CampusID)
		where = append(where, fmt.Sprintf("campus_id = $%d", len(args)))
	}
	return where, args
}
