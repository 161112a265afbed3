package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campusware/campus/modules/curriculum/domain/entities/teacher"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/repo"
)

var ErrTeacherNotFound = errors.New("teacher not found")

const (
	teacherFindQuery = `
		SELECT t.id, t.code, t.person_id, t.department_code, t.created_at, t.updated_at,
		       p.first_name, p.last_name, p.email
		FROM teachers t
		JOIN persons p ON p.id = t.person_id`
)

type TeacherRepository struct{}

func NewTeacherRepository() teacher.Repository {
	return &TeacherRepository{}
}

// Upsert writes the person identity and the teacher record together. Both
// statements run on the caller's transaction, so a failure on either leaves
// no partial row behind.
func (r *TeacherRepository) Upsert(ctx context.Context, t *teacher.Teacher) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	var personID string
	err = tx.QueryRow(ctx, `SELECT person_id FROM teachers WHERE code = $1`, t.Code).Scan(&personID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		personID = uuid.New().String()
		if _, err := tx.Exec(ctx, `
			INSERT INTO persons (id, first_name, last_name, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())`,
			personID, t.FirstName, t.LastName, t.Email,
		); err != nil {
			return err
		}
		teacherID := t.ID
		if teacherID == uuid.Nil {
			teacherID = uuid.New()
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO teachers (id, code, person_id, department_code, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())`,
			teacherID.String(), t.Code, personID, t.DepartmentCode,
		)
		return err
	case err != nil:
		return err
	default:
		if _, err := tx.Exec(ctx, `
			UPDATE persons
			SET first_name = $1, last_name = $2, email = $3, updated_at = now()
			WHERE id = $4`,
			t.FirstName, t.LastName, t.Email, personID,
		); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE teachers SET department_code = $1, updated_at = now() WHERE code = $2`,
			t.DepartmentCode, t.Code,
		)
		return err
	}
}

func (r *TeacherRepository) GetByCode(ctx context.Context, code string) (*teacher.Teacher, error) {
	teachers, err := r.queryTeachers(ctx, teacherFindQuery+" WHERE t.code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(teachers) == 0 {
		return nil, ErrTeacherNotFound
	}
	return teachers[0], nil
}

func (r *TeacherRepository) Exists(ctx context.Context, code string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE code = $1)`, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *TeacherRepository) List(ctx context.Context, params *teacher.FindParams) ([]*teacher.Teacher, error) {
	where, args := buildTeacherFilters(params)
	query := teacherFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY t.code"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryTeachers(ctx, query, args...)
}

func (r *TeacherRepository) Count(ctx context.Context, params *teacher.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildTeacherFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM teachers t JOIN persons p ON p.id = t.person_id WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TeacherRepository) queryTeachers(ctx context.Context, query string, args ...interface{}) ([]*teacher.Teacher, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*teacher.Teacher
	for rows.Next() {
		var row models.Teacher
		if err := rows.Scan(
			&row.ID, &row.Code, &row.PersonID, &row.DepartmentCode, &row.CreatedAt, &row.UpdatedAt,
			&row.FirstName, &row.LastName, &row.Email,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainTeacher(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildTeacherFilters(params *teacher.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params == nil {
		return where, args
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf(
			"(t.code ILIKE $%d OR p.first_name ILIKE $%d OR p.last_name ILIKE $%d OR p.email ILIKE $%d)",
			len(args), len(args), len(args), len(args),
		))
	}
	if params.DepartmentCode != "" {
		args = append(args, params.DepartmentCode)
		where = append(where, fmt.Sprintf("t.department_code = $%d", len(args)))
	}
	return where, args
}
