package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campusware/campus/modules/curriculum/domain/entities/student"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/repo"
)

var ErrStudentNotFound = errors.New("student not found")

const (
	studentFindQuery = `
		SELECT s.id, s.code, s.person_id, s.group_code, s.created_at, s.updated_at,
		       p.first_name, p.last_name, p.email
		FROM students s
		JOIN persons p ON p.id = s.person_id`
)

type StudentRepository struct{}

func NewStudentRepository() student.Repository {
	return &StudentRepository{}
}

// Upsert mirrors the teacher repository: person identity and student record
// are written together on the caller's transaction.
func (r *StudentRepository) Upsert(ctx context.Context, s *student.Student) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	var personID string
	err = tx.QueryRow(ctx, `SELECT person_id FROM students WHERE code = $1`, s.Code).Scan(&personID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		personID = uuid.New().String()
		if _, err := tx.Exec(ctx, `
			INSERT INTO persons (id, first_name, last_name, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())`,
			personID, s.FirstName, s.LastName, s.Email,
		); err != nil {
			return err
		}
		studentID := s.ID
		if studentID == uuid.Nil {
			studentID = uuid.New()
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO students (id, code, person_id, group_code, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())`,
			studentID.String(), s.Code, personID, s.GroupCode,
		)
		return err
	case err != nil:
		return err
	default:
		if _, err := tx.Exec(ctx, `
			UPDATE persons
			SET first_name = $1, last_name = $2, email = $3, updated_at = now()
			WHERE id = $4`,
			s.FirstName, s.LastName, s.Email, personID,
		); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE students SET group_code = $1, updated_at = now() WHERE code = $2`,
			s.GroupCode, s.Code,
		)
		return err
	}
}

func (r *StudentRepository) GetByCode(ctx context.Context, code string) (*student.Student, error) {
	students, err := r.queryStudents(ctx, studentFindQuery+" WHERE s.code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrStudentNotFound
	}
	return students[0], nil
}

func (r *StudentRepository) List(ctx context.Context, params *student.FindParams) ([]*student.Student, error) {
	where, args := buildStudentFilters(params)
	query := studentFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY s.code"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryStudents(ctx, query, args...)
}

func (r *StudentRepository) Count(ctx context.Context, params *student.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildStudentFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM students s JOIN persons p ON p.id = s.person_id WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StudentRepository) queryStudents(ctx context.Context, query string, args ...interface{}) ([]*student.Student, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*student.Student
	for rows.Next() {
		var row models.Student
		if err := rows.Scan(
			&row.ID, &row.Code, &row.PersonID, &row.GroupCode, &row.CreatedAt, &row.UpdatedAt,
			&row.FirstName, &row.LastName, &row.Email,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainStudent(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildStudentFilters(params *student.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params == nil {
		return where, args
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf(
			"(s.code ILIKE $%d OR p.first_name ILIKE $%d OR p.last_name ILIKE $%d OR p.email ILIKE $%d)",
			len(args), len(args), len(args), len(args),
		))
	}
	if params.GroupCode != "" {
		args = append(args, params.GroupCode)
		where = append(where, fmt.Sprintf("s.group_code = $%d", len(args)))
	}
	return where, args
}
