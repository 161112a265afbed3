package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campusware/campus/modules/curriculum/domain/entities/course"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/repo"
)

var ErrCourseNotFound = errors.New("course not found")

const (
	courseFindQuery = `
		SELECT id, code, name, department_code, weekly_hours, created_at, updated_at
		FROM courses`

	courseUpsertQuery = `
		INSERT INTO courses (id, code, name, department_code, weekly_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name,
		    department_code = EXCLUDED.department_code,
		    weekly_hours = EXCLUDED.weekly_hours,
		    updated_at = now()
	`
)

type CourseRepository struct{}

func NewCourseRepository() course.Repository {
	return &CourseRepository{}
}

func (r *CourseRepository) Upsert(ctx context.Context, c *course.Course) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(ctx, courseUpsertQuery, id.String(), c.Code, c.Name, c.DepartmentCode, c.WeeklyHours)
	return err
}

func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*course.Course, error) {
	courses, err := r.queryCourses(ctx, courseFindQuery+" WHERE code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrCourseNotFound
	}
	return courses[0], nil
}

func (r *CourseRepository) List(ctx context.Context, params *course.FindParams) ([]*course.Course, error) {
	where, args := buildCourseFilters(params)
	query := courseFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY code"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryCourses(ctx, query, args...)
}

func (r *CourseRepository) Count(ctx context.Context, params *course.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildCourseFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM courses WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CourseRepository) queryCourses(ctx context.Context, query string, args ...interface{}) ([]*course.Course, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*course.Course
	for rows.Next() {
		var row models.Course
		if err := rows.Scan(
			&row.ID, &row.Code, &row.Name, &row.DepartmentCode, &row.WeeklyHours,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainCourse(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildCourseFilters(params *course.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params == nil {
		return where, args
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	if params.DepartmentCode != "" {
		args = append(args, params.DepartmentCode)
		where = append(where, fmt.Sprintf("department_code = $%d", len(args)))
	}
	return where, args
}
