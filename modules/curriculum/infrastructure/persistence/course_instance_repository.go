package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campusware/campus/modules/curriculum/domain/entities/courseinstance"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/repo"
)

var ErrCourseInstanceNotFound = errors.New("course instance not found")

const (
	courseInstanceFindQuery = `
		SELECT id, code, course_code, teacher_code, created_at, updated_at
		FROM course_instances`

	courseInstanceUpsertQuery = `
		INSERT INTO course_instances (id, code, course_code, teacher_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (code) DO UPDATE
		SET course_code = EXCLUDED.course_code,
		    teacher_code = EXCLUDED.teacher_code,
		    updated_at = now()
	`

	courseInstanceLinkGroupQuery = `
		INSERT INTO course_instance_groups (instance_code, group_code, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (instance_code, group_code) DO NOTHING
	`
)

type CourseInstanceRepository struct{}

func NewCourseInstanceRepository() courseinstance.Repository {
	return &CourseInstanceRepository{}
}

func (r *CourseInstanceRepository) Upsert(ctx context.Context, ci *courseinstance.CourseInstance) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	id := ci.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(ctx, courseInstanceUpsertQuery, id.String(), ci.Code, ci.CourseCode, ci.TeacherCode)
	return err
}

func (r *CourseInstanceRepository) GetByCode(ctx context.Context, code string) (*courseinstance.CourseInstance, error) {
	instances, err := r.queryCourseInstances(ctx, courseInstanceFindQuery+" WHERE code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, ErrCourseInstanceNotFound
	}
	return instances[0], nil
}

func (r *CourseInstanceRepository) LinkGroup(ctx context.Context, instanceCode, groupCode string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, courseInstanceLinkGroupQuery, instanceCode, groupCode)
	return err
}

func (r *CourseInstanceRepository) List(ctx context.Context, params *courseinstance.FindParams) ([]*courseinstance.CourseInstance, error) {
	where, args := buildCourseInstanceFilters(params)
	query := courseInstanceFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY code"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryCourseInstances(ctx, query, args...)
}

func (r *CourseInstanceRepository) Count(ctx context.Context, params *courseinstance.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildCourseInstanceFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM course_instances WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CourseInstanceRepository) queryCourseInstances(ctx context.Context, query string, args ...interface{}) ([]*courseinstance.CourseInstance, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*courseinstance.CourseInstance
	for rows.Next() {
		var row models.CourseInstance
		if err := rows.Scan(
			&row.ID, &row.Code, &row.CourseCode, &row.TeacherCode, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainCourseInstance(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildCourseInstanceFilters(params *courseinstance.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params == nil {
		return where, args
	}
	if params.CourseCode != "" {
		args = append(args, params.CourseCode)
		where = append(where, fmt.Sprintf("course_code = $%d", len(args)))
	}
	if params.TeacherCode != "" {
		args = append(args, params.TeacherCode)
		where = append(where, fmt.Sprintf("teacher_code = $%d", len(args)))
	}
	if params.GroupCode != "" {
		args = append(args, params.GroupCode)
		where = append(where, fmt.Sprintf(
			"code IN (SELECT instance_code FROM course_instance_groups WHERE group_code = $%d)", len(args),
		))
	}
	return where, args
}
