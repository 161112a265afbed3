package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campusware/campus/modules/curriculum/domain/entities/classroom"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/mapping"
	"github.com/campusware/campus/pkg/repo"
)

var ErrClassroomNotFound = errors.New("classroom not found")

const (
	classroomFindQuery = `
		SELECT id, code, name, building_code, capacity, created_at, updated_at
		FROM classrooms`

	classroomUpsertQuery = `
		INSERT INTO classrooms (id, code, name, building_code, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name,
		    building_code = EXCLUDED.building_code,
		    capacity = EXCLUDED.capacity,
		    updated_at = now()
	`
)

type ClassroomRepository struct{}

func NewClassroomRepository() classroom.Repository {
	return &ClassroomRepository{}
}

func (r *ClassroomRepository) Upsert(ctx context.Context, c *classroom.Classroom) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(
		ctx,
		classroomUpsertQuery,
		id.String(), c.Code, c.Name, mapping.ValueToSQLNullString(c.BuildingCode), c.Capacity,
	)
	return err
}

func (r *ClassroomRepository) GetByCode(ctx context.Context, code string) (*classroom.Classroom, error) {
	classrooms, err := r.queryClassrooms(ctx, classroomFindQuery+" WHERE code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(classrooms) == 0 {
		return nil, ErrClassroomNotFound
	}
	return classrooms[0], nil
}

func (r *ClassroomRepository) List(ctx context.Context, params *classroom.FindParams) ([]*classroom.Classroom, error) {
	where, args := buildClassroomFilters(params)
	query := classroomFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY code"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryClassrooms(ctx, query, args...)
}

func (r *ClassroomRepository) Count(ctx context.Context, params *classroom.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildClassroomFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM classrooms WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ClassroomRepository) queryClassrooms(ctx context.Context, query string, args ...interface{}) ([]*classroom.Classroom, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*classroom.Classroom
	for rows.Next() {
		var row models.Classroom
		if err := rows.Scan(
			&row.ID, &row.Code, &row.Name, &row.BuildingCode, &row.Capacity,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainClassroom(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildClassroomFilters(params *classroom.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params == nil {
		return where, args
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	if params.BuildingCode != "" {
		args = append(args, params.BuildingCode)
		where = append(where, fmt.Sprintf("building_code = $%d", len(args)))
	}
	return where, args
}
