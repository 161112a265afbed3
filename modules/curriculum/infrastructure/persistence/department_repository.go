package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/campusware/campus/modules/curriculum/domain/entities/department"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/repo"
)

var ErrDepartmentNotFound = errors.New("department not found")

const (
	departmentFindQuery = `SELECT id, code, name, created_at, updated_at FROM departments`

	departmentUpsertQuery = `
		INSERT INTO departments (id, code, name, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, updated_at = now()
	`
)

type DepartmentRepository struct{}

func NewDepartmentRepository() department.Repository {
	return &DepartmentRepository{}
}

func (r *DepartmentRepository) Upsert(ctx context.Context, d *department.Department) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	id := d.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(ctx, departmentUpsertQuery, id.String(), d.Code, d.Name)
	return err
}

func (r *DepartmentRepository) GetByCode(ctx context.Context, code string) (*department.Department, error) {
	departments, err := r.queryDepartments(ctx, departmentFindQuery+" WHERE code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(departments) == 0 {
		return nil, ErrDepartmentNotFound
	}
	return departments[0], nil
}

func (r *DepartmentRepository) List(ctx context.Context, params *department.FindParams) ([]*department.Department, error) {
	where, args := buildDepartmentFilters(params)
	query := departmentFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY code"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryDepartments(ctx, query, args...)
}

func (r *DepartmentRepository) Count(ctx context.Context, params *department.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildDepartmentFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM departments WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DepartmentRepository) queryDepartments(ctx context.Context, query string, args ...interface{}) ([]*department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*department.Department
	for rows.Next() {
		var row models.Department
		if err := rows.Scan(&row.ID, &row.Code, &row.Name, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, toDomainDepartment(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildDepartmentFilters(params *department.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params != nil && params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, "(code ILIKE $1 OR name ILIKE $1)")
	}
	return where, args
}
