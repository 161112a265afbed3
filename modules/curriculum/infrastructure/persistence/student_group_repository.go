package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campusware/campus/modules/curriculum/domain/entities/studentgroup"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence/models"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/repo"
)

var ErrStudentGroupNotFound = errors.New("student group not found")

const (
	studentGroupFindQuery = `SELECT id, code, name, year, created_at, updated_at FROM student_groups`

	studentGroupUpsertQuery = `
		INSERT INTO student_groups (id, code, name, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name,
		    year = EXCLUDED.year,
		    updated_at = now()
	`
)

type StudentGroupRepository struct{}

func NewStudentGroupRepository() studentgroup.Repository {
	return &StudentGroupRepository{}
}

func (r *StudentGroupRepository) Upsert(ctx context.Context, g *studentgroup.StudentGroup) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	id := g.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(ctx, studentGroupUpsertQuery, id.String(), g.Code, g.Name, g.Year)
	return err
}

func (r *StudentGroupRepository) GetByCode(ctx context.Context, code string) (*studentgroup.StudentGroup, error) {
	groups, err := r.queryStudentGroups(ctx, studentGroupFindQuery+" WHERE code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, ErrStudentGroupNotFound
	}
	return groups[0], nil
}

func (r *StudentGroupRepository) Exists(ctx context.Context, code string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM student_groups WHERE code = $1)`, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *StudentGroupRepository) List(ctx context.Context, params *studentgroup.FindParams) ([]*studentgroup.StudentGroup, error) {
	where, args := buildStudentGroupFilters(params)
	query := studentGroupFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY code"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return r.queryStudentGroups(ctx, query, args...)
}

func (r *StudentGroupRepository) Count(ctx context.Context, params *studentgroup.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildStudentGroupFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM student_groups WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StudentGroupRepository) queryStudentGroups(ctx context.Context, query string, args ...interface{}) ([]*studentgroup.StudentGroup, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*studentgroup.StudentGroup
	for rows.Next() {
		var row models.StudentGroup
		if err := rows.Scan(&row.ID, &row.Code, &row.Name, &row.Year, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, toDomainStudentGroup(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildStudentGroupFilters(params *studentgroup.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params == nil {
		return where, args
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	if params.Year != 0 {
		args = append(args, params.Year)
		where = append(where, fmt.Sprintf("year = $%d", len(args)))
	}
	return where, args
}
