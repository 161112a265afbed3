package seeding

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
)

func TestTranslateStorageErrorUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{
		Code:           "23505",
		TableName:      "persons",
		ConstraintName: "persons_email_key",
	}

	kind, column, message := TranslateStorageError(err)

	require.Equal(t, importtask.KindDuplicateKey, kind)
	require.NotNil(t, column)
	require.Equal(t, "email", *column)
	require.Equal(t, "Duplicate entry for unique field", message)
}

func TestTranslateStorageErrorForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{
		Code:           "23503",
		TableName:      "courses",
		ConstraintName: "courses_department_code_fkey",
	}

	kind, column, message := TranslateStorageError(err)

	require.Equal(t, importtask.KindForeignKeyViolation, kind)
	require.NotNil(t, column)
	require.Equal(t, "department_code", *column)
	require.Equal(t, "Foreign key constraint failed: referenced item not found", message)
}

func TestTranslateStorageErrorValueTooLong(t *testing.T) {
	err := &pgconn.PgError{Code: "22001", ColumnName: "name"}

	kind, column, message := TranslateStorageError(err)

	require.Equal(t, importtask.KindFieldTooLong, kind)
	require.NotNil(t, column)
	require.Equal(t, "name", *column)
	require.Equal(t, "Field value too long", message)
}

func TestTranslateStorageErrorOtherPgError(t *testing.T) {
	kind, column, message := TranslateStorageError(&pgconn.PgError{
		Code:    "40001",
		Message: "could not serialize access",
	})

	require.Equal(t, importtask.KindUnknownStorage, kind)
	require.Nil(t, column)
	require.Equal(t, "Database error: could not serialize access", message)
}

func TestTranslateStorageErrorNotFound(t *testing.T) {
	kind, column, message := TranslateStorageError(fmt.Errorf("%w: teacher %q", ErrNotFound, "T-1"))
	require.Equal(t, importtask.KindNotFound, kind)
	require.Nil(t, column)
	require.Equal(t, "Entity not found", message)

	kind, _, _ = TranslateStorageError(pgx.ErrNoRows)
	require.Equal(t, importtask.KindNotFound, kind)
}

func TestTranslateStorageErrorUnknown(t *testing.T) {
	kind, column, message := TranslateStorageError(errors.New("boom"))

	require.Equal(t, importtask.KindUnknown, kind)
	require.Nil(t, column)
	require.Equal(t, "Unknown database error", message)
}

func TestTranslateStorageErrorWrappedPgError(t *testing.T) {
	wrapped := fmt.Errorf("upsert: %w", &pgconn.PgError{
		Code:           "23505",
		TableName:      "departments",
		ConstraintName: "departments_code_key",
	})

	kind, column, _ := TranslateStorageError(wrapped)

	require.Equal(t, importtask.KindDuplicateKey, kind)
	require.NotNil(t, column)
	require.Equal(t, "code", *column)
}

func TestPgErrorColumnFallsBackToNil(t *testing.T) {
	require.Nil(t, pgErrorColumn(&pgconn.PgError{
		TableName:      "import_tasks",
		ConstraintName: "import_tasks_pkey",
	}))
	require.Nil(t, pgErrorColumn(&pgconn.PgError{ConstraintName: "orphan_constraint"}))
	require.Nil(t, pgErrorColumn(&pgconn.PgError{}))
}
