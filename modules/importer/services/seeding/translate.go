package seeding

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
)

// ErrNotFound marks a referenced record that does not exist. Handlers wrap
// lookup misses with it so the translation below stays storage-agnostic.
var ErrNotFound = errors.New("referenced record not found")

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgValueTooLong        = "22001"
)

// TranslateStorageError maps a storage failure onto the stable error
// vocabulary: a kind, the offending column when the driver reports one, and a
// message that stays the same even if the storage engine changes.
func TranslateStorageError(err error) (importtask.ErrorKind, *string, string) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
		return importtask.KindNotFound, nil, "Entity not found"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		column := pgErrorColumn(pgErr)
		switch pgErr.Code {
		case pgUniqueViolation:
			return importtask.KindDuplicateKey, column, "Duplicate entry for unique field"
		case pgForeignKeyViolation:
			return importtask.KindForeignKeyViolation, column, "Foreign key constraint failed: referenced item not found"
		case pgValueTooLong:
			return importtask.KindFieldTooLong, column, "Field value too long"
		default:
			return importtask.KindUnknownStorage, column, "Database error: " + pgErr.Message
		}
	}

	return importtask.KindUnknown, nil, "Unknown database error"
}

// pgErrorColumn extracts the column name from the error detail. Unique and
// foreign key violations carry it only through the constraint name, which
// Postgres builds as <table>_<column>_<suffix>.
func pgErrorColumn(pgErr *pgconn.PgError) *string {
	if pgErr.ColumnName != "" {
		name := pgErr.ColumnName
		return &name
	}
	if pgErr.ConstraintName == "" || pgErr.TableName == "" {
		return nil
	}
	name := strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_")
	for _, suffix := range []string{"_key", "_fkey", "_pkey", "_check"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	if name == "" || name == "pkey" || name == pgErr.ConstraintName {
		return nil
	}
	return &name
}
