package sportserr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Op names the kind of statement whose failure is being translated. A foreign
// key violation means "missing parent" on writes and "still referenced" on
// deletes.
type Op int

const (
	OpRead Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "read"
	}
}

// Postgres SQLSTATE codes for integrity violations.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

type constraintKind int

const (
	kindNone constraintKind = iota
	kindUnique
	kindForeignKey
	kindCheck
)

// Translate maps a raw driver error for entity/id into the typed taxonomy.
// Errors that are already typed pass through unchanged.
func Translate(op Op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) || errors.Is(err, ErrStore) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}

	kind, constraint := classify(err)
	switch kind {
	case kindUnique:
		return &DuplicateError{Entity: entity, Constraint: constraint}
	case kindForeignKey:
		if op == OpDelete {
			return &ReferentialIntegrityError{Entity: entity, ID: id, Constraint: constraint}
		}
		return &NotFoundError{Entity: "referenced row of " + entity, ID: constraint}
	case kindCheck:
		return &ValidationError{Field: constraint, Reason: "violates check constraint"}
	}
	return &StoreError{Op: fmt.Sprintf("%s %s", op, entity), Err: err}
}

func classify(err error) (constraintKind, string) {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return fromSQLState(pgErr.Field('C')), pgErr.Field('n')
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return fromSQLState(pgxErr.Code), pgxErr.ConstraintName
	}

	var liteErr *msqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return kindUnique, ""
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return kindForeignKey, ""
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK, sqlite3lib.SQLITE_CONSTRAINT_NOTNULL:
			return kindCheck, ""
		}
		if liteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT {
			return fromSQLiteMessage(liteErr.Error()), ""
		}
	}
	return kindNone, ""
}

func fromSQLState(code string) constraintKind {
	switch code {
	case pgUniqueViolation:
		return kindUnique
	case pgForeignKeyViolation:
		return kindForeignKey
	case pgCheckViolation, pgNotNullViolation:
		return kindCheck
	}
	return kindNone
}

// fromSQLiteMessage classifies a constraint error reported without an
// extended result code.
func fromSQLiteMessage(msg string) constraintKind {
	switch {
	case strings.Contains(msg, "UNIQUE"), strings.Contains(msg, "PRIMARY KEY"):
		return kindUnique
	case strings.Contains(msg, "FOREIGN KEY"):
		return kindForeignKey
	case strings.Contains(msg, "CHECK"), strings.Contains(msg, "NOT NULL"):
		return kindCheck
	}
	return kindNone
}
