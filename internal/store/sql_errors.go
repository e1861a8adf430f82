// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrorClass is the result of [ErrorClassificator.Classify]. It tells the
// repository which domain error a failed statement corresponds to.
type ErrorClass int

const (
	// ClassUnknown covers every error without a domain meaning.
	ClassUnknown ErrorClass = iota

	// ClassUniqueViolation is a UNIQUE constraint violation.
	ClassUniqueViolation

	// ClassForeignKeyViolation is a FOREIGN KEY constraint violation.
	ClassForeignKeyViolation

	// ClassNotNullViolation is a NOT NULL constraint violation.
	ClassNotNullViolation
)

// ErrorClassificator maps driver specific errors to an [ErrorClass].
type ErrorClassificator interface {
	Classify(err error) ErrorClass
}

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL.
// It inspects the SQLSTATE code returned by the pgx driver.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier] ready for use.
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator].
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClass {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ClassUnknown
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ClassUniqueViolation
	case pgerrcode.ForeignKeyViolation:
		return ClassForeignKeyViolation
	case pgerrcode.NotNullViolation:
		return ClassNotNullViolation
	}

	return ClassUnknown
}

// SQLiteErrorClassifier implements [ErrorClassificator] for SQLite using the
// extended result codes reported by go-sqlite3.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier] ready for use.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify implements [ErrorClassificator].
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClass {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return ClassUnknown
	}

	switch liteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ClassUniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return ClassForeignKeyViolation
	case sqlite3.ErrConstraintNotNull:
		return ClassNotNullViolation
	}

	return ClassUnknown
}
