// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/migrations"
)

// DB wraps *sql.DB with the dialect specific pieces every repository needs:
// a squirrel statement builder with the right placeholder format and an
// error classifier for constraint violations.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnect opens a database selected by the DSN scheme:
//   - postgres:// or postgresql://          PostgreSQL through pgx
//   - sqlite://, file:, *.db, *.sqlite       SQLite through go-sqlite3
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewConnectPostgres(ctx, dsn, log)
	case isSQLiteDSN(dsn):
		return NewConnectSQLite(ctx, dsn, log)
	}

	log.Error().Str("func", "NewConnect").Msg("no database driver matches DSN")
	return nil, ErrUnsupportedDSN
}

// Dialect returns the goose dialect name of the connection.
func (db *DB) Dialect() string {
	return db.dialect
}

// Migrate applies the embedded schema migrations for the connection dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// classify maps err to a domain sentinel using the connection's classifier.
// Errors without domain meaning are wrapped with fallback.
func (db *DB) classify(err error, onUnique, onForeignKey, fallback error) error {
	switch db.errorClassificator.Classify(err) {
	case ClassUniqueViolation:
		if onUnique != nil {
			return onUnique
		}
	case ClassForeignKeyViolation:
		if onForeignKey != nil {
			return onForeignKey
		}
	}

	return fmt.Errorf("%w: %w", fallback, err)
}
