// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/migrations"
)

const sqliteScheme = "sqlite://"

func isSQLiteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, sqliteScheme) ||
		strings.HasPrefix(dsn, "file:") ||
		dsn == ":memory:" ||
		strings.HasSuffix(dsn, ".db") ||
		strings.HasSuffix(dsn, ".sqlite")
}

// sqliteDataSource converts a DSN into a go-sqlite3 data source name and the
// path of the database file ("" for in-memory or URI forms).
//
// The sqlite:// form follows the usual URL convention: "sqlite://app.db"
// and "sqlite:///app.db" both refer to the relative file app.db, while
// "sqlite:////var/lib/app.db" is absolute. Foreign keys are enabled on
// every connection.
func sqliteDataSource(dsn string) (dataSource, path string) {
	switch {
	case strings.HasPrefix(dsn, sqliteScheme):
		path = strings.TrimPrefix(dsn, sqliteScheme)
		path = strings.TrimPrefix(path, "/")
		dataSource = "file:" + path
	case strings.HasPrefix(dsn, "file:"):
		dataSource = dsn
	case dsn == ":memory:":
		dataSource = "file::memory:?cache=shared"
	default:
		path = dsn
		dataSource = "file:" + path
	}

	if strings.Contains(dataSource, "?") {
		dataSource += "&_foreign_keys=on"
	} else {
		dataSource += "?_foreign_keys=on"
	}

	return dataSource, path
}

// NewConnectSQLite opens and pings a SQLite database, creating the parent
// directory of the database file if necessary.
func NewConnectSQLite(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	dataSource, path := sqliteDataSource(dsn)

	if err := ensureDBDir(path); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database directory")
		return nil, err
	}

	conn, err := sql.Open("sqlite3", dataSource)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// SQLite allows a single writer; serialize access through one connection.
	conn.SetMaxOpenConns(1)

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, fmt.Errorf("error connecting database: %w", err)
	}
	log.Info().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return newSQLiteDB(conn, log), nil
}

func newSQLiteDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		dialect:            migrations.DialectSQLite,
		builder:            sq.StatementBuilder.PlaceholderFormat(sq.Question),
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             log,
	}
}

func ensureDBDir(path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating DB directory: %w", err)
	}

	return nil
}
