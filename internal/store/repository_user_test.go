// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/models"
)

func newTestPostgresDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return newPostgresDB(conn, logger.Nop()), mock
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestPostgresDB(t)
	return &userRepository{db: db, logger: logger.Nop()}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func strPtr(s string) *string { return &s }

var userRowColumns = []string{"id", "username", "email", "password_hash", "created_at"}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	user := models.User{
		Username:     strPtr("john"),
		Email:        "john@example.com",
		PasswordHash: strPtr("hash"),
		CreatedAt:    createdAt,
	}

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO users (username,email,password_hash,created_at) VALUES ($1,$2,$3,$4) RETURNING id",
	)).
		WithArgs("john", "john@example.com", "hash", createdAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	created, err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, "john@example.com", created.Email)
	assert.Equal(t, createdAt, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_FederatedUserHasNullColumns(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(nil, "sso@example.com", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	created, err := repo.CreateUser(context.Background(), models.User{Email: "sso@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.UserID)
	assert.Nil(t, created.Username)
	assert.Nil(t, created.PasswordHash)
	assert.False(t, created.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(context.Background(), models.User{Email: "dup@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), models.User{Email: "x@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrUserAlreadyExists)
}

func TestFindUserByEmail_Found(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1 LIMIT 1",
	)).
		WithArgs("john@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(3), "john", "john@example.com", "hash", createdAt))

	user, err := repo.FindUserByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.UserID)
	require.NotNil(t, user.Username)
	assert.Equal(t, "john", *user.Username)
	require.NotNil(t, user.PasswordHash)
	assert.Equal(t, "hash", *user.PasswordHash)
	assert.Equal(t, createdAt, user.CreatedAt)
}

func TestFindUserByEmail_NullableColumns(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(4), nil, "sso@example.com", nil, time.Now()))

	user, err := repo.FindUserByEmail(context.Background(), "sso@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.Username)
	assert.Nil(t, user.PasswordHash)
	assert.False(t, user.HasPassword())
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestFindUserByID(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
					WithArgs(int64(5)).
					WillReturnRows(sqlmock.NewRows(userRowColumns).
						AddRow(int64(5), "u", "u@example.com", "h", time.Now()))
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM users WHERE id").WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrNoUserWasFound,
		},
		{
			name: "driver error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM users WHERE id").WillReturnError(errors.New("conn reset"))
			},
			wantErr: ErrExecutingQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t)
			tt.setup(mock)

			user, err := repo.FindUserByID(context.Background(), 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(5), user.UserID)
		})
	}
}

func TestExistsByUsernameOrEmail(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{name: "taken", count: 1, want: true},
		{name: "free", count: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta(
				"SELECT COUNT(*) FROM users WHERE (username = $1 OR email = $2)",
			)).
				WithArgs("john", "john@example.com").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			got, err := repo.ExistsByUsernameOrEmail(context.Background(), "john", "john@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExistsByUsernameOrEmail_DBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("boom"))

	_, err := repo.ExistsByUsernameOrEmail(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrExecutingQuery)
}
