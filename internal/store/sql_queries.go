// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-image-gen/models"
)

const (
	usersTable  = "users"
	imagesTable = "images"
)

var (
	userColumns  = []string{"id", "username", "email", "password_hash", "created_at"}
	imageColumns = []string{"id", "prompt", "image_path", "user_id", "generated_at"}
)

// returningID is appended to INSERTs. Only the key is read back; the other
// columns are known to the caller, and SQLite does not report declared
// column types for RETURNING results, which timestamps depend on.
const returningID = "RETURNING id"

func buildInsertUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(usersTable).
		Columns("username", "email", "password_hash", "created_at").
		Values(user.Username, user.Email, user.PasswordHash, user.CreatedAt).
		Suffix(returningID).
		ToSql()
}

func buildSelectUserQuery(b sq.StatementBuilderType, where sq.Sqlizer) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
}

func buildUserExistsQuery(b sq.StatementBuilderType, username, email string) (string, []any, error) {
	return b.Select("COUNT(*)").
		From(usersTable).
		Where(sq.Or{sq.Eq{"username": username}, sq.Eq{"email": email}}).
		ToSql()
}

func buildInsertImageQuery(b sq.StatementBuilderType, image models.Image) (string, []any, error) {
	return b.Insert(imagesTable).
		Columns("prompt", "image_path", "user_id", "generated_at").
		Values(image.Prompt, image.ImagePath, image.UserID, image.GeneratedAt).
		Suffix(returningID).
		ToSql()
}

func buildSelectImageByIDQuery(b sq.StatementBuilderType, imageID int64) (string, []any, error) {
	return b.Select(imageColumns...).
		From(imagesTable).
		Where(sq.Eq{"id": imageID}).
		ToSql()
}

func buildListUserImagesQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Select(imageColumns...).
		From(imagesTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("generated_at DESC", "id DESC").
		ToSql()
}

func buildDeleteImageQuery(b sq.StatementBuilderType, imageID int64) (string, []any, error) {
	return b.Delete(imagesTable).
		Where(sq.Eq{"id": imageID}).
		ToSql()
}

func buildImagePathExistsQuery(b sq.StatementBuilderType, path string) (string, []any, error) {
	return b.Select("COUNT(*)").
		From(imagesTable).
		Where(sq.Eq{"image_path": path}).
		ToSql()
}
