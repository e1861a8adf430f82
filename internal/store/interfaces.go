// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-image-gen/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts in the "users" table.
type UserRepository interface {
	// CreateUser inserts user and returns it with server-assigned fields.
	// Returns ErrUserAlreadyExists on a username or email collision.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail returns ErrNoUserWasFound if no account has email.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID returns ErrNoUserWasFound if no account has userID.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// ExistsByUsernameOrEmail reports whether any account uses username or email.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// ImageRepository persists generated image metadata in the "images" table.
type ImageRepository interface {
	// CreateImage inserts image and returns it with server-assigned fields.
	// Returns ErrNoUserWasFound if the owning user does not exist.
	CreateImage(ctx context.Context, image models.Image) (models.Image, error)

	// FindImageByID returns ErrImageNotFound if no image has imageID.
	FindImageByID(ctx context.Context, imageID int64) (models.Image, error)

	// ListImagesByUserID returns the images owned by userID, newest first.
	ListImagesByUserID(ctx context.Context, userID int64) ([]models.Image, error)

	// DeleteImage removes the row. Returns ErrImageNotFound if it did not exist.
	DeleteImage(ctx context.Context, imageID int64) error

	// ImagePathExists reports whether any row references path.
	ImagePathExists(ctx context.Context, path string) (bool, error)
}

// ImageFileStorage stores image bytes outside the database.
//
// Paths handed out and accepted by implementations are relative to the
// storage root, e.g. "images/user_1_20240101120000000001.png".
type ImageFileStorage interface {
	// Save writes data under name and returns its relative path.
	Save(ctx context.Context, name string, data []byte) (string, error)

	// Remove deletes the object at path. Returns ErrFileNotFound if it is
	// already gone.
	Remove(ctx context.Context, path string) error

	// List enumerates all stored images.
	List(ctx context.Context) ([]models.StoredFile, error)

	// URL returns a publicly resolvable URL for path. baseURL is the
	// scheme://host prefix of the server and is used only by backends
	// served by the server itself.
	URL(baseURL, path string) string
}
