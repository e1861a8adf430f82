// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-image-gen/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService covers local and federated authentication and bearer tokens.
type AuthService interface {
	// RegisterUser creates a password account. It does not issue a token.
	RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error)

	// Login verifies email and password. Unknown emails and wrong passwords
	// both return ErrInvalidCredentials.
	Login(ctx context.Context, req models.LoginRequest) (models.User, error)

	// FederatedLogin verifies a credential issued by the identity provider
	// and returns the local user linked by email, creating it if absent.
	FederatedLogin(ctx context.Context, req models.FederatedLoginRequest) (models.User, error)

	// CreateToken issues a bearer token for user.
	CreateToken(ctx context.Context, user models.User) (models.Token, error)

	// ParseToken validates a bearer token. Any failure is ErrTokenIsExpiredOrInvalid.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// GetUser loads the user a token was issued for.
	GetUser(ctx context.Context, userID int64) (models.User, error)
}

// ImageService covers generation, listing and deletion of a user's images.
type ImageService interface {
	// GenerateImage resolves the prompt, runs it through the generation
	// provider, stores the image and records it for userID.
	GenerateImage(ctx context.Context, userID int64, req models.PromptRequest) (models.Image, error)

	// ListUserImages returns the images of userID, newest first.
	ListUserImages(ctx context.Context, userID int64) ([]models.Image, error)

	// DeleteImage removes an image owned by userID together with its file.
	DeleteImage(ctx context.Context, userID, imageID int64) error

	// ImageURL returns the public URL of image. requestBaseURL is used when
	// no public base URL is configured.
	ImageURL(requestBaseURL string, image models.Image) string
}

// HealthService reports whether the server's dependencies are reachable.
type HealthService interface {
	Ping(ctx context.Context) error
}
