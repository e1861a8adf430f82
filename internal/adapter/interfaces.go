// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter integrates the external providers the server depends on:
// the federated identity provider and the image generation provider.
//
// Failures reported by a provider are returned as [ProviderError], which
// matches [ErrProvider] with [errors.Is]. Credential problems are reported
// as [ErrInvalidIdentity] or [ErrNoEmailClaim].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-image-gen/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// IdentityVerifier verifies a credential issued by the identity provider and
// returns the identity it asserts.
type IdentityVerifier interface {
	// Verify returns ErrInvalidIdentity if the credential is rejected and
	// ErrNoEmailClaim if the verified identity has no email.
	Verify(ctx context.Context, credential string) (models.Identity, error)
}

// ImageGenerator runs prompts against the generation provider.
type ImageGenerator interface {
	// Generate submits prompt and blocks until the provider finishes.
	// It returns the URL of the first output image.
	Generate(ctx context.Context, prompt string) (string, error)

	// Download fetches the image bytes at url.
	Download(ctx context.Context, url string) ([]byte, error)
}
