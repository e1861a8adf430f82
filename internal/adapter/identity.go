// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/models"
)

const identityProviderName = "identity provider"

// NewIdentityVerifier builds the verifier selected by cfg.Mode.
func NewIdentityVerifier(cfg config.Identity, log *logger.Logger) (IdentityVerifier, error) {
	switch cfg.Mode {
	case config.IdentityModeIDToken:
		return NewIDTokenVerifier(cfg, log), nil
	case config.IdentityModeAccessToken:
		return NewAccessTokenVerifier(cfg, log), nil
	case config.IdentityModeAuto:
		return &autoVerifier{
			idToken:     NewIDTokenVerifier(cfg, log),
			accessToken: NewAccessTokenVerifier(cfg, log),
		}, nil
	}

	return nil, fmt.Errorf("unknown identity mode %q", cfg.Mode)
}

// autoVerifier routes JWT-shaped credentials to the ID token verifier and
// everything else to the access token verifier.
type autoVerifier struct {
	idToken     IdentityVerifier
	accessToken IdentityVerifier
}

func (v *autoVerifier) Verify(ctx context.Context, credential string) (models.Identity, error) {
	if looksLikeJWT(credential) {
		return v.idToken.Verify(ctx, credential)
	}
	return v.accessToken.Verify(ctx, credential)
}

func looksLikeJWT(credential string) bool {
	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts[:2] {
		if p == "" {
			return false
		}
	}
	return true
}
