// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/utils"
	"github.com/MKhiriev/go-image-gen/models"
)

// accessTokenVerifier resolves an opaque access token through the provider's
// user-info endpoint. A token the provider rejects is an invalid identity.
type accessTokenVerifier struct {
	userInfoURL string
	timeout     time.Duration
	logger      *logger.Logger
}

// NewAccessTokenVerifier constructs an [IdentityVerifier] for access tokens.
func NewAccessTokenVerifier(cfg config.Identity, log *logger.Logger) IdentityVerifier {
	return &accessTokenVerifier{
		userInfoURL: cfg.UserInfoURL,
		timeout:     cfg.Timeout,
		logger:      log,
	}
}

func (v *accessTokenVerifier) Verify(ctx context.Context, credential string) (models.Identity, error) {
	log := logger.FromContext(ctx)

	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: credential,
		TokenType:   "Bearer",
	}))
	client := utils.NewHTTPClientFrom(hc)
	client.SetTimeout(v.timeout)

	var identity models.Identity
	resp, err := client.R().
		SetContext(ctx).
		SetResult(&identity).
		Get(v.userInfoURL)
	if err != nil {
		log.Err(err).Str("func", "*accessTokenVerifier.Verify").Msg("user-info request failed")
		return models.Identity{}, &ProviderError{Provider: identityProviderName, Message: "user-info request failed", Err: err}
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest:
		return models.Identity{}, ErrInvalidIdentity
	}
	if err = mapHTTPError(identityProviderName, resp); err != nil {
		log.Err(err).Str("func", "*accessTokenVerifier.Verify").Msg("user-info request failed")
		return models.Identity{}, err
	}

	if identity.Email == "" {
		return models.Identity{}, ErrNoEmailClaim
	}

	return identity, nil
}
