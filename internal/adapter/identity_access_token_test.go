// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
)

func newUserInfoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestAccessTokenVerifier(url string) IdentityVerifier {
	return NewAccessTokenVerifier(config.Identity{UserInfoURL: url, Timeout: 5 * time.Second}, logger.Nop())
}

func TestAccessTokenVerifier_Valid(t *testing.T) {
	srv := newUserInfoServer(t, http.StatusOK,
		`{"sub":"42","email":"bob@example.com","email_verified":true,"name":"Bob"}`)

	identity, err := newTestAccessTokenVerifier(srv.URL).Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", identity.Email)
	assert.Equal(t, "42", identity.Subject)
	assert.True(t, identity.EmailVerified)
}

func TestAccessTokenVerifier_Rejected(t *testing.T) {
	srv := newUserInfoServer(t, http.StatusOK, `{}`)

	_, err := newTestAccessTokenVerifier(srv.URL).Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestAccessTokenVerifier_NoEmail(t *testing.T) {
	srv := newUserInfoServer(t, http.StatusOK, `{"sub":"42"}`)

	_, err := newTestAccessTokenVerifier(srv.URL).Verify(context.Background(), "good-token")
	assert.ErrorIs(t, err, ErrNoEmailClaim)
}

func TestAccessTokenVerifier_ProviderFailure(t *testing.T) {
	srv := newUserInfoServer(t, http.StatusInternalServerError, `{"error":"backend"}`)

	_, err := newTestAccessTokenVerifier(srv.URL).Verify(context.Background(), "good-token")
	assert.ErrorIs(t, err, ErrProvider)
	assert.NotErrorIs(t, err, ErrInvalidIdentity)
}
