// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
)

const testClientID = "client-123.apps.googleusercontent.com"

type testSigner struct {
	kid string
	key *rsa.PrivateKey
	pem string
}

func newTestSigner(t *testing.T, kid string) testSigner {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test-signer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	return testSigner{
		kid: kid,
		key: key,
		pem: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
	}
}

func (s testSigner) sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.kid
	signed, err := token.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

func validClaims() *idTokenClaims {
	now := time.Now()
	return &idTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   "1094",
			Audience:  jwt.ClaimStrings{testClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:         "alice@example.com",
		EmailVerified: true,
		Name:          "Alice",
	}
}

// newCertsServer serves the given signers in the kid -> PEM format and
// counts requests.
func newCertsServer(t *testing.T, signers ...testSigner) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		certs := map[string]string{}
		for _, s := range signers {
			certs[s.kid] = s.pem
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(certs)
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func newTestIDTokenVerifier(certsURL, clientID string) *idTokenVerifier {
	return NewIDTokenVerifier(config.Identity{
		ClientID: clientID,
		CertsURL: certsURL,
		Timeout:  5 * time.Second,
	}, logger.Nop()).(*idTokenVerifier)
}

func TestIDTokenVerifier_Valid(t *testing.T) {
	signer := newTestSigner(t, "k1")
	srv, _ := newCertsServer(t, signer)
	v := newTestIDTokenVerifier(srv.URL, testClientID)

	identity, err := v.Verify(context.Background(), signer.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, "1094", identity.Subject)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Alice", identity.Name)
}

func TestIDTokenVerifier_AcceptsBareIssuer(t *testing.T) {
	signer := newTestSigner(t, "k1")
	srv, _ := newCertsServer(t, signer)
	v := newTestIDTokenVerifier(srv.URL, testClientID)

	claims := validClaims()
	claims.Issuer = "accounts.google.com"

	_, err := v.Verify(context.Background(), signer.sign(t, claims))
	assert.NoError(t, err)
}

func TestIDTokenVerifier_Rejections(t *testing.T) {
	signer := newTestSigner(t, "k1")
	other := newTestSigner(t, "k1")
	srv, _ := newCertsServer(t, signer)

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := validClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return signer.sign(t, c)
			},
			wantErr: ErrInvalidIdentity,
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Audience = jwt.ClaimStrings{"someone-else"}
				return signer.sign(t, c)
			},
			wantErr: ErrInvalidIdentity,
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Issuer = "https://evil.example.com"
				return signer.sign(t, c)
			},
			wantErr: ErrInvalidIdentity,
		},
		{
			name: "bad signature",
			token: func(t *testing.T) string {
				return other.sign(t, validClaims())
			},
			wantErr: ErrInvalidIdentity,
		},
		{
			name: "unknown key id",
			token: func(t *testing.T) string {
				return newTestSigner(t, "k2").sign(t, validClaims())
			},
			wantErr: ErrInvalidIdentity,
		},
		{
			name: "hmac token",
			token: func(t *testing.T) string {
				tok := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
				tok.Header["kid"] = "k1"
				s, err := tok.SignedString([]byte("secret"))
				require.NoError(t, err)
				return s
			},
			wantErr: ErrInvalidIdentity,
		},
		{
			name:    "garbage",
			token:   func(t *testing.T) string { return "not-a-token" },
			wantErr: ErrInvalidIdentity,
		},
		{
			name: "no email",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Email = ""
				return signer.sign(t, c)
			},
			wantErr: ErrNoEmailClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestIDTokenVerifier(srv.URL, testClientID)

			_, err := v.Verify(context.Background(), tt.token(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIDTokenVerifier_MissingClientID(t *testing.T) {
	v := newTestIDTokenVerifier("http://unused", "")

	_, err := v.Verify(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, ErrIdentityMisconfigured)
}

func TestIDTokenVerifier_CachesCertificates(t *testing.T) {
	signer := newTestSigner(t, "k1")
	srv, hits := newCertsServer(t, signer)
	v := newTestIDTokenVerifier(srv.URL, testClientID)
	token := signer.sign(t, validClaims())

	for range 3 {
		_, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())

	// expire the cache
	v.fetchedAt = v.fetchedAt.Add(-2 * certsCacheTTL)
	_, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestIDTokenVerifier_UnknownKeyIDRefetchIsLimited(t *testing.T) {
	known := newTestSigner(t, "k1")
	rotated := newTestSigner(t, "k2")
	srv, hits := newCertsServer(t, known)
	v := newTestIDTokenVerifier(srv.URL, testClientID)

	_, err := v.Verify(context.Background(), known.sign(t, validClaims()))
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	forged := rotated.sign(t, validClaims())
	for range 5 {
		_, err = v.Verify(context.Background(), forged)
		assert.ErrorIs(t, err, ErrInvalidIdentity)
	}
	assert.Equal(t, int32(1), hits.Load(), "unknown key ids must not refetch while the cache is young")

	v.fetchedAt = v.fetchedAt.Add(-2 * certsMissRefetchInterval)
	_, err = v.Verify(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
	assert.Equal(t, int32(2), hits.Load())

	// the refetch resets the window
	_, err = v.Verify(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
	assert.Equal(t, int32(2), hits.Load())
}

func TestIDTokenVerifier_CertsEndpointDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	signer := newTestSigner(t, "k1")
	v := newTestIDTokenVerifier(srv.URL, testClientID)

	_, err := v.Verify(context.Background(), signer.sign(t, validClaims()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
	assert.NotErrorIs(t, err, ErrInvalidIdentity)

	var pErr *ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, http.StatusServiceUnavailable, pErr.StatusCode)
}
