// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/utils"
	"github.com/MKhiriev/go-image-gen/models"
)

const (
	// certsCacheTTL is how long fetched signing keys are trusted before refetch.
	certsCacheTTL = time.Hour

	// certsMissRefetchInterval limits refetches triggered by unknown key ids
	// while the cache is still fresh.
	certsMissRefetchInterval = time.Minute
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// idTokenClaims is the claim set of a provider ID token.
type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// idTokenVerifier checks RS256 ID tokens against the provider signing
// certificates. Certificates are cached and refetched on expiry. A token
// naming an unknown key id triggers at most one refetch per
// certsMissRefetchInterval, and concurrent fetches are collapsed into one.
type idTokenVerifier struct {
	clientID string
	certsURL string
	client   *utils.HTTPClient
	now      func() time.Time
	logger   *logger.Logger

	fetches singleflight.Group

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewIDTokenVerifier constructs an [IdentityVerifier] for signed ID tokens.
func NewIDTokenVerifier(cfg config.Identity, log *logger.Logger) IdentityVerifier {
	return &idTokenVerifier{
		clientID: cfg.ClientID,
		certsURL: cfg.CertsURL,
		client:   utils.NewHTTPClient(cfg.Timeout),
		now:      time.Now,
		logger:   log,
	}
}

func (v *idTokenVerifier) Verify(ctx context.Context, credential string) (models.Identity, error) {
	if v.clientID == "" {
		return models.Identity{}, ErrIdentityMisconfigured
	}

	claims := &idTokenClaims{}
	_, err := jwt.ParseWithClaims(credential, claims,
		func(token *jwt.Token) (any, error) {
			kid, _ := token.Header["kid"].(string)
			return v.key(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		// certificate download failures are provider errors, not bad tokens
		if errors.Is(err, ErrProvider) {
			return models.Identity{}, err
		}
		logger.FromContext(ctx).Debug().Err(err).Str("func", "*idTokenVerifier.Verify").Msg("id token rejected")
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}

	if !slices.Contains(googleIssuers, claims.Issuer) {
		return models.Identity{}, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidIdentity, claims.Issuer)
	}
	if claims.Email == "" {
		return models.Identity{}, ErrNoEmailClaim
	}

	return models.Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}

// key returns the public key for kid, refreshing the cache when it is stale
// or does not know kid.
func (v *idTokenVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, errors.New("token has no key id")
	}

	v.mu.RLock()
	keys, fetchedAt := v.keys, v.fetchedAt
	v.mu.RUnlock()

	if keys != nil {
		age := v.now().Sub(fetchedAt)
		if key, ok := keys[kid]; ok && age < certsCacheTTL {
			return key, nil
		}
		if age < certsMissRefetchInterval {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
	}

	res, err, _ := v.fetches.Do(v.certsURL, func() (any, error) {
		fetched, err := v.fetchKeys(ctx)
		if err != nil {
			return nil, err
		}

		v.mu.Lock()
		v.keys = fetched
		v.fetchedAt = v.now()
		v.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}

	key, ok := res.(map[string]*rsa.PublicKey)[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}

func (v *idTokenVerifier) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	log := logger.FromContext(ctx)

	certs := map[string]string{}
	resp, err := v.client.R().
		SetContext(ctx).
		SetResult(&certs).
		Get(v.certsURL)
	if err != nil {
		log.Err(err).Str("func", "*idTokenVerifier.fetchKeys").Msg("error fetching signing certificates")
		return nil, &ProviderError{Provider: identityProviderName, Message: "error fetching signing certificates", Err: err}
	}
	if err = mapHTTPError(identityProviderName, resp); err != nil {
		log.Err(err).Str("func", "*idTokenVerifier.fetchKeys").Msg("signing certificates request failed")
		return nil, err
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pem := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			log.Warn().Err(err).Str("kid", kid).Msg("skipping unparsable signing certificate")
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return nil, &ProviderError{Provider: identityProviderName, Message: "no usable signing certificates"}
	}

	return keys, nil
}
