// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrProvider is matched by every [ProviderError].
	ErrProvider = errors.New("provider error")

	// ErrNoImageGenerated is returned when a finished prediction has no output.
	ErrNoImageGenerated = errors.New("no image generated from API")

	// ErrImageTooLarge is returned when a generated image exceeds the
	// download size limit.
	ErrImageTooLarge = errors.New("generated image is too large")

	// ErrInvalidIdentity is returned when a federated credential fails
	// verification or is rejected by the identity provider.
	ErrInvalidIdentity = errors.New("invalid identity token")

	// ErrNoEmailClaim is returned when a verified identity carries no email.
	ErrNoEmailClaim = errors.New("identity provider did not return an email")

	// ErrIdentityMisconfigured is returned when no client id is configured.
	ErrIdentityMisconfigured = errors.New("identity provider client id is not configured")

	// ErrGenerationMisconfigured is returned when no API token is configured.
	ErrGenerationMisconfigured = errors.New("generation provider API token is not configured")
)

// ProviderError describes a failed call to an external provider.
// StatusCode is zero when no HTTP response was received.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

// Unwrap makes errors.Is match both ErrProvider and the underlying cause.
func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProvider}
	}
	return []error{ErrProvider, e.Err}
}
