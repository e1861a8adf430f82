// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Identity is a verified identity asserted by a third-party identity provider.
type Identity struct {
	// Subject is the provider-side unique user identifier ("sub").
	Subject string `json:"sub"`

	// Email is the verified e-mail address; it links the identity to a local User.
	Email string `json:"email"`

	// EmailVerified is the provider's "email_verified" flag.
	EmailVerified bool `json:"email_verified"`

	// Name is the display name, when the provider returns one.
	Name string `json:"name"`
}
