// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the claim set embedded in every bearer token issued by the
// server. The "sub" claim carries the user ID as a base-10 string.
type TokenClaims struct {
	jwt.RegisteredClaims

	// Email is an additional claim used by downstream consumers.
	Email string `json:"email,omitempty"`
}

// GetUserID parses the "sub" claim as a base-10 int64.
func (c *TokenClaims) GetUserID() (int64, error) {
	userIDString, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}
	if userIDString == "" {
		return 0, fmt.Errorf("error extracting UserID from token: empty subject")
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// Token is a signed bearer token together with the identity it carries.
// Tokens are stateless: nothing about them is persisted server-side.
type Token struct {
	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the owner identifier taken from the "sub" claim.
	UserID int64 `json:"-"`

	// Email is the value of the "email" claim, if present.
	Email string `json:"-"`

	// ExpiresAt is the moment the token stops being valid.
	ExpiresAt time.Time `json:"-"`
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
