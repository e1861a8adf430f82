// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents an account entity used for authentication and authorization.
//
// Accounts are created either through local registration (username, email and
// password) or on the first federated login, in which case Username and
// PasswordHash stay nil. Email is the linking key between both paths and is
// unique across the whole table.
type User struct {
	// UserID is the server-generated unique identifier of the user.
	UserID int64 `json:"id"`

	// Username is the unique login name chosen at registration.
	// It is nil for accounts created through federated login.
	Username *string `json:"username"`

	// Email is the unique e-mail address of the account.
	Email string `json:"email"`

	// PasswordHash stores the salted one-way hash of the user's password.
	// It is nil for SSO-only accounts and is never exposed via JSON.
	PasswordHash *string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// HasPassword reports whether the account can authenticate with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
