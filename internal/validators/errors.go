// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrMissingUsername = errors.New("username is required")
	ErrMissingEmail    = errors.New("email is required")
	ErrMissingPassword = errors.New("password is required")
	ErrMissingToken    = errors.New("token is required")
	ErrUsernameTooLong = errors.New("username is too long")
	ErrEmailTooLong    = errors.New("email is too long")
	ErrPasswordTooLong = errors.New("password is too long")
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrInvalidImageID  = errors.New("invalid image id")
)
