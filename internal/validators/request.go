// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-image-gen/models"
)

// Field names accepted by [RequestValidator.Validate].
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
	FieldPrompt   = "prompt"
	FieldImageID  = "image_id"
)

// Column limits of the users table, in characters.
const (
	MaxUsernameLength = 80
	MaxEmailLength    = 120
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ImageID is a path-supplied image identifier.
type ImageID int64

// RequestValidator validates the API request payloads:
// [models.RegisterRequest], [models.LoginRequest],
// [models.FederatedLoginRequest], [models.PromptRequest] and [ImageID].
type RequestValidator struct{}

// NewRequestValidator constructs a [RequestValidator].
func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(*value, fields...)

	case models.LoginRequest:
		return v.validateLoginRequest(value, fields...)
	case *models.LoginRequest:
		return v.validateLoginRequest(*value, fields...)

	case models.FederatedLoginRequest:
		return v.validateFederatedLoginRequest(value)
	case *models.FederatedLoginRequest:
		return v.validateFederatedLoginRequest(*value)

	case models.PromptRequest:
		return v.validatePrompt(value.Prompt)
	case *models.PromptRequest:
		return v.validatePrompt(value.Prompt)

	case ImageID:
		if value <= 0 {
			return ErrInvalidImageID
		}
		return nil

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateRegisterRequest(req models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldEmail, FieldPassword}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldUsername:
			err = validateRequired(req.Username, MaxUsernameLength, ErrMissingUsername, ErrUsernameTooLong)
		case FieldEmail:
			err = validateRequired(req.Email, MaxEmailLength, ErrMissingEmail, ErrEmailTooLong)
		case FieldPassword:
			err = validateRequired(req.Password, 0, ErrMissingPassword, nil)
			if err == nil && len(req.Password) > MaxPasswordBytes {
				err = ErrPasswordTooLong
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (v *RequestValidator) validateLoginRequest(req models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, field := range fields {
		switch field {
		case FieldEmail:
			if req.Email == "" {
				return ErrMissingEmail
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrMissingPassword
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *RequestValidator) validateFederatedLoginRequest(req models.FederatedLoginRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return ErrMissingToken
	}
	return nil
}

func (v *RequestValidator) validatePrompt(p models.Prompt) error {
	if strings.TrimSpace(models.ResolvePrompt(p)) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// validateRequired rejects empty values and, when maxLen > 0, values longer
// than maxLen characters.
func validateRequired(value string, maxLen int, errMissing, errTooLong error) error {
	if value == "" {
		return errMissing
	}
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		return errTooLong
	}
	return nil
}
