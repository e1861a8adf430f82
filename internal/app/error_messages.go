// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// image generation server handlers and middleware.
//
// All Msg* constants are human-readable strings written into HTTP response
// bodies. Browser clients match on some of them, so the wording is stable.
package app

const (
	// MsgInvalidJSON is returned when the request body is not valid JSON.
	MsgInvalidJSON = "Invalid JSON"

	// MsgRequestTooLarge is returned when a request body exceeds its limit.
	MsgRequestTooLarge = "Request body is too large"

	// MsgMissingRequiredFields is returned when a register or login request
	// lacks one of its fields.
	MsgMissingRequiredFields = "Missing required fields"

	// MsgUserAlreadyExists is returned when registration hits a taken
	// username or email.
	MsgUserAlreadyExists = "Username or email already exists"

	// MsgInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	MsgInvalidCredentials = "Invalid email or password"

	MsgRegistrationSuccessful = "Registration successful"

	// MsgMissingAuthorization is returned when a protected route is called
	// without a bearer token.
	MsgMissingAuthorization = "Missing authorization header"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is expired,
	// malformed or signed with a foreign key.
	MsgTokenIsExpiredOrInvalid = "Token is expired or invalid"

	MsgMissingToken = "Missing token"

	// MsgInvalidGoogleToken is returned when the federated credential is
	// rejected.
	MsgInvalidGoogleToken = "Invalid Google token"

	MsgGoogleNoEmail = "Google login did not return an email"

	// MsgGoogleLoginMisconfigured is returned when no client id is configured.
	MsgGoogleLoginMisconfigured = "Google login is not configured"

	// MsgProviderUnavailable is returned when an upstream provider could not
	// be reached or answered with an unexpected status.
	MsgProviderUnavailable = "Upstream provider request failed"

	MsgUserNotFound  = "User not found"
	MsgImageNotFound = "Image not found"

	// MsgForbiddenImageDelete is returned when the image belongs to another user.
	MsgForbiddenImageDelete = "Unauthorized to delete this image"

	MsgImageDeleteFailed = "Failed to delete image"
	MsgImageDeleted      = "Image deleted successfully"

	// MsgImageGenerationFailed prefixes every generation failure message.
	MsgImageGenerationFailed = "Image generation failed"

	MsgEmptyPrompt = "Prompt is required"

	MsgInternalServerError = "Internal server error"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgNotFound            = "Not found"
	MsgServiceUnavailable  = "Service unavailable"
)
