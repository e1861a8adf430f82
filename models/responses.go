// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// generatedAtLayout is the wire format of image timestamps.
const generatedAtLayout = "2006-01-02T15:04:05.000000Z07:00"

// UserResponse is the public view of a [User].
type UserResponse struct {
	ID       int64   `json:"id"`
	Username *string `json:"username"`
	Email    string  `json:"email"`
}

// NewUserResponse builds the public view of u.
func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:       u.UserID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// AuthResponse is returned by the login endpoints.
type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// UserEnvelope is returned by GET /auth/user.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// VerifyTokenResponse is returned by GET /auth/verify-token.
type VerifyTokenResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// ImageResponse is the public view of an [Image].
type ImageResponse struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Prompt      string `json:"prompt"`
	GeneratedAt string `json:"generated_at"`
}

// NewImageResponse builds the public view of img; url must already be
// publicly resolvable.
func NewImageResponse(img Image, url string) ImageResponse {
	return ImageResponse{
		ID:          img.ImageID,
		URL:         url,
		Prompt:      img.Prompt,
		GeneratedAt: FormatGeneratedAt(img.GeneratedAt),
	}
}

// FormatGeneratedAt renders t in UTC with microsecond precision.
func FormatGeneratedAt(t time.Time) string {
	return t.UTC().Format(generatedAtLayout)
}

// ImagesResponse is returned by GET /image/user-images.
type ImagesResponse struct {
	Images []ImageResponse `json:"images"`
}

// GenerateResponse is returned by POST /image/generate.
type GenerateResponse struct {
	Success bool          `json:"success"`
	Image   ImageResponse `json:"image"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
