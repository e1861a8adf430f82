// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Image is the metadata record of a generated image.
//
// The image bytes live in the configured file storage under ImagePath; the
// record and the file are written independently, so either may outlive the
// other after a crash (see the orphan sweep worker).
type Image struct {
	// ImageID is the server-generated unique identifier of the image.
	ImageID int64 `json:"id"`

	// Prompt is the final resolved text that was sent to the generation provider.
	Prompt string `json:"prompt"`

	// ImagePath is the storage location relative to the storage root
	// (e.g. "images/user_1_20240101120000123456.png").
	ImagePath string `json:"image_path"`

	// UserID is the owner of the image.
	UserID int64 `json:"user_id"`

	// GeneratedAt is the creation timestamp of the record.
	GeneratedAt time.Time `json:"generated_at"`
}

// TableName returns the name of the database table
// associated with the Image model.
func (i Image) TableName() string {
	return "images"
}

// StoredFile describes a single object found in image file storage.
type StoredFile struct {
	// Path is relative to the storage root, in the same form as Image.ImagePath.
	Path string

	// ModifiedAt is the last modification time reported by the backend.
	ModifiedAt time.Time
}
