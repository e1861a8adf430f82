// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/models"
)

// imageRepository is the SQL implementation of [ImageRepository].
type imageRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewImageRepository constructs an [ImageRepository] backed by db.
func NewImageRepository(db *DB, logger *logger.Logger) ImageRepository {
	logger.Debug().Msg("creating image repository")
	return &imageRepository{
		db:     db,
		logger: logger,
	}
}

// CreateImage inserts a new image row. GeneratedAt defaults to the current
// UTC time when zero.
func (r *imageRepository) CreateImage(ctx context.Context, image models.Image) (models.Image, error) {
	log := logger.FromContext(ctx)

	if image.GeneratedAt.IsZero() {
		image.GeneratedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	query, args, err := buildInsertImageQuery(r.db.builder, image)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.CreateImage").Msg("error building query")
		return models.Image{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&image.ImageID); err != nil {
		log.Err(err).
			Str("func", "*imageRepository.CreateImage").
			Int64("user_id", image.UserID).
			Msg("error inserting image")
		return models.Image{}, r.db.classify(err, nil, ErrNoUserWasFound, ErrExecutingStatement)
	}

	return image, nil
}

// FindImageByID returns the image with imageID.
func (r *imageRepository) FindImageByID(ctx context.Context, imageID int64) (models.Image, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectImageByIDQuery(r.db.builder, imageID)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.FindImageByID").Msg("error building query")
		return models.Image{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var image models.Image
	err = scanImage(r.db.QueryRowContext(ctx, query, args...), &image)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Image{}, ErrImageNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.FindImageByID").Int64("image_id", imageID).Msg("error selecting image")
		return models.Image{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return image, nil
}

// ListImagesByUserID returns all images of userID ordered by generated_at
// descending; ties are broken by id descending. The result is never nil.
func (r *imageRepository) ListImagesByUserID(ctx context.Context, userID int64) ([]models.Image, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListUserImagesQuery(r.db.builder, userID)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.ListImagesByUserID").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.ListImagesByUserID").Int64("user_id", userID).Msg("error selecting images")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	images := make([]models.Image, 0)
	for rows.Next() {
		var image models.Image
		if err = scanImage(rows, &image); err != nil {
			log.Err(err).Str("func", "*imageRepository.ListImagesByUserID").Msg("error scanning image row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		images = append(images, image)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*imageRepository.ListImagesByUserID").Msg("error iterating image rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return images, nil
}

// DeleteImage removes the row with imageID inside a transaction, so a failed
// delete leaves nothing half-applied.
func (r *imageRepository) DeleteImage(ctx context.Context, imageID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteImageQuery(r.db.builder, imageID)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.DeleteImage").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.DeleteImage").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.DeleteImage").Int64("image_id", imageID).Msg("error deleting image")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrImageNotFound
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "*imageRepository.DeleteImage").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// ImagePathExists reports whether a row references path.
func (r *imageRepository) ImagePathExists(ctx context.Context, path string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildImagePathExistsQuery(r.db.builder, path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*imageRepository.ImagePathExists").Msg("error counting images")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanImage reads one row in imageColumns order.
func scanImage(row rowScanner, image *models.Image) error {
	return row.Scan(&image.ImageID, &image.Prompt, &image.ImagePath, &image.UserID, &image.GeneratedAt)
}
