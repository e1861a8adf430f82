// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-image-gen/internal/adapter"
	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/store"
	"github.com/MKhiriev/go-image-gen/internal/validators"
	"github.com/MKhiriev/go-image-gen/models"
)

// imageFileTimeLayout is the second-resolution part of an image file name.
// Microseconds are appended separately to keep names unique per user.
const imageFileTimeLayout = "20060102150405"

type imageService struct {
	userRepository  store.UserRepository
	imageRepository store.ImageRepository
	files           store.ImageFileStorage
	generator       adapter.ImageGenerator
	validator       validators.Validator

	// publicBaseURL overrides the request-derived base of image URLs.
	publicBaseURL string

	now    func() time.Time
	logger *logger.Logger
}

// NewImageService constructs an ImageService. Generated images are written
// to files and indexed in imageRepository.
func NewImageService(
	userRepository store.UserRepository,
	imageRepository store.ImageRepository,
	files store.ImageFileStorage,
	generator adapter.ImageGenerator,
	validator validators.Validator,
	cfg config.App,
	logger *logger.Logger,
) ImageService {
	return &imageService{
		userRepository:  userRepository,
		imageRepository: imageRepository,
		files:           files,
		generator:       generator,
		validator:       validator,
		publicBaseURL:   cfg.PublicBaseURL,
		now:             time.Now,
		logger:          logger,
	}
}

// GenerateImage runs the resolved prompt through the provider, downloads the
// result and records it for userID.
//
// Provider failures are wrapped in ErrImageGenerationFailed. If the database
// insert fails after the file was written, the file is removed on a best
// effort basis; leftovers are collected by the orphan sweeper.
func (s *imageService) GenerateImage(ctx context.Context, userID int64, req models.PromptRequest) (models.Image, error) {
	log := logger.FromContext(ctx).With().Str("func", "*imageService.GenerateImage").Int64("user_id", userID).Logger()

	if _, err := s.userRepository.FindUserByID(ctx, userID); err != nil {
		log.Debug().Err(err).Msg("user lookup failed")
		return models.Image{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if err := s.validator.Validate(ctx, req); err != nil {
		imageGenerationTotal.WithLabelValues(outcomeInvalid).Inc()
		log.Debug().Err(err).Msg("invalid prompt")
		return models.Image{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	prompt := models.ResolvePrompt(req.Prompt)

	outputURL, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		imageGenerationTotal.WithLabelValues(outcomeProviderError).Inc()
		log.Err(err).Msg("image generation failed")
		return models.Image{}, fmt.Errorf("%w: %w", ErrImageGenerationFailed, err)
	}

	data, err := s.generator.Download(ctx, outputURL)
	if err != nil {
		imageGenerationTotal.WithLabelValues(outcomeProviderError).Inc()
		log.Err(err).Msg("image download failed")
		return models.Image{}, fmt.Errorf("%w: %w", ErrImageGenerationFailed, err)
	}

	generatedAt := s.now().UTC().Truncate(time.Microsecond)
	path, err := s.files.Save(ctx, ImageFileName(userID, generatedAt), data)
	if err != nil {
		imageGenerationTotal.WithLabelValues(outcomeStorageError).Inc()
		log.Err(err).Msg("saving image file failed")
		return models.Image{}, fmt.Errorf("saving image file failed: %w", err)
	}

	image, err := s.imageRepository.CreateImage(ctx, models.Image{
		Prompt:      prompt,
		ImagePath:   path,
		UserID:      userID,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		imageGenerationTotal.WithLabelValues(outcomeStorageError).Inc()
		log.Err(err).Str("path", path).Msg("recording image failed")
		if rmErr := s.files.Remove(ctx, path); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", path).Msg("removing unrecorded image file failed")
		}
		return models.Image{}, fmt.Errorf("recording image failed: %w", err)
	}

	imageGenerationTotal.WithLabelValues(outcomeSuccess).Inc()
	log.Info().Int64("image_id", image.ImageID).Str("path", path).Msg("image generated")
	return image, nil
}

// ListUserImages returns store.ErrNoUserWasFound if userID does not exist.
func (s *imageService) ListUserImages(ctx context.Context, userID int64) ([]models.Image, error) {
	if _, err := s.userRepository.FindUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user search by id failed: %w", err)
	}

	images, err := s.imageRepository.ListImagesByUserID(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*imageService.ListUserImages").Msg("listing images failed")
		return nil, fmt.Errorf("listing images failed: %w", err)
	}

	return images, nil
}

// DeleteImage checks, in order, that userID exists, that imageID exists and
// that it belongs to userID. It then removes the file and the row. A file
// that cannot be removed is logged and does not fail the deletion.
func (s *imageService) DeleteImage(ctx context.Context, userID, imageID int64) error {
	log := logger.FromContext(ctx).With().
		Str("func", "*imageService.DeleteImage").
		Int64("user_id", userID).
		Int64("image_id", imageID).
		Logger()

	if err := s.validator.Validate(ctx, validators.ImageID(imageID)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if _, err := s.userRepository.FindUserByID(ctx, userID); err != nil {
		return fmt.Errorf("user search by id failed: %w", err)
	}

	image, err := s.imageRepository.FindImageByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("image search by id failed: %w", err)
	}

	if image.UserID != userID {
		log.Warn().Int64("owner_id", image.UserID).Msg("attempt to delete a foreign image")
		return ErrForbiddenImageAccess
	}

	if err = s.files.Remove(ctx, image.ImagePath); err != nil {
		if errors.Is(err, store.ErrFileNotFound) {
			log.Debug().Str("path", image.ImagePath).Msg("image file already gone")
		} else {
			log.Warn().Err(err).Str("path", image.ImagePath).Msg("removing image file failed")
		}
	}

	if err = s.imageRepository.DeleteImage(ctx, imageID); err != nil {
		log.Err(err).Msg("deleting image row failed")
		return fmt.Errorf("deleting image failed: %w", err)
	}

	log.Info().Msg("image deleted")
	return nil
}

func (s *imageService) ImageURL(requestBaseURL string, image models.Image) string {
	baseURL := requestBaseURL
	if s.publicBaseURL != "" {
		baseURL = s.publicBaseURL
	}
	return s.files.URL(baseURL, image.ImagePath)
}

// ImageFileName returns the storage name of an image generated for userID at t,
// e.g. "user_7_20240102030405000006.png".
func ImageFileName(userID int64, t time.Time) string {
	return fmt.Sprintf("user_%d_%s%06d.png", userID, t.Format(imageFileTimeLayout), t.Nanosecond()/int(time.Microsecond))
}
