// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-image-gen/internal/adapter"
	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/store"
	"github.com/MKhiriev/go-image-gen/internal/validators"
)

// Services aggregates the service layer consumed by the HTTP handlers.
type Services struct {
	AuthService   AuthService
	ImageService  ImageService
	HealthService HealthService
}

// NewServices builds the provider adapters from cfg and wires every service
// to storages.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	identityVerifier, err := adapter.NewIdentityVerifier(cfg.Providers.Identity, logger)
	if err != nil {
		return nil, err
	}
	generator := adapter.NewReplicateGenerator(cfg.Providers.Generation, logger)
	validator := validators.NewRequestValidator()

	return &Services{
		AuthService: NewAuthService(storages.UserRepository, identityVerifier, validator, cfg.App, logger),
		ImageService: NewImageService(
			storages.UserRepository,
			storages.ImageRepository,
			storages.ImageFileStorage,
			generator,
			validator,
			cfg.App,
			logger,
		),
		HealthService: NewHealthService(storages.DB, logger),
	}, nil
}
