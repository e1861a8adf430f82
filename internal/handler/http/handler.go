// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/service"
)

// Handler owns the HTTP routes and middleware of the server.
type Handler struct {
	services *service.Services

	// corsAllowedOrigins lists browser origins allowed to call the API.
	corsAllowedOrigins []string

	// staticDir is served under /static/ when images are stored locally.
	// Empty disables static serving.
	staticDir string

	requestTimeout time.Duration

	// trustForwardedHeaders lets X-Forwarded-* shape image URLs.
	trustForwardedHeaders bool

	logger *logger.Logger
}

// NewHandler builds a Handler. Static serving is enabled only for the local
// files backend.
func NewHandler(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	h := &Handler{
		services:              services,
		corsAllowedOrigins:    cfg.App.CORSAllowedOrigins,
		requestTimeout:        cfg.Server.RequestTimeout,
		trustForwardedHeaders: cfg.App.TrustForwardedHeaders,
		logger:                logger,
	}
	if cfg.Storage.Files.Backend == config.FilesBackendLocal {
		h.staticDir = cfg.Storage.Files.StaticDir
	}

	logger.Info().Msg("http handler created")
	return h
}
