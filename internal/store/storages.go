// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
)

// Storages aggregates every persistence component used by the service layer.
type Storages struct {
	DB               *DB
	UserRepository   UserRepository
	ImageRepository  ImageRepository
	ImageFileStorage ImageFileStorage
}

// NewStorages connects to the database, applies migrations and builds the
// configured image file storage.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Str("dialect", db.Dialect()).Msg("database migrations applied")

	files, err := NewImageFileStorage(ctx, cfg.Files, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storages{
		DB:               db,
		UserRepository:   NewUserRepository(db, log),
		ImageRepository:  NewImageRepository(db, log),
		ImageFileStorage: files,
	}, nil
}

// NewImageFileStorage builds the backend selected by cfg.Backend.
func NewImageFileStorage(ctx context.Context, cfg config.Files, log *logger.Logger) (ImageFileStorage, error) {
	switch cfg.Backend {
	case config.FilesBackendLocal:
		return NewLocalFileStorage(cfg.StaticDir, log)
	case config.FilesBackendS3:
		return NewS3FileStorage(ctx, cfg.S3, log)
	}

	return nil, fmt.Errorf("unknown files backend %q", cfg.Backend)
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	return s.DB.Close()
}
