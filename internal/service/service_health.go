// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-image-gen/internal/logger"
)

// Pinger is satisfied by *store.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthService struct {
	db     Pinger
	logger *logger.Logger
}

// NewHealthService returns a HealthService that probes db.
func NewHealthService(db Pinger, logger *logger.Logger) HealthService {
	return &healthService{db: db, logger: logger}
}

func (h *healthService) Ping(ctx context.Context) error {
	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*healthService.Ping").Msg("database ping failed")
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
