// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/store"
)

// OrphanSweeper removes stored image files that no images row references.
//
// A generation writes its file before inserting the row, so a crash between
// both steps leaves the file behind. Files younger than the grace period are
// skipped, as their row may still be on its way.
type OrphanSweeper struct {
	images store.ImageRepository
	files  store.ImageFileStorage

	interval    time.Duration
	gracePeriod time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// NewOrphanSweeper returns a sweeper running every interval.
func NewOrphanSweeper(
	images store.ImageRepository,
	files store.ImageFileStorage,
	interval, gracePeriod time.Duration,
	logger *logger.Logger,
) *OrphanSweeper {
	return &OrphanSweeper{
		images:      images,
		files:       files,
		interval:    interval,
		gracePeriod: gracePeriod,
		now:         time.Now,
		logger:      logger,
	}
}

// Run sweeps once per interval until ctx is cancelled. Sweep failures are
// logged and retried on the next tick.
func (s *OrphanSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Dur("grace_period", s.gracePeriod).Msg("orphan sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("orphan sweeper stopped")
			return nil
		case <-ticker.C:
			removed, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Err(err).Str("func", "*OrphanSweeper.Run").Msg("orphan sweep failed")
				continue
			}
			if removed > 0 {
				s.logger.Info().Int("removed", removed).Msg("orphan image files removed")
			}
		}
	}
}

// Sweep performs a single pass and returns the number of removed files.
// A file that fails to be removed is logged and does not abort the pass.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing image files failed: %w", err)
	}

	cutoff := s.now().Add(-s.gracePeriod)
	removed := 0
	for _, file := range files {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if file.ModifiedAt.After(cutoff) {
			continue
		}

		exists, err := s.images.ImagePathExists(ctx, file.Path)
		if err != nil {
			return removed, fmt.Errorf("checking image path %q failed: %w", file.Path, err)
		}
		if exists {
			continue
		}

		if err = s.files.Remove(ctx, file.Path); err != nil && !errors.Is(err, store.ErrFileNotFound) {
			s.logger.Warn().Err(err).Str("path", file.Path).Msg("removing orphan image file failed")
			continue
		}
		s.logger.Debug().Str("path", file.Path).Msg("orphan image file removed")
		removed++
	}

	return removed, nil
}
