// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/store"
	"golang.org/x/sync/errgroup"
)

// Workers runs a fixed set of background workers.
type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// NewWorkers builds the workers enabled by cfg. The orphan sweeper is enabled
// only when cfg.OrphanSweepInterval is positive.
func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	w := &Workers{logger: logger}

	if cfg.OrphanSweepInterval > 0 {
		w.workers = append(w.workers, NewOrphanSweeper(
			storages.ImageRepository,
			storages.ImageFileStorage,
			cfg.OrphanSweepInterval,
			cfg.OrphanGracePeriod,
			logger,
		))
	}

	logger.Info().Int("count", len(w.workers)).Msg("workers created")
	return w
}

// Len returns the number of configured workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and blocks until all of them have returned. The
// first failing worker cancels the others and its error is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return g.Wait()
}
