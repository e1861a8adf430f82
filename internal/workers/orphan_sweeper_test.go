// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/mock"
	"github.com/MKhiriev/go-image-gen/internal/store"
	"github.com/MKhiriev/go-image-gen/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var sweepNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSweeper(t *testing.T) (*OrphanSweeper, *mock.MockImageRepository, *mock.MockImageFileStorage) {
	t.Helper()
	ctrl := gomock.NewController(t)
	images := mock.NewMockImageRepository(ctrl)
	files := mock.NewMockImageFileStorage(ctrl)

	s := NewOrphanSweeper(images, files, time.Minute, time.Hour, logger.Nop())
	s.now = func() time.Time { return sweepNow }
	return s, images, files
}

func TestOrphanSweeper_Sweep(t *testing.T) {
	s, images, files := newTestSweeper(t)
	ctx := context.Background()

	files.EXPECT().List(ctx).Return([]models.StoredFile{
		{Path: "images/recorded.png", ModifiedAt: sweepNow.Add(-2 * time.Hour)},
		{Path: "images/orphan.png", ModifiedAt: sweepNow.Add(-2 * time.Hour)},
		{Path: "images/fresh.png", ModifiedAt: sweepNow.Add(-time.Minute)},
		{Path: "images/gone.png", ModifiedAt: sweepNow.Add(-3 * time.Hour)},
	}, nil)
	images.EXPECT().ImagePathExists(ctx, "images/recorded.png").Return(true, nil)
	images.EXPECT().ImagePathExists(ctx, "images/orphan.png").Return(false, nil)
	images.EXPECT().ImagePathExists(ctx, "images/gone.png").Return(false, nil)
	files.EXPECT().Remove(ctx, "images/orphan.png").Return(nil)
	files.EXPECT().Remove(ctx, "images/gone.png").Return(store.ErrFileNotFound)

	removed, err := s.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestOrphanSweeper_Sweep_RemoveFailureContinues(t *testing.T) {
	s, images, files := newTestSweeper(t)
	old := sweepNow.Add(-2 * time.Hour)

	files.EXPECT().List(gomock.Any()).Return([]models.StoredFile{
		{Path: "images/a.png", ModifiedAt: old},
		{Path: "images/b.png", ModifiedAt: old},
	}, nil)
	images.EXPECT().ImagePathExists(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	files.EXPECT().Remove(gomock.Any(), "images/a.png").Return(errors.New("permission denied"))
	files.EXPECT().Remove(gomock.Any(), "images/b.png").Return(nil)

	removed, err := s.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestOrphanSweeper_Sweep_Errors(t *testing.T) {
	errStorage := errors.New("storage error")

	t.Run("list fails", func(t *testing.T) {
		s, _, files := newTestSweeper(t)
		files.EXPECT().List(gomock.Any()).Return(nil, errStorage)

		_, err := s.Sweep(context.Background())

		assert.ErrorIs(t, err, errStorage)
	})

	t.Run("lookup fails", func(t *testing.T) {
		s, images, files := newTestSweeper(t)
		files.EXPECT().List(gomock.Any()).Return([]models.StoredFile{{Path: "images/a.png"}}, nil)
		images.EXPECT().ImagePathExists(gomock.Any(), "images/a.png").Return(false, errStorage)

		_, err := s.Sweep(context.Background())

		assert.ErrorIs(t, err, errStorage)
	})
}

func TestOrphanSweeper_Run_StopsOnCancel(t *testing.T) {
	s, images, files := newTestSweeper(t)
	s.interval = 10 * time.Millisecond
	files.EXPECT().List(gomock.Any()).Return(nil, nil).MinTimes(1)
	images.EXPECT().ImagePathExists(gomock.Any(), gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
