// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthService_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	svc := NewHealthService(db, logger.Nop())

	mock.ExpectPing()
	assert.NoError(t, svc.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errDB)
	assert.ErrorIs(t, svc.Ping(context.Background()), errDB)

	assert.NoError(t, mock.ExpectationsWereMet())
}
