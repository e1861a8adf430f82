// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-image-gen/internal/app"
	"github.com/MKhiriev/go-image-gen/internal/utils"
	"github.com/MKhiriev/go-image-gen/models"
)

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.services.HealthService.Ping(r.Context()); err != nil {
		utils.WriteError(w, app.MsgServiceUnavailable, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "pong"}, http.StatusOK)
}
