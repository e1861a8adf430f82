// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-image-gen/internal/app"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/utils"
	"github.com/MKhiriev/go-image-gen/models"
	"github.com/go-chi/chi/v5"
)

// maxGenerateBodyBytes caps the POST /image/generate request body.
const maxGenerateBodyBytes = 64 << 10

func (h *Handler) userImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeServiceError(w, r, ErrNoUserInContext, app.MsgInternalServerError)
		return
	}

	images, err := h.services.ImageService.ListUserImages(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err, app.MsgInternalServerError)
		return
	}

	baseURL := utils.RequestBaseURL(r, h.trustForwardedHeaders)
	resp := models.ImagesResponse{Images: make([]models.ImageResponse, 0, len(images))}
	for _, image := range images {
		resp.Images = append(resp.Images, models.NewImageResponse(image, h.services.ImageService.ImageURL(baseURL, image)))
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// generateImage answers every failure with 400 and a message naming the cause.
func (h *Handler) generateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeServiceError(w, r, ErrNoUserInContext, app.MsgInternalServerError)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxGenerateBodyBytes))
	if err != nil {
		log.Debug().Err(err).Msg("reading request body failed")
		msg := app.MsgInvalidJSON
		if maxErr := new(http.MaxBytesError); errors.As(err, &maxErr) {
			msg = app.MsgRequestTooLarge
		}
		utils.WriteError(w, app.MsgImageGenerationFailed+": "+msg, http.StatusBadRequest)
		return
	}

	var req models.PromptRequest
	if len(body) > 0 {
		if err = json.Unmarshal(body, &req); err != nil {
			log.Debug().Err(err).Msg("invalid JSON was passed")
			utils.WriteError(w, app.MsgImageGenerationFailed+": "+app.MsgInvalidJSON, http.StatusBadRequest)
			return
		}
	}

	image, err := h.services.ImageService.GenerateImage(ctx, userID, req)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("image generation failed")
		utils.WriteError(w, generationErrorMessage(err), http.StatusBadRequest)
		return
	}

	url := h.services.ImageService.ImageURL(utils.RequestBaseURL(r, h.trustForwardedHeaders), image)
	utils.WriteJSON(w, models.GenerateResponse{Success: true, Image: models.NewImageResponse(image, url)}, http.StatusOK)
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeServiceError(w, r, ErrNoUserInContext, app.MsgImageDeleteFailed)
		return
	}

	imageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("non-numeric image id")
		utils.WriteError(w, app.MsgImageNotFound, http.StatusNotFound)
		return
	}

	if err = h.services.ImageService.DeleteImage(ctx, userID, imageID); err != nil {
		writeServiceError(w, r, err, app.MsgImageDeleteFailed)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgImageDeleted}, http.StatusOK)
}
