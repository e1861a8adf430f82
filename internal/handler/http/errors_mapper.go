// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-image-gen/internal/adapter"
	"github.com/MKhiriev/go-image-gen/internal/app"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/service"
	"github.com/MKhiriev/go-image-gen/internal/store"
	"github.com/MKhiriev/go-image-gen/internal/utils"
	"github.com/MKhiriev/go-image-gen/internal/validators"
)

// errorResponse is the HTTP rendering of a domain error.
type errorResponse struct {
	target  error
	status  int
	message string
}

// errorStatusMap is ordered: the first target matched by errors.Is wins, so
// specific validation errors precede the generic ones that wrap them.
var errorStatusMap = []errorResponse{
	{validators.ErrMissingToken, http.StatusBadRequest, app.MsgMissingToken},
	{validators.ErrEmptyPrompt, http.StatusBadRequest, app.MsgEmptyPrompt},
	{validators.ErrInvalidImageID, http.StatusNotFound, app.MsgImageNotFound},
	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgMissingRequiredFields},

	{store.ErrUserAlreadyExists, http.StatusConflict, app.MsgUserAlreadyExists},
	{store.ErrNoUserWasFound, http.StatusNotFound, app.MsgUserNotFound},
	{store.ErrImageNotFound, http.StatusNotFound, app.MsgImageNotFound},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, app.MsgInvalidCredentials},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	{service.ErrForbiddenImageAccess, http.StatusForbidden, app.MsgForbiddenImageDelete},

	{adapter.ErrInvalidIdentity, http.StatusUnauthorized, app.MsgInvalidGoogleToken},
	{adapter.ErrNoEmailClaim, http.StatusUnauthorized, app.MsgGoogleNoEmail},
	{adapter.ErrIdentityMisconfigured, http.StatusInternalServerError, app.MsgGoogleLoginMisconfigured},
	{adapter.ErrProvider, http.StatusBadGateway, app.MsgProviderUnavailable},
}

func lookupError(err error) (errorResponse, bool) {
	for _, e := range errorStatusMap {
		if errors.Is(err, e.target) {
			return e, true
		}
	}
	return errorResponse{}, false
}

// writeServiceError renders err as a JSON error body. Unmapped errors become
// a 500 carrying fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log := logger.FromRequest(r)

	e, ok := lookupError(err)
	if !ok {
		log.Err(err).Msg("unexpected error")
		utils.WriteError(w, fallback, http.StatusInternalServerError)
		return
	}

	if e.status >= http.StatusInternalServerError {
		log.Err(err).Int("status", e.status).Send()
	} else {
		log.Debug().Err(err).Int("status", e.status).Send()
	}
	utils.WriteError(w, e.message, e.status)
}

// generationErrorMessage renders a failed generation as
// "Image generation failed: <cause>".
func generationErrorMessage(err error) string {
	if e, ok := lookupError(err); ok && e.status < http.StatusInternalServerError {
		return app.MsgImageGenerationFailed + ": " + e.message
	}
	cause := strings.TrimPrefix(err.Error(), service.ErrImageGenerationFailed.Error()+": ")
	return app.MsgImageGenerationFailed + ": " + cause
}
