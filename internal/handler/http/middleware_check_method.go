// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-image-gen/internal/app"
	"github.com/MKhiriev/go-image-gen/internal/utils"
)

// methodNotAllowed answers a known path requested with an unregistered
// method. It replaces chi's plain-text 405 with the JSON error body used by
// every other failure.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, app.MsgMethodNotAllowed, http.StatusMethodNotAllowed)
}

// notFound answers an unknown path with the JSON error body.
func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, app.MsgNotFound, http.StatusNotFound)
}
