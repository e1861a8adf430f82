// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-image-gen/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// corsMaxAge is the preflight cache lifetime in seconds.
const corsMaxAge = 300

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		h.withTraceID,
		h.withLogging,
		withMetrics,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   h.corsAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			ExposedHeaders:   []string{"Content-Range", "X-Content-Range", traceIDHeader},
			AllowCredentials: true,
			MaxAge:           corsMaxAge,
		}),
		middleware.Compress(5),
	)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Get("/ping", h.ping)
	router.Handle("/metrics", promhttp.Handler())
	if h.staticDir != "" {
		router.Handle(store.StaticURLPrefix+"*", http.StripPrefix(store.StaticURLPrefix, http.FileServer(newImageFileSystem(h.staticDir))))
	}

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/google-login", h.googleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.auth, h.loadCurrentUser)
			r.Get("/user", h.currentUser)
			r.Get("/verify-token", h.verifyToken)
		})
	})

	router.Route("/image", func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/user-images", h.userImages)
		r.Post("/generate", h.generateImage)
		r.Delete("/api/images/{id}", h.deleteImage)
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	return router
}
