// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport layer of the image generation
// server.
//
// It exposes route wiring, request handlers and middleware used by the JSON
// API. Cross-cutting concerns such as bearer authentication, request tracing,
// access logging, CORS, compression and request metrics are handled in this
// package before requests are delegated to the service layer.
package http
