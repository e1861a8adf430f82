// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server wires and runs the application's HTTP server together with
// its background workers.
//
// It provides orchestration for their lifecycles, including startup,
// context-driven stop and graceful shutdown.
package server
