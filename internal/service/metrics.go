// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "github.com/prometheus/client_golang/prometheus"

// Outcomes of an image generation request.
const (
	outcomeSuccess       = "success"
	outcomeInvalid       = "invalid"
	outcomeProviderError = "provider_error"
	outcomeStorageError  = "storage_error"
)

// imageGenerationTotal counts generation requests by outcome.
var imageGenerationTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "image_generation_total",
		Help: "Total number of image generation requests by outcome",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(imageGenerationTotal)
}
