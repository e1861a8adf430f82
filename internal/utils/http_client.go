// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
//	client := utils.NewHTTPClient(10 * time.Second)
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient whose every request is bounded by
// timeout. A zero timeout leaves requests unbounded except by their context.
//
// Each call returns an independent client with its own connection pool.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{Client: resty.New().SetTimeout(timeout)}
}

// NewHTTPClientFrom wraps an existing *http.Client, e.g. one returned by
// oauth2.NewClient, so that its transport (and any credentials it injects)
// is preserved.
func NewHTTPClientFrom(hc *http.Client) *HTTPClient {
	return &HTTPClient{Client: resty.NewWithClient(hc)}
}
