// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// maxErrorBody caps how much of an upstream error body ends up in messages.
const maxErrorBody = 256

// mapHTTPError returns nil for 2xx responses and a [ProviderError] carrying
// the status code and a short upstream message otherwise.
func mapHTTPError(provider string, resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	return &ProviderError{
		Provider:   provider,
		StatusCode: resp.StatusCode(),
		Message:    upstreamMessage(resp),
	}
}

// upstreamMessage extracts "detail", "error_description" or "error" from a
// JSON body, falling back to the trimmed raw body or the status text.
func upstreamMessage(resp *resty.Response) string {
	body := strings.TrimSpace(string(resp.Body()))

	var payload map[string]any
	if json.Unmarshal([]byte(body), &payload) == nil {
		for _, key := range []string{"detail", "error_description", "error"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}

	if body == "" {
		return http.StatusText(resp.StatusCode())
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return body
}
