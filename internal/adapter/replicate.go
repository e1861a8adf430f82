// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/utils"
)

const generationProviderName = "replicate"

// maxImageBytes caps a single downloaded image.
const maxImageBytes = 32 << 20

// Terminal prediction statuses reported by the Replicate API. Anything else
// ("starting", "processing") is still running.
const (
	predictionSucceeded = "succeeded"
	predictionFailed    = "failed"
	predictionCanceled  = "canceled"
)

type predictionInput struct {
	Prompt string `json:"prompt"`
}

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

// prediction is the subset of a Replicate prediction object the server reads.
// Output is a list of URLs for most image models and a single URL for some.
type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (p *prediction) terminal() bool {
	switch p.Status {
	case predictionSucceeded, predictionFailed, predictionCanceled:
		return true
	}
	return false
}

// firstOutput returns the first output URL, or "" when there is none.
func (p *prediction) firstOutput() string {
	var list []string
	if err := json.Unmarshal(p.Output, &list); err == nil {
		for _, u := range list {
			if u != "" {
				return u
			}
		}
		return ""
	}

	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil {
		return single
	}

	return ""
}

// replicateGenerator is the Replicate implementation of [ImageGenerator].
//
// A prediction is created with "Prefer: wait", which holds the request open
// until the model finishes or the provider's wait window ends. Unfinished
// predictions are then polled every pollInterval. The whole call, download
// excluded, is bounded by timeout.
type replicateGenerator struct {
	client       *utils.HTTPClient
	apiToken     string
	model        string
	pollInterval time.Duration
	timeout      time.Duration
	maxImage     int64
	logger       *logger.Logger
}

// NewReplicateGenerator constructs an [ImageGenerator] for the Replicate API.
func NewReplicateGenerator(cfg config.Generation, log *logger.Logger) ImageGenerator {
	client := utils.NewHTTPClient(cfg.Timeout)
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))

	return &replicateGenerator{
		client:       client,
		apiToken:     cfg.APIToken,
		model:        cfg.Model,
		pollInterval: cfg.PollInterval,
		timeout:      cfg.Timeout,
		maxImage:     maxImageBytes,
		logger:       log,
	}
}

func (g *replicateGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiToken == "" {
		return "", ErrGenerationMisconfigured
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	log := logger.FromContext(ctx)

	pred, err := g.createPrediction(ctx, prompt)
	if err != nil {
		return "", err
	}
	log.Debug().Str("prediction_id", pred.ID).Str("status", pred.Status).Msg("prediction created")

	for !pred.terminal() {
		if pred.URLs.Get == "" {
			return "", &ProviderError{Provider: generationProviderName, Message: "prediction has no status URL"}
		}

		if err = sleepContext(ctx, g.pollInterval); err != nil {
			return "", &ProviderError{Provider: generationProviderName, Message: "timed out waiting for prediction", Err: err}
		}

		if pred, err = g.getPrediction(ctx, pred.URLs.Get); err != nil {
			return "", err
		}
	}

	switch pred.Status {
	case predictionFailed, predictionCanceled:
		log.Warn().Str("prediction_id", pred.ID).Str("status", pred.Status).Msg("prediction did not succeed")
		return "", &ProviderError{Provider: generationProviderName, Message: predictionErrorMessage(pred)}
	}

	output := pred.firstOutput()
	if output == "" {
		return "", &ProviderError{Provider: generationProviderName, Err: ErrNoImageGenerated}
	}

	return output, nil
}

// Download fetches url and reads at most maxImage bytes of it.
func (g *replicateGenerator) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*replicateGenerator.Download").Msg("error downloading image")
		return nil, &ProviderError{Provider: generationProviderName, Message: "failed to download image", Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return nil, &ProviderError{
			Provider:   generationProviderName,
			StatusCode: resp.StatusCode(),
			Message:    "failed to download image",
		}
	}

	data, err := io.ReadAll(io.LimitReader(body, g.maxImage+1))
	if err != nil {
		return nil, &ProviderError{Provider: generationProviderName, Message: "failed to read image", Err: err}
	}
	if int64(len(data)) > g.maxImage {
		return nil, &ProviderError{Provider: generationProviderName, Err: ErrImageTooLarge}
	}

	return data, nil
}

func (g *replicateGenerator) createPrediction(ctx context.Context, prompt string) (*prediction, error) {
	var pred prediction
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.apiToken).
		SetHeader("Prefer", "wait").
		SetBody(predictionRequest{Input: predictionInput{Prompt: prompt}}).
		SetResult(&pred).
		Post("/v1/models/" + g.model + "/predictions")
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*replicateGenerator.createPrediction").Msg("prediction request failed")
		return nil, &ProviderError{Provider: generationProviderName, Message: "prediction request failed", Err: err}
	}
	if err = mapHTTPError(generationProviderName, resp); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*replicateGenerator.createPrediction").Msg("prediction rejected")
		return nil, err
	}

	return &pred, nil
}

func (g *replicateGenerator) getPrediction(ctx context.Context, url string) (*prediction, error) {
	var pred prediction
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.apiToken).
		SetResult(&pred).
		Get(url)
	if err != nil {
		return nil, &ProviderError{Provider: generationProviderName, Message: "prediction status request failed", Err: err}
	}
	if err = mapHTTPError(generationProviderName, resp); err != nil {
		return nil, err
	}

	return &pred, nil
}

func predictionErrorMessage(p *prediction) string {
	switch e := p.Error.(type) {
	case string:
		if e != "" {
			return "prediction " + p.Status + ": " + e
		}
	case nil:
	default:
		if b, err := json.Marshal(e); err == nil {
			return "prediction " + p.Status + ": " + string(b)
		}
	}
	return "prediction " + p.Status
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

