// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package encoder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/tomtom215/shelfwise/internal/metrics"
)

// OpenAIEncoder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEncoder struct {
	client  openai.Client
	model   string
	dim     int
	timeout time.Duration
}

// NewOpenAIEncoder creates an encoder. An API key is required unless a
// custom BaseURL points at a self-hosted server.
func NewOpenAIEncoder(cfg OpenAIConfig, dim int, timeout time.Duration) (*OpenAIEncoder, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("openai api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIEncoder{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		dim:     dim,
		timeout: timeout,
	}, nil
}

// Name returns the provider name.
func (e *OpenAIEncoder) Name() string { return ProviderOpenAI }

// Dimension returns the configured vector length.
func (e *OpenAIEncoder) Dimension() int { return e.dim }

// Encode embeds texts in one request. Results are ordered by input.
func (e *OpenAIEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	vectors, err := e.encode(ctx, texts)
	metrics.RecordEncode(ProviderOpenAI, len(texts), time.Since(start), err)
	return vectors, err
}

func (e *OpenAIEncoder) encode(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(e.model),
		Dimensions:     openai.Int(int64(e.dim)),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	if err := checkOutput(len(texts), vectors, e.dim); err != nil {
		return nil, err
	}
	return vectors, nil
}
