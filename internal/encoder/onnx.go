// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build ORT

package encoder

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/tomtom215/shelfwise/internal/metrics"
)

// ONNXEncoder runs a sentence-transformer locally through ONNX Runtime.
type ONNXEncoder struct {
	mu       sync.Mutex
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	dim      int
}

// NewONNXEncoder loads the model, downloading it first when ModelPath does
// not exist.
func NewONNXEncoder(cfg ONNXConfig, dim int) (*ONNXEncoder, error) {
	modelPath := cfg.ModelPath
	if modelPath == "" || !dirExists(modelPath) {
		if cfg.HFRepo == "" {
			return nil, fmt.Errorf("model path %q not found and no repo to download from", modelPath)
		}
		cacheDir := cfg.CacheDir
		if cacheDir == "" {
			cacheDir = os.TempDir()
		}
		if err := os.MkdirAll(cacheDir, 0o750); err != nil {
			return nil, fmt.Errorf("create model cache dir: %w", err)
		}
		path, err := hugot.DownloadModel(cfg.HFRepo, cacheDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("download model %s: %w", cfg.HFRepo, err)
		}
		modelPath = path
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	sessionOpts := []options.WithOption{
		options.WithIntraOpNumThreads(threads),
	}
	if cfg.LibraryPath != "" {
		sessionOpts = append(sessionOpts, options.WithOnnxLibraryPath(cfg.LibraryPath))
	}

	session, err := hugot.NewORTSession(sessionOpts...)
	if err != nil {
		return nil, fmt.Errorf("create ORT session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "shelfwise-summaries",
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	return &ONNXEncoder{session: session, pipeline: pipeline, dim: dim}, nil
}

// Name returns the provider name.
func (e *ONNXEncoder) Name() string { return ProviderONNX }

// Dimension returns the configured vector length.
func (e *ONNXEncoder) Dimension() int { return e.dim }

// Encode runs inference on texts. The context is only checked before the
// call; inference itself is not interruptible.
func (e *ONNXEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	vectors, err := e.encode(texts)
	metrics.RecordEncode(ProviderONNX, len(texts), time.Since(start), err)
	return vectors, err
}

func (e *ONNXEncoder) encode(texts []string) ([][]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pipeline == nil {
		return nil, fmt.Errorf("encoder closed")
	}
	out, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	vectors := make([][]float64, len(out.Embeddings))
	for i, emb := range out.Embeddings {
		v := make([]float64, len(emb))
		for j, x := range emb {
			v[j] = float64(x)
		}
		vectors[i] = v
	}
	if err := checkOutput(len(texts), vectors, e.dim); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Close destroys the ONNX session.
func (e *ONNXEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pipeline = nil
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
