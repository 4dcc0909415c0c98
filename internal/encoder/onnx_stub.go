// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build !ORT

package encoder

import (
	"context"
	"errors"
)

// errNoORT is returned when the binary was built without ONNX Runtime.
var errNoORT = errors.New("onnx encoder requires building with -tags ORT")

// ONNXEncoder is unavailable in builds without the ORT tag.
type ONNXEncoder struct{}

// NewONNXEncoder always fails in builds without the ORT tag.
func NewONNXEncoder(_ ONNXConfig, _ int) (*ONNXEncoder, error) {
	return nil, errNoORT
}

// Name returns the provider name.
func (e *ONNXEncoder) Name() string { return ProviderONNX }

// Dimension returns 0.
func (e *ONNXEncoder) Dimension() int { return 0 }

// Encode always fails.
func (e *ONNXEncoder) Encode(_ context.Context, _ []string) ([][]float64, error) {
	return nil, errNoORT
}

// Close is a no-op.
func (e *ONNXEncoder) Close() error { return nil }
