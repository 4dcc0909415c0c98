// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package encoder turns book summaries into embedding vectors.
//
// Two providers are available:
//
//   - openai: any OpenAI-compatible /embeddings endpoint
//   - onnx: a local sentence-transformer run through hugot (build tag ORT)
//
// New wraps the selected provider in a circuit breaker so a failing model
// server degrades recommendations to genre-only scoring instead of stalling
// every request.
package encoder
