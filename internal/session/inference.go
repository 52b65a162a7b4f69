// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// FRAGMENTS
// =============================================================================

// Fragment is one piece of a streamed reply.
type Fragment struct {
	Text string

	// Done marks the last fragment of a stream.
	Done bool

	// Usage is set on the last fragment when the server reports it.
	Usage *Usage
}

// FragmentFunc receives fragments in arrival order. Returning an error
// aborts the stream.
type FragmentFunc func(Fragment) error

// Usage holds the generation statistics a server reports at end of stream.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	EvalDuration     time.Duration
	TotalDuration    time.Duration
}

// TokensPerSecond reports generation speed, or 0 when unknown.
func (u Usage) TokensPerSecond() float64 {
	if u.EvalDuration <= 0 {
		return 0
	}
	return float64(u.CompletionTokens) / u.EvalDuration.Seconds()
}

// ModelSummary describes one locally available model.
type ModelSummary struct {
	Name          string
	Size          string
	ParameterSize string
	Family        string
}

// =============================================================================
// INFERENCE INTERFACES
// =============================================================================

// Inference is the model server as seen by the engine.
//
// msgs is always a snapshot; implementations may keep or modify it freely.
type Inference interface {
	// Complete returns the whole reply at once.
	Complete(ctx context.Context, modelID string, msgs []model.Message) (model.Message, error)

	// Stream delivers the reply as fragments. It may fail after some
	// fragments were already delivered.
	Stream(ctx context.Context, modelID string, msgs []model.Message, fn FragmentFunc) error

	// ListModels returns the models the server can run.
	ListModels(ctx context.Context) ([]ModelSummary, error)
}

// StructuredInference is an Inference that can constrain its output to a
// JSON schema. The schema is forwarded to the server, not checked locally,
// and the raw reply text is returned for the caller to parse.
type StructuredInference interface {
	Inference
	CompleteStructured(ctx context.Context, modelID string, msgs []model.Message, schema json.RawMessage) (string, error)
	StreamStructured(ctx context.Context, modelID string, msgs []model.Message, schema json.RawMessage, fn FragmentFunc) error
}

// ModelChecker is implemented by backends that can tell whether a model
// is installed.
type ModelChecker interface {
	HasModel(ctx context.Context, name string) (bool, error)
}
