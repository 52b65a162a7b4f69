// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session runs chat turns against an inference backend.
//
// An Engine owns the transcript and the active model. Each SubmitTurn
// appends the user's message, replays a snapshot of the transcript to the
// backend, and folds the reply (one complete text or a sequence of streamed
// fragments) into exactly one assistant message through an Accumulator.
// If the backend fails or the turn is cancelled, no assistant message is
// recorded and the user's message stays in the transcript as-is.
//
// # Key Types
//
//   - Inference: what the engine needs from a model server
//   - Accumulator: streams fragments to a display sink and builds the reply
//   - Engine: the per-session turn state machine
//   - TurnError: typed failure (EmptyInput, TransportFailure, Cancelled)
//   - OllamaInference: Inference backed by the Ollama HTTP API
//
// # Usage
//
//	engine := session.NewEngine(session.NewOllamaInference(client, ""), session.Options{
//	    Model:  "gemma3:4b",
//	    Stream: true,
//	    Sink:   os.Stdout,
//	    Logger: logger,
//	})
//	res, err := engine.SubmitTurn(ctx, "Why is the sky blue?")
//
// An Engine is not safe for concurrent use; one turn completes before the
// next starts.
package session
