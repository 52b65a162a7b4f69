// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// It covers the endpoints a chat client needs: the root health check,
// /api/tags, /api/show and /api/chat, both streaming (NDJSON) and
// non-streaming, with optional schema-constrained output via Format.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - ChatRequest / ChatResponse: /api/chat payloads
//   - StreamReader: line-by-line parser for streaming responses
//   - ClientError: typed error with ErrorType for transport classification
//
// # Usage
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: url})
//	err := client.ChatStream(ctx, &ollama.ChatRequest{
//	    Model:    "gemma3:4b",
//	    Messages: []ollama.Message{ollama.NewUserMessage("Hello")},
//	}, func(chunk ollama.StreamChunk) error {
//	    fmt.Print(chunk.Content)
//	    return nil
//	})
//
// A stream is only successful when the server sent its final chunk; an early
// EOF is reported as ErrStreamIncomplete so callers never mistake a cut-off
// answer for a complete one.
package ollama
