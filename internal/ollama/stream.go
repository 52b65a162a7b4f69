// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrStreamIncomplete is returned when the connection closes before the
// server sent its final ("done") chunk.
var ErrStreamIncomplete = &ClientError{Type: ErrTypeConnection, Message: "stream ended before completion"}

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader parses Ollama's newline-delimited JSON stream.
type StreamReader struct {
	reader *bufio.Reader
	model  string
	chunks int
	done   bool
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: bufio.NewReader(r)}
}

// Next returns the next chunk of the stream.
// It returns io.EOF once the final chunk has been delivered, and
// ErrStreamIncomplete if the input ends before that.
func (s *StreamReader) Next() (*StreamChunk, error) {
	if s.done {
		return nil, io.EOF
	}

	for {
		line, err := s.reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			chunk, perr := s.parse(trimmed)
			if perr != nil {
				return nil, perr
			}
			return chunk, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrStreamIncomplete
			}
			return nil, &ClientError{Type: ErrTypeConnection, Message: "stream interrupted", Cause: err}
		}
	}
}

// Process reads the stream and calls the callback for each chunk.
// Blocks until the final chunk, a read failure, a callback error, or the
// context is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		if err := ctx.Err(); err != nil {
			return contextError(ctx, err)
		}

		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctxErr := contextError(ctx, err); ctxErr != nil {
				return ctxErr
			}
			return err
		}

		if err := callback(*chunk); err != nil {
			return err
		}
		if chunk.Done {
			return nil
		}
	}
}

// parse decodes one line. A line that is not valid JSON or an
// {"error": ...} line aborts the stream.
func (s *StreamReader) parse(line []byte) (*StreamChunk, error) {
	var response ChatResponse
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("malformed stream line after %d chunks", s.chunks),
			Cause:   err,
		}
	}
	if response.Error != "" {
		return nil, &ClientError{Type: ErrTypeServer, Message: response.Error}
	}

	if response.Model != "" {
		s.model = response.Model
	}
	s.chunks++

	chunk := &StreamChunk{
		Content: response.Message.Content,
		Model:   s.model,
		Done:    response.Done,
	}

	if response.Done {
		s.done = true
		chunk.DoneReason = response.DoneReason
		chunk.TotalDuration = time.Duration(response.TotalDuration)
		chunk.LoadDuration = time.Duration(response.LoadDuration)
		chunk.PromptEvalDuration = time.Duration(response.PromptEvalDuration)
		chunk.EvalDuration = time.Duration(response.EvalDuration)
		chunk.PromptTokens = response.PromptEvalCount
		chunk.CompletionTokens = response.EvalCount
	}

	return chunk, nil
}

// Model returns the model name reported by the stream.
func (s *StreamReader) Model() string {
	return s.model
}
