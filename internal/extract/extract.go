// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract asks a model for output shaped by a JSON schema.
//
// Enforcing the schema is the server's job: the schema is forwarded with the
// request and the raw reply text comes back unchanged. Parsing it into a Go
// value is a separate, explicit step (see ParseCountry).
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/session"
)

// =============================================================================
// EXTRACTOR
// =============================================================================

// Request is one structured extraction.
type Request struct {
	Model  string
	Query  string
	Schema json.RawMessage

	// Stream echoes the raw JSON to Sink as it is generated.
	Stream bool
	Sink   io.Writer
}

// Extractor runs schema-constrained single-turn requests.
type Extractor struct {
	inference session.StructuredInference
	logger    *zap.Logger
}

// New creates an Extractor. A nil logger discards logs.
func New(inference session.StructuredInference, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{inference: inference, logger: logger}
}

// Run sends req.Query with req.Schema and returns the raw reply text.
func (x *Extractor) Run(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return "", session.ErrEmptyInput
	}
	msgs := []model.Message{model.NewUserMessage(req.Query)}
	start := time.Now()

	var raw string
	var err error
	if req.Stream {
		var msg model.Message
		msg, err = session.NewAccumulator(req.Sink).Collect(func(fn session.FragmentFunc) error {
			return x.inference.StreamStructured(ctx, req.Model, msgs, req.Schema, fn)
		})
		raw = msg.Content
	} else {
		raw, err = x.inference.CompleteStructured(ctx, req.Model, msgs, req.Schema)
	}

	if err != nil {
		x.logger.Warn("structured request failed", zap.String("model", req.Model), zap.Error(err))
		return "", fmt.Errorf("structured request: %w", err)
	}
	x.logger.Info("structured request done",
		zap.String("model", req.Model),
		zap.Int("reply_len", len(raw)),
		zap.Duration("duration", time.Since(start)),
	)
	return raw, nil
}

// LoadSchema reads a JSON schema file. The schema must be a JSON object;
// it is otherwise passed through untouched.
func LoadSchema(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, fmt.Errorf("schema %s is not valid JSON", path)
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("schema %s must be a JSON object", path)
	}
	return json.RawMessage(data), nil
}

// PrettyJSON indents raw JSON for display, returning it unchanged when it
// does not parse.
func PrettyJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}
