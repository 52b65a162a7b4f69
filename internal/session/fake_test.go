// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jeranaias/rigchat/internal/model"
)

var errConnReset = errors.New("connection reset by peer")

// scriptedInference replays canned fragments and records every call.
type scriptedInference struct {
	fragments []string
	usage     *Usage

	// failAfter >= 0 makes Stream fail once that many fragments were sent.
	failAfter int
	failErr   error

	completeErr error
	models      []ModelSummary
	listErr     error
	installed   map[string]bool

	// during runs inside each inference call, before any fragment.
	during func()

	calls     int
	lastModel string
	seen      [][]model.Message
	schema    json.RawMessage
}

func newScripted(fragments ...string) *scriptedInference {
	return &scriptedInference{fragments: fragments, failAfter: -1}
}

func (s *scriptedInference) failingAfter(n int, err error) *scriptedInference {
	s.failAfter = n
	s.failErr = err
	return s
}

func (s *scriptedInference) record(modelID string, msgs []model.Message) {
	s.calls++
	s.lastModel = modelID
	s.seen = append(s.seen, msgs)
	if s.during != nil {
		s.during()
	}
}

func (s *scriptedInference) Complete(_ context.Context, modelID string, msgs []model.Message) (model.Message, error) {
	s.record(modelID, msgs)
	if s.completeErr != nil {
		return model.Message{}, s.completeErr
	}
	text := ""
	for _, f := range s.fragments {
		text += f
	}
	return model.NewAssistantMessage(text), nil
}

func (s *scriptedInference) Stream(ctx context.Context, modelID string, msgs []model.Message, fn FragmentFunc) error {
	s.record(modelID, msgs)
	for i, text := range s.fragments {
		if s.failAfter >= 0 && i == s.failAfter {
			return s.failErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(Fragment{Text: text}); err != nil {
			return err
		}
	}
	if s.failAfter >= 0 && s.failAfter >= len(s.fragments) {
		return s.failErr
	}
	return fn(Fragment{Done: true, Usage: s.usage})
}

func (s *scriptedInference) CompleteStructured(ctx context.Context, modelID string, msgs []model.Message, schema json.RawMessage) (string, error) {
	s.schema = schema
	m, err := s.Complete(ctx, modelID, msgs)
	return m.Content, err
}

func (s *scriptedInference) StreamStructured(ctx context.Context, modelID string, msgs []model.Message, schema json.RawMessage, fn FragmentFunc) error {
	s.schema = schema
	return s.Stream(ctx, modelID, msgs, fn)
}

func (s *scriptedInference) ListModels(context.Context) ([]ModelSummary, error) {
	return s.models, s.listErr
}

func (s *scriptedInference) HasModel(_ context.Context, name string) (bool, error) {
	return s.installed[name], nil
}
