// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/session"
)

// fakeBackend replays scripted fragments. failAfter >= 0 makes Stream fail
// after that many fragments.
type fakeBackend struct {
	fragments []string
	usage     *session.Usage
	failAfter int
	failErr   error

	running error
	models    []session.ModelSummary

	structured string
	schemas    []json.RawMessage
	seen       [][]model.Message
	closed     bool
}

func newFakeBackend(fragments ...string) *fakeBackend {
	return &fakeBackend{
		fragments: fragments,
		failAfter: -1,
		models:    []session.ModelSummary{{Name: "llama3.2:latest", Size: "2.0 GB", ParameterSize: "3.2B"}},
	}
}

func (f *fakeBackend) Complete(ctx context.Context, _ string, msgs []model.Message) (model.Message, error) {
	f.seen = append(f.seen, msgs)
	if err := ctx.Err(); err != nil {
		return model.Message{}, err
	}
	if f.failErr != nil {
		return model.Message{}, f.failErr
	}
	return model.NewAssistantMessage(strings.Join(f.fragments, "")), nil
}

func (f *fakeBackend) Stream(ctx context.Context, _ string, msgs []model.Message, fn session.FragmentFunc) error {
	f.seen = append(f.seen, msgs)
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, text := range f.fragments {
		if i == f.failAfter {
			return f.failErr
		}
		if err := fn(session.Fragment{Text: text}); err != nil {
			return err
		}
	}
	if f.failAfter >= len(f.fragments) {
		return f.failErr
	}
	return fn(session.Fragment{Done: true, Usage: f.usage})
}

func (f *fakeBackend) ListModels(context.Context) ([]session.ModelSummary, error) {
	return f.models, nil
}

func (f *fakeBackend) CompleteStructured(ctx context.Context, _ string, msgs []model.Message, schema json.RawMessage) (string, error) {
	f.seen = append(f.seen, msgs)
	f.schemas = append(f.schemas, schema)
	return f.structured, ctx.Err()
}

func (f *fakeBackend) StreamStructured(ctx context.Context, _ string, msgs []model.Message, schema json.RawMessage, fn session.FragmentFunc) error {
	f.seen = append(f.seen, msgs)
	f.schemas = append(f.schemas, schema)
	if err := fn(session.Fragment{Text: f.structured}); err != nil {
		return err
	}
	return fn(session.Fragment{Done: true})
}

func (f *fakeBackend) HasModel(_ context.Context, name string) (bool, error) {
	for _, m := range f.models {
		if m.Name == name || m.Name == name+":latest" {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBackend) CheckRunning(context.Context) error { return f.running }
func (f *fakeBackend) Close()                             { f.closed = true }

// testApp wires b behind an app with default config.
func testApp(b *fakeBackend) *app {
	cfg := config.Default()
	cfg.Ollama.Model = "llama3.2"
	return &app{
		cfg:        cfg,
		logger:     zap.NewNop(),
		newBackend: func(*config.Config) backend { return b },
	}
}
