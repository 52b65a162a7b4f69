// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// STATE
// =============================================================================

// State is the engine's position in the turn cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

// =============================================================================
// ENGINE
// =============================================================================

// Options configures an Engine.
type Options struct {
	// Model is the initial model identifier.
	Model string

	// Stream selects fragment streaming over whole replies.
	Stream bool

	// Sink receives streamed fragments as they arrive. Nil discards them.
	Sink io.Writer

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Result describes a committed turn.
type Result struct {
	// Content is the assistant message that was recorded.
	Content string

	// Streamed is true when Content was already written to the sink.
	Streamed bool

	Fragments int
	Usage     *Usage
	Duration  time.Duration
}

// Stats counts turns over the life of the engine.
type Stats struct {
	Committed int
	Failed    int
	Cancelled int
}

// Engine runs chat turns and owns the transcript and active model.
type Engine struct {
	inference  Inference
	transcript *model.Transcript
	modelID    string
	stream     bool
	sink       io.Writer
	logger     *zap.Logger

	id      string
	started time.Time
	state   State
	stats   Stats
}

// NewEngine creates an engine with an empty transcript.
func NewEngine(inference Inference, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()

	return &Engine{
		inference:  inference,
		transcript: model.NewTranscript(),
		modelID:    opts.Model,
		stream:     opts.Stream,
		sink:       opts.Sink,
		logger:     logger.With(zap.String("session_id", id)),
		id:         id,
		started:    time.Now(),
	}
}

// SubmitTurn sends text as the next user message and records the reply.
//
// Blank text is rejected with ErrEmptyInput before anything changes. On
// success the transcript grows by two messages. On failure it grows by one:
// the user message stays and the returned *TurnError says why no reply
// was recorded.
func (e *Engine) SubmitTurn(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyInput
	}

	if err := e.transcript.Append(model.NewUserMessage(text)); err != nil {
		return Result{}, fmt.Errorf("append user message: %w", err)
	}
	e.state = StateAwaitingResponse
	defer func() { e.state = StateIdle }()

	snapshot := e.transcript.Snapshot()
	log := e.logger.With(
		zap.String("model", e.modelID),
		zap.Int("transcript_len", len(snapshot)),
		zap.Bool("stream", e.stream),
	)
	log.Debug("turn started")

	start := time.Now()
	result := Result{Streamed: e.stream}
	acc := NewAccumulator(e.sink)

	var reply model.Message
	var err error
	if e.stream {
		reply, err = acc.Collect(func(fn FragmentFunc) error {
			return e.inference.Stream(ctx, e.modelID, snapshot, func(f Fragment) error {
				if f.Usage != nil {
					usage := *f.Usage
					result.Usage = &usage
				}
				if f.Text != "" {
					result.Fragments++
				}
				return fn(f)
			})
		})
	} else {
		var whole model.Message
		whole, err = e.inference.Complete(ctx, e.modelID, snapshot)
		if err == nil {
			reply = acc.Complete(whole.Content)
		}
	}
	result.Duration = time.Since(start)

	if err != nil {
		turnErr := classify(ctx, err)
		if turnErr.Kind == KindCancelled {
			e.stats.Cancelled++
		} else {
			e.stats.Failed++
		}
		log.Warn("turn failed",
			zap.String("kind", turnErr.Kind.String()),
			zap.Int("fragments", result.Fragments),
			zap.Duration("duration", result.Duration),
			zap.Error(err),
		)
		return Result{Duration: result.Duration}, turnErr
	}

	if err := e.transcript.Append(reply); err != nil {
		return Result{}, fmt.Errorf("append assistant message: %w", err)
	}
	e.stats.Committed++
	result.Content = reply.Content

	log.Info("turn committed",
		zap.Int("fragments", result.Fragments),
		zap.Int("reply_len", len(reply.Content)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// SwitchModel makes name the active model and clears the transcript,
// even when name is already active.
func (e *Engine) SwitchModel(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyModel
	}

	previous := e.modelID
	e.modelID = name
	e.transcript.Clear()

	e.logger.Info("model switched", zap.String("from", previous), zap.String("to", name))
	return nil
}

// Clear empties the transcript.
func (e *Engine) Clear() {
	n := e.transcript.Len()
	e.transcript.Clear()
	e.logger.Debug("transcript cleared", zap.Int("dropped", n))
}

// ListModels asks the backend for its models. The transcript is untouched.
func (e *Engine) ListModels(ctx context.Context) ([]ModelSummary, error) {
	models, err := e.inference.ListModels(ctx)
	if err != nil {
		e.logger.Warn("list models failed", zap.Error(err))
		return nil, fmt.Errorf("list models: %w", err)
	}
	return models, nil
}

// ModelAvailable reports whether the backend has name installed. Backends
// that cannot tell report true.
func (e *Engine) ModelAvailable(ctx context.Context, name string) (bool, error) {
	checker, ok := e.inference.(ModelChecker)
	if !ok {
		return true, nil
	}
	return checker.HasModel(ctx, name)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Model returns the active model identifier.
func (e *Engine) Model() string { return e.modelID }

// Transcript returns a copy of the conversation so far.
func (e *Engine) Transcript() []model.Message { return e.transcript.Snapshot() }

// Len returns the number of messages in the transcript.
func (e *Engine) Len() int { return e.transcript.Len() }

// EstimateTokens returns a rough token count of the transcript.
func (e *Engine) EstimateTokens() int { return e.transcript.EstimateTokens() }

// State returns where the engine is in the turn cycle.
func (e *Engine) State() State { return e.state }

// ID returns the session identifier used in logs.
func (e *Engine) ID() string { return e.id }

// StartedAt returns when the engine was created.
func (e *Engine) StartedAt() time.Time { return e.started }

// Stats returns turn counters.
func (e *Engine) Stats() Stats { return e.stats }

// Streaming reports whether replies are streamed.
func (e *Engine) Streaming() bool { return e.stream }

// SetStreaming switches between streamed and whole replies.
func (e *Engine) SetStreaming(on bool) { e.stream = on }
