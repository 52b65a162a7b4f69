// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"

	"github.com/jeranaias/rigchat/internal/ollama"
)

// ErrorKind classifies why a turn produced no reply.
type ErrorKind int

const (
	KindEmptyInput ErrorKind = iota + 1
	KindTransport
	KindCancelled
)

// String returns the kind name used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty_input"
	case KindTransport:
		return "transport_failure"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// TurnError is returned by Engine.SubmitTurn when no assistant message was
// recorded.
type TurnError struct {
	Kind ErrorKind
	Err  error
}

func (e *TurnError) Error() string {
	switch e.Kind {
	case KindEmptyInput:
		return "empty input"
	case KindCancelled:
		return "response cancelled"
	}
	if e.Err == nil {
		return "inference failed"
	}
	return "inference failed: " + e.Err.Error()
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// Is matches a TurnError of the same kind, so the package sentinels work
// with errors.Is.
func (e *TurnError) Is(target error) bool {
	t, ok := target.(*TurnError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrEmptyInput = &TurnError{Kind: KindEmptyInput}
	ErrTransport  = &TurnError{Kind: KindTransport}
	ErrCancelled  = &TurnError{Kind: KindCancelled}
)

// ErrEmptyModel is returned when switching to a blank model name.
var ErrEmptyModel = errors.New("model name must not be empty")

// classify wraps a backend error in a TurnError.
func classify(ctx context.Context, err error) *TurnError {
	if ollama.IsCanceled(err) || errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return &TurnError{Kind: KindCancelled, Err: err}
	}
	return &TurnError{Kind: KindTransport, Err: err}
}

// IsCancelled reports whether err is a cancelled turn.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsTransport reports whether err is a failed inference call.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
