// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/rigchat/internal/model"
)

// StreamFunc starts a stream and hands every fragment to fn, returning
// when the stream ends or fails.
type StreamFunc func(fn FragmentFunc) error

// =============================================================================
// ACCUMULATOR
// =============================================================================

// Accumulator turns a reply into a single assistant message.
//
// In streaming mode each fragment is written to the sink the moment it
// arrives and appended to a buffer. The buffer lives only for one Collect
// call, so an Accumulator can be reused across turns.
type Accumulator struct {
	sink io.Writer
}

// NewAccumulator creates an accumulator that echoes fragments to sink.
// A nil sink discards them.
func NewAccumulator(sink io.Writer) *Accumulator {
	if sink == nil {
		sink = io.Discard
	}
	return &Accumulator{sink: sink}
}

// Collect runs stream and returns the concatenated reply.
// If the stream fails at any point the partial text is dropped and only
// the error is returned.
func (a *Accumulator) Collect(stream StreamFunc) (model.Message, error) {
	var buf strings.Builder

	err := stream(func(f Fragment) error {
		if f.Text == "" {
			return nil
		}
		if _, err := io.WriteString(a.sink, f.Text); err != nil {
			return fmt.Errorf("write fragment: %w", err)
		}
		buf.WriteString(f.Text)
		return nil
	})
	if err != nil {
		return model.Message{}, err
	}

	return model.NewAssistantMessage(buf.String()), nil
}

// Complete wraps an already complete reply. Nothing is written to the sink;
// whole replies are rendered by the caller.
func (a *Accumulator) Complete(text string) model.Message {
	return model.NewAssistantMessage(text)
}
