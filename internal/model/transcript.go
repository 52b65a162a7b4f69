// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"slices"

	"github.com/jeranaias/rigchat/internal/ollama"
)

// ErrEmptyRole is returned when appending a message without a role.
var ErrEmptyRole = errors.New("message role must not be empty")

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered list of messages exchanged in a session.
//
// Messages are only ever added at the end. The whole transcript is replayed
// to the inference server on every turn, so callers hand out copies via
// Snapshot and never the backing slice.
//
// A Transcript is not safe for concurrent use.
type Transcript struct {
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg Message) error {
	if msg.Role == "" {
		return ErrEmptyRole
	}
	t.messages = append(t.messages, msg)
	return nil
}

// Snapshot returns a copy of the messages in order.
// Changes to the returned slice do not affect the transcript.
func (t *Transcript) Snapshot() []Message {
	return slices.Clone(t.messages)
}

// Clear removes every message. Clearing an empty transcript is a no-op.
func (t *Transcript) Clear() {
	t.messages = nil
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// EstimateTokens sums the rough token estimate of every message.
func (t *Transcript) EstimateTokens() int {
	total := 0
	for _, m := range t.messages {
		total += m.EstimateTokens()
	}
	return total
}

// =============================================================================
// WIRE CONVERSION
// =============================================================================

// ToOllamaMessages converts messages to the Ollama wire format.
// A non-empty systemPrompt is sent first as a system message; it is never
// part of the transcript itself.
func ToOllamaMessages(systemPrompt string, msgs []Message) []ollama.Message {
	out := make([]ollama.Message, 0, len(msgs)+1)
	if systemPrompt != "" {
		out = append(out, ollama.NewSystemMessage(systemPrompt))
	}
	for _, m := range msgs {
		out = append(out, ollama.Message{Role: m.Role.String(), Content: m.Content})
	}
	return out
}
