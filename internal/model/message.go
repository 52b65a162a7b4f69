// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import "github.com/jeranaias/rigchat/internal/util"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single role-tagged entry in a transcript.
// Messages are values; nothing in the package mutates one after creation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a message authored by the user.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a message authored by the model.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// IsUser reports whether the message came from the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant reports whether the message came from the model.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// Preview returns the content collapsed to one line and truncated to
// maxWidth terminal columns.
func (m Message) Preview(maxWidth int) string {
	return util.TruncateWidth(util.SingleLine(m.Content), maxWidth)
}

// EstimateTokens gives a rough token count (about four characters per token).
func (m Message) EstimateTokens() int {
	if m.Content == "" {
		return 0
	}
	return len(m.Content)/4 + 1
}
