// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Role: message author (user, assistant, system)
//   - Message: immutable role/content value
//   - Transcript: append-only list of messages owned by a chat session
//
// # Usage
//
//	t := model.NewTranscript()
//	_ = t.Append(model.NewUserMessage("Why is the sky blue?"))
//	msgs := t.Snapshot() // safe to hand to another component
//	wire := model.ToOllamaMessages("", msgs)
package model
