// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{Role("tool"), "tool"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("%q.DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessages(t *testing.T) {
	u := NewUserMessage("hello")
	if !u.IsUser() || u.IsAssistant() || u.Content != "hello" {
		t.Errorf("NewUserMessage = %+v", u)
	}

	a := NewAssistantMessage("hi")
	if !a.IsAssistant() || a.IsUser() || a.Content != "hi" {
		t.Errorf("NewAssistantMessage = %+v", a)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("line one\nline   two")

	if got := msg.Preview(80); got != "line one line two" {
		t.Errorf("Preview(80) = %q", got)
	}
	if got := msg.Preview(8); got != "line ..." {
		t.Errorf("Preview(8) = %q, want %q", got, "line ...")
	}
}

func TestMessage_EstimateTokens(t *testing.T) {
	if got := NewUserMessage("").EstimateTokens(); got != 0 {
		t.Errorf("empty message tokens = %d, want 0", got)
	}
	if got := NewUserMessage("12345678").EstimateTokens(); got != 3 {
		t.Errorf("8-char message tokens = %d, want 3", got)
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendKeepsOrder(t *testing.T) {
	tr := NewTranscript()
	want := []Message{
		NewUserMessage("hello"),
		NewAssistantMessage("Hi there"),
		NewUserMessage("how are you?"),
	}
	for _, m := range want {
		if err := tr.Append(m); err != nil {
			t.Fatalf("Append(%+v) error: %v", m, err)
		}
	}

	if diff := cmp.Diff(want, tr.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
}

func TestTranscript_AppendRejectsEmptyRole(t *testing.T) {
	tr := NewTranscript()

	err := tr.Append(Message{Content: "orphan"})
	if !errors.Is(err, ErrEmptyRole) {
		t.Fatalf("Append without role error = %v, want ErrEmptyRole", err)
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d after rejected append, want 0", tr.Len())
	}
}

func TestTranscript_AppendAcceptsEmptyContent(t *testing.T) {
	tr := NewTranscript()
	if err := tr.Append(NewAssistantMessage("")); err != nil {
		t.Fatalf("Append with empty content error: %v", err)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
}

func TestTranscript_SnapshotDoesNotAlias(t *testing.T) {
	tr := NewTranscript()
	_ = tr.Append(NewUserMessage("original"))

	snap := tr.Snapshot()
	snap[0] = NewUserMessage("mutated")
	snap = append(snap, NewAssistantMessage("extra"))

	got := tr.Snapshot()
	if len(got) != 1 || got[0].Content != "original" {
		t.Errorf("transcript changed through snapshot: %+v", got)
	}
	_ = snap
}

func TestTranscript_ClearIsIdempotent(t *testing.T) {
	tr := NewTranscript()
	_ = tr.Append(NewUserMessage("a"))
	_ = tr.Append(NewAssistantMessage("b"))

	for i := 0; i < 3; i++ {
		tr.Clear()
		if tr.Len() != 0 {
			t.Fatalf("after Clear #%d Len() = %d", i+1, tr.Len())
		}
	}
}

func TestTranscript_EstimateTokens(t *testing.T) {
	tr := NewTranscript()
	_ = tr.Append(NewUserMessage("12345678"))
	_ = tr.Append(NewAssistantMessage("1234"))

	if got := tr.EstimateTokens(); got != 5 {
		t.Errorf("EstimateTokens() = %d, want 5", got)
	}
}

// =============================================================================
// WIRE CONVERSION TESTS
// =============================================================================

func TestToOllamaMessages(t *testing.T) {
	msgs := []Message{NewUserMessage("hello"), NewAssistantMessage("Hi")}

	t.Run("without system prompt", func(t *testing.T) {
		got := ToOllamaMessages("", msgs)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].Role != "user" || got[1].Role != "assistant" {
			t.Errorf("roles = %q, %q", got[0].Role, got[1].Role)
		}
	})

	t.Run("with system prompt", func(t *testing.T) {
		got := ToOllamaMessages("be brief", msgs)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[0].Role != "system" || got[0].Content != "be brief" {
			t.Errorf("first message = %+v, want system prompt", got[0])
		}
		if got[2].Content != "Hi" {
			t.Errorf("last message = %+v", got[2])
		}
	})
}
