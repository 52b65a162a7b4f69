// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.ModelsFn = func() []string {
		return []string{"llama3.2:latest", "gemma3:4b", "gemma3:12b"}
	}

	tests := []struct {
		input string
		want  []string
	}{
		{"/mo", []string{"/model", "/models"}},
		{"/model", []string{"/model", "/models"}},
		{"/cl", []string{"/clear"}},
		{"/model ", []string{"/model gemma3:4b", "/model gemma3:12b", "/model llama3.2:latest"}},
		{"/model gem", []string{"/model gemma3:4b", "/model gemma3:12b"}},
		{"/m ll", []string{"/m llama3.2:latest"}},
		{"/model gemma3:4b ", nil},
		{"/clear ", nil},
		{"/nope ", nil},
		{"hello", nil},
	}

	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, c.Complete(tc.input)); diff != "" {
			t.Errorf("Complete(%q) (-want +got):\n%s", tc.input, diff)
		}
	}
}

func TestCompleter_NoModelSource(t *testing.T) {
	c := NewCompleter(NewRegistry())
	if got := c.Complete("/model "); got != nil {
		t.Errorf("Complete without ModelsFn = %v, want nil", got)
	}
}

func TestCalculateScore(t *testing.T) {
	if calculateScore("/model", "/model") <= calculateScore("/models", "/model") {
		t.Error("exact match should outrank a longer prefix match")
	}
	if calculateScore("/clear", "/c") <= calculateScore("/history", "/") {
		t.Error("shorter match should outrank a longer one")
	}
}
