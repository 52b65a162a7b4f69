// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/extract"
	"github.com/jeranaias/rigchat/internal/ollama"
	"github.com/jeranaias/rigchat/internal/session"
)

func TestStartupError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &StartupError{Problem: "cannot reach Ollama", Err: cause}

	if got := err.Error(); got != "cannot reach Ollama: dial tcp: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	require.ErrorIs(t, err, cause)

	bare := &StartupError{Problem: "model \"x\" is not installed"}
	if got := bare.Error(); got != `model "x" is not installed` {
		t.Errorf("Error() = %q", got)
	}
}

func TestHintsFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"startup", &StartupError{Problem: "x", Hints: []string{"do this"}}, "do this"},
		{"not running", fmt.Errorf("turn: %w", ollama.ErrNotRunning), "ollama serve"},
		{"model missing", ollama.ErrModelNotFound, "ollama pull"},
		{"timeout", ollama.ErrTimeout, "timeout_secs"},
		{"parse", &extract.ParseError{Raw: "{oops", Err: errors.New("bad")}, "Raw reply: {oops"},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(hintsFor(tt.err), "\n")
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintsFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintsFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestPrintError_IncludesHints(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &StartupError{Problem: "cannot reach Ollama", Hints: []string{"Start the server with: ollama serve"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	if !strings.Contains(lines[0], "cannot reach Ollama") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "    ") || !strings.Contains(lines[1], "ollama serve") {
		t.Errorf("hint line = %q", lines[1])
	}
}

func TestFormatStats(t *testing.T) {
	tests := []struct {
		name string
		res  session.Result
		want string
	}{
		{
			name: "with usage",
			res: session.Result{
				Usage:    &session.Usage{CompletionTokens: 10, EvalDuration: 4 * time.Second},
				Duration: 1500 * time.Millisecond,
			},
			want: "[10 tokens | 2.5 tok/s | 1.5s]",
		},
		{
			name: "no eval duration",
			res: session.Result{
				Usage:    &session.Usage{CompletionTokens: 3},
				Duration: 250 * time.Millisecond,
			},
			want: "[3 tokens | 250ms]",
		},
		{
			name: "no usage",
			res:  session.Result{Duration: 2 * time.Second},
			want: "[2s]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStats(tt.res); got != tt.want {
				t.Errorf("formatStats() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorsWanted(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		tty  bool
		want bool
	}{
		{"tty", nil, true, true},
		{"pipe", nil, false, false},
		{"no color on tty", map[string]string{"NO_COLOR": "1"}, true, false},
		{"force color on pipe", map[string]string{"FORCE_COLOR": "1"}, false, true},
		{"no color beats force", map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string { return tt.env[key] }
			if got := colorsWanted(getenv, tt.tty); got != tt.want {
				t.Errorf("colorsWanted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarkdownRenderer_NilPassesThrough(t *testing.T) {
	var r *markdownRenderer
	if got := r.Render("**bold**\n\n"); got != "**bold**\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestModelOptions(t *testing.T) {
	if got := modelOptions(config.ModelOptions{}); got != nil {
		t.Errorf("modelOptions(zero) = %+v, want nil", got)
	}

	temp := 0.3
	got := modelOptions(config.ModelOptions{Temperature: &temp, TopP: 0.9, NumCtx: 2048, Seed: 7})
	want := &ollama.Options{Temperature: &temp, TopP: 0.9, NumCtx: 2048, Seed: 7}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("modelOptions() (-want +got):\n%s", diff)
	}
}
