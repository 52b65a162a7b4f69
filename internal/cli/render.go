// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders whole replies for terminal display. A nil
// renderer passes text through unchanged.
type markdownRenderer struct {
	term *glamour.TermRenderer
}

// newMarkdownRenderer builds a renderer wrapping at width columns. On
// failure it returns nil so callers fall back to plain text.
func newMarkdownRenderer(width int) *markdownRenderer {
	if width > MaxRenderWidth {
		width = MaxRenderWidth
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return &markdownRenderer{term: term}
}

// Render returns content as styled markdown ending in exactly one newline.
func (r *markdownRenderer) Render(content string) string {
	if r == nil || r.term == nil {
		return strings.TrimRight(content, "\n") + "\n"
	}
	rendered, err := r.term.Render(content)
	if err != nil {
		return strings.TrimRight(content, "\n") + "\n"
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
