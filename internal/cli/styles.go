// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Output helpers shared by the rigchat commands.

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat/internal/session"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// init configures the lipgloss color profile from terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

const (
	promptText    = "you> "
	assistantText = "Assistant: "
)

// =============================================================================
// STATUS LINES
// =============================================================================

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, styles.RenderError(err.Error()))
	for _, hint := range hintsFor(err) {
		fmt.Fprintln(w, "    "+styles.Info.Render(hint))
	}
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, styles.RenderWarning(msg))
}

// renderLabel renders a fixed-width label column.
func renderLabel(label string, width int) string {
	return styles.Info.Width(width).Render(label)
}

// formatStats renders the dim line shown after a streamed reply.
func formatStats(res session.Result) string {
	parts := make([]string, 0, 3)
	if res.Usage != nil {
		parts = append(parts, fmt.Sprintf("%d tokens", res.Usage.CompletionTokens))
		if tps := res.Usage.TokensPerSecond(); tps > 0 {
			parts = append(parts, fmt.Sprintf("%.1f tok/s", tps))
		}
	}
	parts = append(parts, res.Duration.Round(time.Millisecond).String())
	return styles.Dim.Render("[" + strings.Join(parts, " | ") + "]")
}
