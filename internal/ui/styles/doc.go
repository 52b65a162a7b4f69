// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles holds the colour palette and shared text styles for rigchat.

All colors are Lip Gloss AdaptiveColor values so output stays readable on
light and dark terminals. Whether ANSI codes are emitted at all is decided
by the lipgloss color profile, which the cli package sets from TTY and
NO_COLOR detection.

# Palette (colors.go)

  - Purple: assistant label, banners
  - Cyan: prompt, user label, headings
  - Emerald: success and command names
  - Amber: warnings
  - Rose: errors
  - TextSecondary / TextMuted: labels, stats lines, hints

# Status helpers

Every status line carries an ASCII indicator so meaning survives without color:

	fmt.Fprintln(w, styles.RenderError("cannot reach Ollama"))
	// [X] cannot reach Ollama
*/
package styles
