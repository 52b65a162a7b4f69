// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Purple - assistant label, banners
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - prompt, user label, headings
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - success, command names
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// TEXT COLORS
// =============================================================================

var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// TEXT STYLES
// =============================================================================

var (
	Title = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	Banner = lipgloss.NewStyle().Foreground(Purple).Bold(true)

	Prompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	UserLabel = lipgloss.NewStyle().Foreground(Cyan)

	AssistantLabel = lipgloss.NewStyle().Foreground(Purple).Bold(true)

	Command = lipgloss.NewStyle().Foreground(Emerald)

	Info = lipgloss.NewStyle().Foreground(TextSecondary)

	// Dim is used for stats lines and hints.
	Dim = lipgloss.NewStyle().Foreground(TextMuted)

	Value = lipgloss.NewStyle().Foreground(TextPrimary)
)

// RoleStyle returns the label style for a chat role name.
func RoleStyle(role string) lipgloss.Style {
	switch role {
	case "user":
		return UserLabel
	case "assistant":
		return AssistantLabel
	default:
		return lipgloss.NewStyle().Foreground(Amber)
	}
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds the ASCII markers printed in front of status lines.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

var (
	SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
	ErrorHighContrast   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	WarningHighContrast = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	InfoHighContrast    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
)

// RenderSuccess renders message with the success marker.
func RenderSuccess(message string) string {
	return renderStatus(SuccessHighContrast, StatusIndicators.Success, message)
}

// RenderError renders message with the error marker.
func RenderError(message string) string {
	return renderStatus(ErrorHighContrast, StatusIndicators.Error, message)
}

// RenderWarning renders message with the warning marker.
func RenderWarning(message string) string {
	return renderStatus(WarningHighContrast, StatusIndicators.Warning, message)
}

// RenderInfo renders message with the info marker.
func RenderInfo(message string) string {
	return renderStatus(InfoHighContrast, StatusIndicators.Info, message)
}

func renderStatus(color lipgloss.AdaptiveColor, marker, message string) string {
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(marker) + " " + message
}

// RenderSeparator renders a horizontal rule of the given width.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 30
	}
	return Dim.Render(strings.Repeat("─", width))
}

// RenderHeading renders a title with a rule underneath.
func RenderHeading(title string) string {
	return Title.Render(title) + "\n" + RenderSeparator(lipgloss.Width(title))
}
