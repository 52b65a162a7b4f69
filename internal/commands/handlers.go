// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

const (
	// modelCheckTimeout bounds the installed-model lookup done by /model.
	modelCheckTimeout = 5 * time.Second

	// historyPreviewWidth is the display width of one /history line.
	historyPreviewWidth = 100
)

// =============================================================================
// NAVIGATION
// =============================================================================

func handleHelp(_ context.Context, c *Context, _ []string) (Action, error) {
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, styles.RenderHeading("Available Commands"))

	var cmds []*Command
	if c.Registry != nil {
		cmds = c.Registry.All()
	}

	rows := make([][2]string, 0, len(cmds))
	width := 0
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		label := cmd.Usage
		if len(cmd.Aliases) > 0 {
			label += ", " + strings.Join(cmd.Aliases, ", ")
		}
		rows = append(rows, [2]string{label, cmd.Description})
		width = max(width, util.StringWidth(label))
	}

	for _, row := range rows {
		fmt.Fprintf(c.Out, "  %s  %s\n",
			styles.Command.Render(util.PadRight(row[0], width)),
			styles.Info.Render(row[1]))
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, styles.Dim.Render("Ctrl+C cancels a reply, Ctrl+D exits"))
	return ActionContinue, nil
}

func handleQuit(context.Context, *Context, []string) (Action, error) {
	return ActionQuit, nil
}

// =============================================================================
// CONVERSATION
// =============================================================================

func handleClear(_ context.Context, c *Context, _ []string) (Action, error) {
	c.Session.Clear()
	fmt.Fprintln(c.Out, styles.RenderSuccess("Conversation cleared"))
	return ActionContinue, nil
}

func handleHistory(_ context.Context, c *Context, _ []string) (Action, error) {
	msgs := c.Session.Transcript()
	if len(msgs) == 0 {
		fmt.Fprintln(c.Out, styles.Info.Render("No messages yet"))
		return ActionContinue, nil
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, styles.RenderHeading("Conversation History"))
	for i, msg := range msgs {
		role := styles.RoleStyle(msg.Role.String()).Render(msg.Role.DisplayName())
		fmt.Fprintf(c.Out, "  %d. %s: %s\n", i+1, role, msg.Preview(historyPreviewWidth))
	}
	fmt.Fprintln(c.Out)
	return ActionContinue, nil
}

// =============================================================================
// MODELS
// =============================================================================

func handleModels(ctx context.Context, c *Context, _ []string) (Action, error) {
	models, err := c.Session.ListModels(ctx)
	if err != nil {
		return ActionContinue, err
	}

	if len(models) == 0 {
		fmt.Fprintln(c.Out, styles.RenderInfo("No models installed. Pull one with: ollama pull <model>"))
		return ActionContinue, nil
	}

	nameWidth := 0
	for _, m := range models {
		nameWidth = max(nameWidth, util.StringWidth(m.Name))
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, styles.RenderHeading("Installed Models"))
	current := c.Session.Model()
	for _, m := range models {
		marker := "  "
		name := util.PadRight(m.Name, nameWidth)
		if m.Name == current {
			marker = "* "
			name = styles.Command.Render(name)
		}
		details := m.Size
		if m.ParameterSize != "" {
			details += "  " + m.ParameterSize
		}
		fmt.Fprintf(c.Out, "%s%s  %s\n", marker, name, styles.Dim.Render(details))
	}
	fmt.Fprintln(c.Out)
	return ActionContinue, nil
}

func handleModel(ctx context.Context, c *Context, args []string) (Action, error) {
	name := strings.TrimSpace(args[0])

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	available, err := c.Session.ModelAvailable(checkCtx, name)
	cancel()
	switch {
	case err != nil:
		fmt.Fprintln(c.Out, styles.RenderWarning(fmt.Sprintf("Could not check model %q: %v", name, err)))
	case !available:
		fmt.Fprintln(c.Out, styles.RenderWarning(fmt.Sprintf("Model %q is not installed locally; pull it with: ollama pull %s", name, name)))
	}

	if err := c.Session.SwitchModel(name); err != nil {
		return ActionContinue, err
	}
	fmt.Fprintln(c.Out, styles.RenderSuccess("Switched to "+name+" (conversation cleared)"))
	return ActionContinue, nil
}

// =============================================================================
// STATUS
// =============================================================================

func handleStatus(_ context.Context, c *Context, _ []string) (Action, error) {
	s := c.Session
	stats := s.Stats()
	mode := "streaming"
	if !s.Streaming() {
		mode = "whole replies"
	}

	rows := [][2]string{
		{"Model:", s.Model()},
		{"Messages:", fmt.Sprintf("%d (~%d tokens)", s.Len(), s.EstimateTokens())},
		{"Turns:", fmt.Sprintf("%d ok, %d failed, %d cancelled", stats.Committed, stats.Failed, stats.Cancelled)},
		{"Output:", mode},
		{"Session:", s.ID()},
		{"Uptime:", time.Since(s.StartedAt()).Round(time.Second).String()},
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, styles.RenderHeading("Session Status"))
	for _, row := range rows {
		fmt.Fprintf(c.Out, "  %s %s\n", styles.Info.Render(util.PadRight(row[0], 10)), row[1])
	}
	fmt.Fprintln(c.Out)
	return ActionContinue, nil
}
