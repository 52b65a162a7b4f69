// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat loop for rigchat.
//
// Interactive Commands (during chat):
//   /help, /h, /?       Show available commands
//   /clear, /c          Clear conversation history
//   /models             List installed models
//   /model <name>, /m   Switch model (clears the conversation)
//   /history            Show conversation history
//   /status             Show session status
//   /quit, /q, /exit    Exit chat
//   Ctrl+C              Cancel current generation (exit at the prompt)
//   Ctrl+D              Exit chat

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/rigchat/internal/commands"
	"github.com/jeranaias/rigchat/internal/session"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// =============================================================================
// CHAT LOOP
// =============================================================================

// chatLoop reads lines, runs slash commands and submits everything else as
// a chat turn. One turn finishes before the next line is read.
type chatLoop struct {
	engine   *session.Engine
	registry *commands.Registry
	reader   LineReader
	out      io.Writer
	errOut   io.Writer
	logger   *zap.Logger

	// markdown renders whole (non-streamed) replies; nil prints them raw.
	markdown *markdownRenderer

	// turnContext derives the context for one turn. The default cancels it
	// on Ctrl+C.
	turnContext func(context.Context) (context.Context, context.CancelFunc)
}

func newChatLoop(engine *session.Engine, reader LineReader, out, errOut io.Writer, logger *zap.Logger) *chatLoop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &chatLoop{
		engine:      engine,
		registry:    commands.NewRegistry(),
		reader:      reader,
		out:         out,
		errOut:      errOut,
		logger:      logger,
		turnContext: interruptContext,
	}
}

// interruptContext cancels the returned context on SIGINT.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}

// Run drives the loop until /quit, end of input or Ctrl+C at the prompt.
// Errors from individual turns and commands are printed, never returned.
func (l *chatLoop) Run(ctx context.Context) error {
	cmdCtx := &commands.Context{Session: l.engine, Out: l.out, Registry: l.registry}

	for {
		line, err := l.reader.ReadLine(promptText)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
				fmt.Fprintln(l.out)
				l.printExitSummary()
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if commands.IsCommand(line) {
			action, err := l.registry.Execute(ctx, cmdCtx, line)
			if err != nil {
				printError(l.errOut, err)
			}
			if action == commands.ActionQuit {
				l.printExitSummary()
				return nil
			}
			continue
		}

		l.turn(ctx, line)
	}
}

// turn submits one chat message and prints the reply or the failure.
func (l *chatLoop) turn(ctx context.Context, text string) {
	turnCtx, stop := l.turnContext(ctx)
	defer stop()

	streaming := l.engine.Streaming()
	if streaming {
		fmt.Fprint(l.out, styles.AssistantLabel.Render(assistantText))
	}

	res, err := l.engine.SubmitTurn(turnCtx, text)
	if streaming {
		fmt.Fprintln(l.out)
	}

	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyInput):
		case session.IsCancelled(err):
			printWarning(l.errOut, "Cancelled; the reply was discarded")
		default:
			printError(l.errOut, err)
		}
		return
	}

	if !res.Streamed {
		fmt.Fprintln(l.out, styles.AssistantLabel.Render(assistantText))
		fmt.Fprint(l.out, l.markdown.Render(res.Content))
	}
	if res.Usage != nil {
		fmt.Fprintln(l.out, formatStats(res))
	}
	fmt.Fprintln(l.out)
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printWelcome prints the welcome banner.
func printWelcome(w io.Writer, model, serverURL string, installed int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Banner.Render("rigchat"))
	fmt.Fprintln(w, styles.RenderSeparator(30))
	fmt.Fprintf(w, "%s %s\n", renderLabel("Model:", 10), styles.Command.Render(model))
	fmt.Fprintf(w, "%s %s\n", renderLabel("Server:", 10), serverURL)
	if installed >= 0 {
		fmt.Fprintf(w, "%s %d installed\n", renderLabel("Models:", 10), installed)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Info.Render("Type a message and press Enter. /help for commands, /quit to exit."))
	fmt.Fprintln(w)
}

// printExitSummary prints the session summary on exit.
func (l *chatLoop) printExitSummary() {
	stats := l.engine.Stats()
	turns := stats.Committed + stats.Failed + stats.Cancelled
	if turns > 0 {
		elapsed := time.Since(l.engine.StartedAt()).Round(time.Second)
		fmt.Fprintln(l.out, styles.Dim.Render(fmt.Sprintf("%d turns (%d failed), %d messages, %s",
			turns, stats.Failed+stats.Cancelled, l.engine.Len(), elapsed)))
	}
	fmt.Fprintln(l.out, styles.Info.Render("Goodbye!"))

	l.logger.Info("chat ended",
		zap.String("session_id", l.engine.ID()),
		zap.Int("committed", stats.Committed),
		zap.Int("failed", stats.Failed),
		zap.Int("cancelled", stats.Cancelled),
	)
}
