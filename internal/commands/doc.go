// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat REPL.
//
// Lines starting with "/" are control directives; everything else is a chat
// turn and never reaches this package.
//
// # Key Types
//
//   - Registry: built-in commands and their aliases
//   - Parser: splits a line into command name and quote-aware arguments
//   - Context: what handlers act on (the chat session and an output writer)
//   - Completer: tab completion for the line editor
//
// # Built-in Commands
//
//   - /help (/h, /?): list commands
//   - /clear (/c): empty the conversation
//   - /models: list installed models
//   - /model <name> (/m): switch model, which also clears the conversation
//   - /history: numbered preview of the conversation
//   - /status: model, message count, session id, uptime
//   - /quit (/q, /exit): leave the REPL
//
// # Usage
//
//	action, err := registry.Execute(ctx, cmdCtx, "/model llama3.2")
//	if action == commands.ActionQuit {
//	    return nil
//	}
package commands
