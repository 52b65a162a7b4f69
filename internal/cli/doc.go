// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the rigchat command line.
//
// The root command starts an interactive chat: a line editor on a
// terminal, a plain line reader otherwise. Each line is either a slash
// command handled by the commands package or a chat turn submitted to a
// session.Engine. Replies stream to stdout as they arrive; errors and
// warnings go to stderr.
//
// One-shot subcommands (ask, extract, models, config, version) share the
// configuration and logger built in the root's PersistentPreRunE.
package cli
