// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the rigchat packages.
//
// String helpers are display-width aware (via go-runewidth) so previews of
// transcript messages line up in a terminal regardless of script.
// AtomicWriteFile is used when writing the config file.
package util
