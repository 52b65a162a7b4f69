// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completer handles tab completion for commands and their arguments.
// Complete returns whole candidate lines, the shape the line editor expects.
type Completer struct {
	registry *Registry

	// ModelsFn returns installed model names for ArgTypeModel arguments.
	ModelsFn func() []string
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns the lines input can be completed to, best match first.
func (c *Completer) Complete(input string) []string {
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	parts := splitCommandLine(input)
	trailingSpace := strings.HasSuffix(input, " ")

	// Still typing the command name.
	if len(parts) == 1 && !trailingSpace {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(strings.ToLower(parts[0]))
	if cmd == nil {
		return nil
	}

	argIndex := len(parts) - 2
	partial := ""
	if trailingSpace {
		argIndex++
	} else {
		partial = parts[len(parts)-1]
	}
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	prefix := strings.Join(parts[:argIndex+1], " ") + " "
	values := c.argValues(cmd.Args[argIndex])

	var lines []string
	for _, v := range completeFromList(values, partial) {
		lines = append(lines, prefix+v)
	}
	return lines
}

func (c *Completer) completeCommands(partial string) []string {
	var names []string
	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		names = append(names, cmd.Name)
	}
	return completeFromList(names, partial)
}

func (c *Completer) argValues(arg ArgDef) []string {
	switch arg.Type {
	case ArgTypeModel:
		if c.ModelsFn != nil {
			return c.ModelsFn()
		}
		return nil
	case ArgTypeEnum:
		return arg.Values
	default:
		return nil
	}
}

// =============================================================================
// RANKING
// =============================================================================

type completion struct {
	value string
	score int
}

func completeFromList(values []string, partial string) []string {
	var matches []completion
	lower := strings.ToLower(partial)
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), lower) {
			matches = append(matches, completion{value: v, score: calculateScore(v, lower)})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].value < matches[j].value
	})

	var out []string
	for _, m := range matches {
		out = append(out, m.value)
	}
	return out
}

// calculateScore ranks a prefix match; exact and shorter matches rank higher.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)

	score := 100
	if value == partial {
		return score + 100
	}
	if strings.HasPrefix(value, partial) {
		score += 50
		score += 20 - len(value)
	}
	score -= len(value) / 2

	return score
}
