// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"

	"github.com/jeranaias/rigchat/internal/extract"
	"github.com/jeranaias/rigchat/internal/ollama"
)

// StartupError is a failure before the chat loop starts. It carries the
// commands that would fix it.
type StartupError struct {
	Problem string
	Err     error
	Hints   []string
}

func (e *StartupError) Error() string {
	if e.Err == nil {
		return e.Problem
	}
	return e.Problem + ": " + e.Err.Error()
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// hintsFor returns follow-up suggestions for err.
func hintsFor(err error) []string {
	var startup *StartupError
	if errors.As(err, &startup) {
		return startup.Hints
	}

	var parse *extract.ParseError
	switch {
	case ollama.IsNotRunning(err):
		return []string{"Is Ollama running? Start it with: ollama serve"}
	case ollama.IsModelNotFound(err):
		return []string{"Install the model with: ollama pull <model>, or pick another with /model"}
	case ollama.IsTimeout(err):
		return []string{"The server took too long; raise ollama.timeout_secs or try a smaller model"}
	case errors.As(err, &parse):
		return []string{"The reply was not valid for the schema. Raw reply: " + parse.Raw}
	}
	return nil
}
