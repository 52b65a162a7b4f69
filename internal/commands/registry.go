// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"io"
	"time"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/session"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Action tells the REPL what to do after a command ran.
type Action int

const (
	// ActionContinue keeps reading input.
	ActionContinue Action = iota
	// ActionQuit ends the session loop.
	ActionQuit
)

// Handler executes a command. A returned error is printed and the loop
// continues unless the action says otherwise.
type Handler func(ctx context.Context, c *Context, args []string) (Action, error)

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/model <name>")
	Usage string

	// Args defines the accepted arguments; extra arguments are rejected
	Args []ArgDef

	Handler Handler

	// Hidden commands don't appear in help
	Hidden bool
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypeModel                 // Model name from Ollama
	ArgTypeEnum                  // One of predefined values
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry. Registering a name twice
// replaces the earlier command.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd)
	} else {
		for i, c := range r.order {
			if c.Name == cmd.Name {
				r.order[i] = cmd
			}
		}
	}
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands in registration order.
func (r *Registry) All() []*Command {
	return append([]*Command(nil), r.order...)
}

// Names returns every command name and alias.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands)+len(r.aliases))
	for _, cmd := range r.order {
		names = append(names, cmd.Name)
		names = append(names, cmd.Aliases...)
	}
	return names
}

// Execute parses input and runs the matching command.
//
// Unknown commands return *UnknownCommandError and malformed arguments
// return *ValidationError; both leave the session untouched.
func (r *Registry) Execute(ctx context.Context, c *Context, input string) (Action, error) {
	result := NewParser(r).Parse(input)
	if !result.IsCommand {
		return ActionContinue, &UnknownCommandError{Name: input}
	}

	// A bare "/" shows help.
	if result.CommandName == "/" {
		result.Command = r.Get("/help")
	}

	if result.Command == nil {
		return ActionContinue, &UnknownCommandError{
			Name:       result.CommandName,
			Suggestion: SuggestCommand(result.CommandName, r.Names()),
		}
	}

	if err := ValidateArgs(result.Command, result.Args); err != nil {
		return ActionContinue, err
	}

	if c.Registry == nil {
		c.Registry = r
	}
	return result.Command.Handler(ctx, c, result.Args)
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Usage:       "/help",
		Handler:     handleHelp,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear conversation history",
		Usage:       "/clear",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "/models",
		Description: "List installed models",
		Usage:       "/models",
		Handler:     handleModels,
	})

	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Switch model (clears the conversation)",
		Usage:       "/model <name>",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeModel, Description: "model name, e.g. llama3.2"},
		},
		Handler: handleModel,
	})

	r.Register(&Command{
		Name:        "/history",
		Description: "Show conversation history",
		Usage:       "/history",
		Handler:     handleHistory,
	})

	r.Register(&Command{
		Name:        "/status",
		Description: "Show session status",
		Usage:       "/status",
		Handler:     handleStatus,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit chat",
		Usage:       "/quit",
		Handler:     handleQuit,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Session is the chat state commands act on. *session.Engine implements it.
type Session interface {
	Model() string
	SwitchModel(name string) error
	Clear()
	Len() int
	Transcript() []model.Message
	EstimateTokens() int
	ListModels(ctx context.Context) ([]session.ModelSummary, error)
	ModelAvailable(ctx context.Context, name string) (bool, error)
	ID() string
	StartedAt() time.Time
	Stats() session.Stats
	Streaming() bool
}

// Context provides handlers with the session and where to print.
type Context struct {
	Session Session
	Out     io.Writer

	// Registry is filled in by Execute when nil; /help lists its commands.
	Registry *Registry
}

// =============================================================================
// ERRORS
// =============================================================================

// UnknownCommandError is returned for a directive no command matches.
type UnknownCommandError struct {
	Name       string
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	msg := "unknown command: " + e.Name
	if e.Suggestion != "" {
		msg += " (did you mean " + e.Suggestion + "?)"
	}
	return msg + " - type /help for commands"
}
