// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/rigchat/internal/commands"
	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/logging"
	"github.com/jeranaias/rigchat/internal/ollama"
	"github.com/jeranaias/rigchat/internal/session"
)

// Version information (set from main at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// skipSetup marks commands that run without config or logger.
const skipSetup = "rigchat/skip-setup"

// checkTimeout bounds the startup health check on top of the dial timeout.
const checkTimeout = 5 * time.Second

// =============================================================================
// APPLICATION STATE
// =============================================================================

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath   string
	model        string
	url          string
	systemPrompt string
	logFile      string
	noStream     bool
	verbose      bool
}

// app carries what PersistentPreRunE builds for the subcommands.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	logger *zap.Logger

	// newBackend creates the inference client; replaced in tests.
	newBackend func(cfg *config.Config) backend
}

// backend is what the commands need from the model server.
type backend interface {
	session.StructuredInference
	session.ModelChecker
	CheckRunning(ctx context.Context) error
	Close()
}

// ollamaBackend pairs the wire client with its inference adapter.
type ollamaBackend struct {
	*session.OllamaInference
	client *ollama.Client
}

func (b *ollamaBackend) CheckRunning(ctx context.Context) error { return b.client.CheckRunning(ctx) }
func (b *ollamaBackend) Close()                                { b.client.Close() }

func newOllamaBackend(cfg *config.Config) backend {
	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:        cfg.Ollama.URL,
		Timeout:        cfg.Timeout(),
		ConnectTimeout: cfg.ConnectTimeout(),
	})
	return &ollamaBackend{
		OllamaInference: session.NewOllamaInference(client, cfg.Chat.SystemPrompt).
			WithOptions(modelOptions(cfg.Ollama.Options)),
		client: client,
	}
}

// modelOptions converts [ollama.options] to request options; nil when
// nothing is set.
func modelOptions(o config.ModelOptions) *ollama.Options {
	if o.IsZero() {
		return nil
	}
	return &ollama.Options{
		Temperature: o.Temperature,
		TopP:        o.TopP,
		NumCtx:      o.NumCtx,
		Seed:        o.Seed,
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the rigchat command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{logger: zap.NewNop(), newBackend: newOllamaBackend})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "rigchat",
		Short: "Chat with local models served by Ollama",
		Long: `rigchat is a terminal chat client for a local Ollama server.

Run without arguments to start an interactive chat. Replies stream as they
are generated; slash commands (/help, /model, /models, /clear, /quit) control
the session.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
		RunE: a.runChat,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.rigchat/config.toml)")
	pf.StringVarP(&a.flags.model, "model", "m", "", "model to use (overrides config)")
	pf.StringVar(&a.flags.url, "url", "", "Ollama server URL (overrides config)")
	pf.StringVar(&a.flags.systemPrompt, "system", "", "system prompt sent with every request")
	pf.StringVar(&a.flags.logFile, "log-file", "", `log file ("-" for stderr)`)
	pf.BoolVar(&a.flags.noStream, "no-stream", false, "wait for whole replies instead of streaming")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newChatCmd(a),
		newAskCmd(a),
		newExtractCmd(a),
		newModelsCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		printError(root.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if _, skip := cmd.Annotations[skipSetup]; skip {
		return nil
	}

	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: a.flags.verbose,
		Path:    cfg.LogPath(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("config loaded",
		zap.String("command", cmd.Name()),
		zap.String("url", cfg.Ollama.URL),
		zap.String("model", cfg.Ollama.Model),
		zap.Bool("stream", cfg.Chat.Stream),
	)
	return nil
}

// applyFlags layers explicitly set flags over cfg.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Ollama.Model = strings.TrimSpace(a.flags.model)
	}
	if flags.Changed("url") {
		cfg.Ollama.URL = strings.TrimRight(strings.TrimSpace(a.flags.url), "/")
	}
	if flags.Changed("system") {
		cfg.Chat.SystemPrompt = a.flags.systemPrompt
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.flags.logFile
	}
	if flags.Changed("no-stream") {
		cfg.Chat.Stream = !a.flags.noStream
	}
}

// =============================================================================
// STARTUP CHECK
// =============================================================================

// checkServer checks that the server answers and has the configured model. It
// returns the installed model names.
func (a *app) checkServer(ctx context.Context, b backend) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ConnectTimeout()+checkTimeout)
	defer cancel()

	url := a.cfg.Ollama.URL
	if err := b.CheckRunning(ctx); err != nil {
		a.logger.Error("startup check failed", zap.String("url", url), zap.Error(err))
		return nil, &StartupError{
			Problem: "cannot reach Ollama at " + url,
			Err:     err,
			Hints: []string{
				"Start the server with: ollama serve",
				"Or point rigchat elsewhere with --url or RIGCHAT_OLLAMA_URL",
			},
		}
	}

	models, err := b.ListModels(ctx)
	if err != nil {
		return nil, &StartupError{Problem: "cannot list models", Err: err}
	}

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}

	want := a.cfg.Ollama.Model
	if !hasModel(names, want) {
		a.logger.Error("model not installed", zap.String("model", want), zap.Int("installed", len(names)))
		hints := []string{"Install it with: ollama pull " + want}
		if len(names) > 0 {
			hints = append(hints, "Or use an installed model: --model "+names[0])
		}
		return names, &StartupError{Problem: fmt.Sprintf("model %q is not installed", want), Hints: hints}
	}

	a.logger.Info("startup check passed", zap.String("url", url), zap.Int("installed", len(names)))
	return names, nil
}

// hasModel matches name against installed models; a bare name matches its
// ":latest" tag.
func hasModel(installed []string, name string) bool {
	for _, m := range installed {
		if m == name || m == name+":latest" {
			return true
		}
	}
	return false
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session (default)",
		Long: `Start an interactive chat session.

Examples:
  rigchat chat                      Chat with the configured model
  rigchat chat --model llama3.2     Use a specific model
  rigchat chat --no-stream          Render whole replies as markdown`,
		Args: cobra.NoArgs,
		RunE: a.runChat,
	}
}

func (a *app) runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q; try: rigchat ask %q", args[0], strings.Join(args, " "))
	}

	ctx := cmd.Context()
	b := a.newBackend(a.cfg)
	defer b.Close()

	installed, err := a.checkServer(ctx, b)
	if err != nil {
		return err
	}

	in, out, errOut := cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()
	engine := session.NewEngine(b, session.Options{
		Model:  a.cfg.Ollama.Model,
		Stream: a.cfg.Chat.Stream,
		Sink:   out,
		Logger: a.logger,
	})

	interactive := isTerminalReader(in) && isTerminalWriter(out)
	loop := newChatLoop(engine, nil, out, errOut, a.logger)

	var reader LineReader
	if interactive {
		completer := newModelCompleter(loop.registry, installed)
		reader = newEditorReader(a.cfg.HistoryPath(), completer, a.logger)
	} else {
		reader = newPlainReader(in, nil)
	}
	defer reader.Close()
	loop.reader = reader

	if a.cfg.Chat.Markdown && isTerminalWriter(out) && ColorsEnabled() {
		loop.markdown = newMarkdownRenderer(GetTerminalWidth())
	}

	a.logger.Info("chat started",
		zap.String("session_id", engine.ID()),
		zap.String("model", engine.Model()),
		zap.Bool("interactive", interactive),
		zap.String("version", Version),
	)
	if interactive {
		printWelcome(out, engine.Model(), a.cfg.Ollama.URL, len(installed))
	}
	return loop.Run(ctx)
}

// newModelCompleter completes slash commands, offering installed models
// for /model.
func newModelCompleter(registry *commands.Registry, installed []string) func(string) []string {
	c := commands.NewCompleter(registry)
	c.ModelsFn = func() []string { return installed }
	return c.Complete
}
