// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot commands for rigchat.
//
// Usage:
//   rigchat ask "question"            Ask once and print the reply
//   echo "question" | rigchat ask     Read the question from stdin
//   rigchat extract                   Country extraction for "Tell me about Canada."
//   rigchat extract "Tell me about Peru" --stream
//   rigchat extract --schema person.json "Who wrote Dune?"

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/rigchat/internal/extract"
	"github.com/jeranaias/rigchat/internal/session"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// defaultExtractQuery is used when extract gets no arguments.
const defaultExtractQuery = "Tell me about Canada."

// maxStdinQuestion caps how much piped input ask reads.
const maxStdinQuestion = 1 << 20

// errNoQuestion is returned when ask has nothing to send.
var errNoQuestion = errors.New("no question given; pass it as arguments or pipe it on stdin")

// =============================================================================
// ASK COMMAND
// =============================================================================

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the reply",
		Long: `Ask a single question against a fresh conversation and print the reply.

The question is taken from the arguments, or read from stdin when none are
given. Replies stream unless --no-stream is set.`,
		RunE: a.runAsk,
	}
}

func (a *app) runAsk(cmd *cobra.Command, args []string) error {
	question, err := questionFrom(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	b := a.newBackend(a.cfg)
	defer b.Close()

	out := cmd.OutOrStdout()
	engine := session.NewEngine(b, session.Options{
		Model:  a.cfg.Ollama.Model,
		Stream: a.cfg.Chat.Stream,
		Sink:   out,
		Logger: a.logger,
	})

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	res, err := engine.SubmitTurn(ctx, question)
	if engine.Streaming() {
		fmt.Fprintln(out)
	}
	if err != nil {
		return err
	}
	if !res.Streamed {
		fmt.Fprintln(out, strings.TrimRight(res.Content, "\n"))
	}
	return nil
}

// questionFrom joins args, or reads in when there are none and it is not
// a terminal.
func questionFrom(args []string, in io.Reader) (string, error) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" && !isTerminalReader(in) {
		data, err := io.ReadAll(io.LimitReader(in, maxStdinQuestion))
		if err != nil {
			return "", fmt.Errorf("read question: %w", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return "", errNoQuestion
	}
	return question, nil
}

// =============================================================================
// EXTRACT COMMAND
// =============================================================================

func newExtractCmd(a *app) *cobra.Command {
	var (
		stream     bool
		schemaPath string
	)

	cmd := &cobra.Command{
		Use:   "extract [query]",
		Short: "Ask for a reply constrained to a JSON schema",
		Long: `Send a query with a JSON schema and print the structured reply.

Without --schema the built-in Country schema (name, capital, languages) is
used and the reply is parsed and summarized. With --schema the raw JSON is
printed as-is. The default query is "` + defaultExtractQuery + `"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args, stream, schemaPath)
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "print the JSON as it is generated")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON schema file to use instead of the Country schema")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, args []string, stream bool, schemaPath string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		query = defaultExtractQuery
	}

	schema := extract.CountrySchema
	if schemaPath != "" {
		loaded, err := extract.LoadSchema(schemaPath)
		if err != nil {
			return err
		}
		schema = loaded
	}

	b := a.newBackend(a.cfg)
	defer b.Close()

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()
	raw, err := extract.New(b, a.logger).Run(ctx, extract.Request{
		Model:  a.cfg.Ollama.Model,
		Query:  query,
		Schema: schema,
		Stream: stream,
		Sink:   out,
	})
	if stream {
		fmt.Fprintln(out)
	}
	if err != nil {
		return err
	}
	if !stream {
		fmt.Fprintln(out, extract.PrettyJSON(raw))
	}

	if schemaPath != "" {
		return nil
	}
	country, err := extract.ParseCountry(raw)
	if err != nil {
		a.logger.Warn("extraction reply did not parse", zap.Error(err))
		return err
	}
	fmt.Fprintln(out, styles.RenderSuccess(country.String()))
	return nil
}
