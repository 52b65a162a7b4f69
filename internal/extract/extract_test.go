// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/session"
)

// structuredStub answers structured requests with fixed fragments.
type structuredStub struct {
	fragments []string
	err       error

	gotModel  string
	gotSchema json.RawMessage
	gotMsgs   []model.Message
}

func (s *structuredStub) Complete(context.Context, string, []model.Message) (model.Message, error) {
	return model.Message{}, errors.New("not used")
}

func (s *structuredStub) Stream(context.Context, string, []model.Message, session.FragmentFunc) error {
	return errors.New("not used")
}

func (s *structuredStub) ListModels(context.Context) ([]session.ModelSummary, error) {
	return nil, nil
}

func (s *structuredStub) CompleteStructured(_ context.Context, modelID string, msgs []model.Message, schema json.RawMessage) (string, error) {
	s.gotModel, s.gotMsgs, s.gotSchema = modelID, msgs, schema
	if s.err != nil {
		return "", s.err
	}
	return strings.Join(s.fragments, ""), nil
}

func (s *structuredStub) StreamStructured(_ context.Context, modelID string, msgs []model.Message, schema json.RawMessage, fn session.FragmentFunc) error {
	s.gotModel, s.gotMsgs, s.gotSchema = modelID, msgs, schema
	for _, f := range s.fragments {
		if err := fn(session.Fragment{Text: f}); err != nil {
			return err
		}
	}
	if s.err != nil {
		return s.err
	}
	return fn(session.Fragment{Done: true})
}

const canada = `{"name":"Canada","capital":"Ottawa","languages":["English","French"]}`

// =============================================================================
// EXTRACTOR TESTS
// =============================================================================

func TestExtractor_Run(t *testing.T) {
	for _, stream := range []bool{false, true} {
		stub := &structuredStub{fragments: []string{`{"name":"Canada",`, `"capital":"Ottawa",`, `"languages":["English","French"]}`}}
		var sink bytes.Buffer

		raw, err := New(stub, nil).Run(context.Background(), Request{
			Model:  "gemma3:4b",
			Query:  "Tell me about Canada.",
			Schema: CountrySchema,
			Stream: stream,
			Sink:   &sink,
		})
		require.NoError(t, err)

		if raw != canada {
			t.Errorf("stream=%v: raw = %q", stream, raw)
		}
		if stream && sink.String() != canada {
			t.Errorf("stream=%v: sink = %q", stream, sink.String())
		}
		if !stream && sink.Len() != 0 {
			t.Errorf("stream=%v: sink = %q, want empty", stream, sink.String())
		}
		if string(stub.gotSchema) != string(CountrySchema) {
			t.Errorf("stream=%v: schema not forwarded", stream)
		}
		if diff := cmp.Diff([]model.Message{model.NewUserMessage("Tell me about Canada.")}, stub.gotMsgs); diff != "" {
			t.Errorf("stream=%v: messages (-want +got):\n%s", stream, diff)
		}
	}
}

func TestExtractor_RunFailure(t *testing.T) {
	boom := errors.New("connection refused")
	stub := &structuredStub{fragments: []string{`{"name":`}, err: boom}

	raw, err := New(stub, nil).Run(context.Background(), Request{Model: "m", Query: "Canada", Schema: CountrySchema, Stream: true})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if raw != "" {
		t.Errorf("raw = %q, want empty on failure", raw)
	}
}

func TestExtractor_RunEmptyQuery(t *testing.T) {
	stub := &structuredStub{}
	_, err := New(stub, nil).Run(context.Background(), Request{Model: "m", Query: "   "})
	if !errors.Is(err, session.ErrEmptyInput) {
		t.Fatalf("Run() error = %v, want ErrEmptyInput", err)
	}
	if stub.gotModel != "" {
		t.Error("inference called for blank query")
	}
}

// =============================================================================
// PARSING TESTS
// =============================================================================

func TestParseCountry(t *testing.T) {
	got, err := ParseCountry(canada)
	require.NoError(t, err)

	want := Country{Name: "Canada", Capital: "Ottawa", Languages: []string{"English", "French"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseCountry (-want +got):\n%s", diff)
	}
	if got.String() != "Canada (capital: Ottawa; languages: English, French)" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestParseCountry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		mention string
	}{
		{"not json", "Canada is a country", "invalid character"},
		{"missing fields", `{"name":"Canada"}`, "capital, languages"},
		{"wrong type", `{"name":"Canada","capital":"Ottawa","languages":"English"}`, "cannot unmarshal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCountry(tc.raw)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("ParseCountry() error = %v, want *ParseError", err)
			}
			if perr.Raw != tc.raw {
				t.Errorf("Raw = %q", perr.Raw)
			}
			if !strings.Contains(err.Error(), tc.mention) {
				t.Errorf("error %q should mention %q", err, tc.mention)
			}
		})
	}
}

func TestParseCountry_IgnoresExtraFields(t *testing.T) {
	_, err := ParseCountry(`{"name":"Japan","capital":"Tokyo","languages":["Japanese"],"population":125000000}`)
	require.NoError(t, err)
}

// =============================================================================
// SCHEMA FILE TESTS
// =============================================================================

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0600))
		return p
	}

	schema, err := LoadSchema(write("ok.json", "\n"+`{"type":"object"}`+"\n"))
	require.NoError(t, err)
	if string(schema) != `{"type":"object"}` {
		t.Errorf("schema = %s", schema)
	}

	if _, err := LoadSchema(write("bad.json", "{nope")); err == nil {
		t.Error("invalid JSON accepted")
	}
	if _, err := LoadSchema(write("array.json", "[]")); err == nil {
		t.Error("non-object schema accepted")
	}
	if _, err := LoadSchema(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestPrettyJSON(t *testing.T) {
	if got := PrettyJSON(`{"a":1}`); got != "{\n  \"a\": 1\n}" {
		t.Errorf("PrettyJSON = %q", got)
	}
	if got := PrettyJSON("not json"); got != "not json" {
		t.Errorf("PrettyJSON(invalid) = %q", got)
	}
}
