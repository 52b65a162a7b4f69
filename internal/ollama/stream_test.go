// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestStreamReader_Next(t *testing.T) {
	input := strings.Join([]string{
		`{"model":"gemma3:4b","message":{"content":"Hi"},"done":false}`,
		``,
		`{"model":"gemma3:4b","message":{"content":" there"},"done":false}`,
		`{"model":"gemma3:4b","message":{"content":""},"done":true,"eval_count":2}`,
	}, "\n")

	r := NewStreamReader(strings.NewReader(input))

	var text strings.Builder
	for {
		chunk, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		text.WriteString(chunk.Content)
		if chunk.Done && chunk.CompletionTokens != 2 {
			t.Errorf("final chunk tokens = %d, want 2", chunk.CompletionTokens)
		}
	}

	if text.String() != "Hi there" {
		t.Errorf("text = %q, want %q", text.String(), "Hi there")
	}
	if r.Model() != "gemma3:4b" {
		t.Errorf("Model() = %q", r.Model())
	}
}

func TestStreamReader_MalformedLine(t *testing.T) {
	input := strings.Join([]string{
		`{"message":{"content":"Par"},"done":false}`,
		`{"message":{"content":"ti`,
		`{"message":{"content":"al"},"done":true}`,
	}, "\n")
	r := NewStreamReader(strings.NewReader(input))

	if _, err := r.Next(); err != nil {
		t.Fatalf("first Next() error: %v", err)
	}

	_, err := r.Next()
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("Next() error = %v, want *ClientError", err)
	}
	if clientErr.Type != ErrTypeInvalidResponse {
		t.Errorf("error type = %v, want %v", clientErr.Type, ErrTypeInvalidResponse)
	}
	if !strings.Contains(clientErr.Error(), "after 1 chunks") {
		t.Errorf("error = %q, want the chunk count", clientErr.Error())
	}
}

func TestStreamReader_Incomplete(t *testing.T) {
	r := NewStreamReader(strings.NewReader(`{"message":{"content":"Par"},"done":false}`))

	chunk, err := r.Next()
	if err != nil || chunk.Content != "Par" {
		t.Fatalf("first Next() = %+v, %v", chunk, err)
	}

	_, err = r.Next()
	if !errors.Is(err, ErrStreamIncomplete) {
		t.Fatalf("second Next() error = %v, want ErrStreamIncomplete", err)
	}
}

func TestStreamReader_ReadError(t *testing.T) {
	boom := errors.New("connection reset by peer")
	src := io.MultiReader(
		strings.NewReader(`{"message":{"content":"Par"},"done":false}`+"\n"),
		iotest.ErrReader(boom),
	)
	r := NewStreamReader(src)

	if _, err := r.Next(); err != nil {
		t.Fatalf("first Next() error: %v", err)
	}

	_, err := r.Next()
	if !errors.Is(err, boom) {
		t.Fatalf("Next() error = %v, want wrapped read error", err)
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Type != ErrTypeConnection {
		t.Errorf("error = %#v, want connection ClientError", err)
	}
}

func TestStreamReader_EOFAfterDone(t *testing.T) {
	r := NewStreamReader(strings.NewReader(`{"done":true}` + "\n" + `{"message":{"content":"ignored"}}` + "\n"))

	chunk, err := r.Next()
	if err != nil || !chunk.Done {
		t.Fatalf("Next() = %+v, %v; want done chunk", chunk, err)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after done = %v, want io.EOF", err)
	}
}
