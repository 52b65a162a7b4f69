// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/rigchat/internal/util"
)

// LineReader supplies REPL input one line at a time. ReadLine returns
// io.EOF when input ends and ErrInterrupted when the user aborts at the
// prompt; both end the session cleanly.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// ErrInterrupted is returned by ReadLine on Ctrl+C at the prompt.
var ErrInterrupted = errors.New("interrupted")

// =============================================================================
// LINE EDITOR
// =============================================================================

// editorReader is the interactive reader: arrow-key history, tab completion
// and a history file that survives restarts.
type editorReader struct {
	line        *liner.State
	historyFile string
	logger      *zap.Logger
}

// newEditorReader starts the line editor. historyFile may be empty to
// keep history in memory only.
func newEditorReader(historyFile string, complete func(string) []string, logger *zap.Logger) *editorReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	if complete != nil {
		line.SetCompleter(complete)
	}

	r := &editorReader{line: line, historyFile: historyFile, logger: logger}
	r.loadHistory()
	return r
}

func (r *editorReader) loadHistory() {
	if r.historyFile == "" {
		return
	}
	f, err := os.Open(r.historyFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("cannot open history file", zap.String("path", r.historyFile), zap.Error(err))
		}
		return
	}
	defer f.Close()
	if _, err := r.line.ReadHistory(f); err != nil {
		r.logger.Warn("cannot read history file", zap.String("path", r.historyFile), zap.Error(err))
	}
}

// ReadLine prompts for one line. The prompt is passed to the editor
// unstyled; it measures the prompt width byte by byte.
func (r *editorReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrInterrupted
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (r *editorReader) Close() error {
	if r.historyFile != "" {
		var buf bytes.Buffer
		if _, err := r.line.WriteHistory(&buf); err == nil {
			if err := util.AtomicWriteFile(r.historyFile, buf.Bytes(), 0600, 0700); err != nil {
				r.logger.Warn("cannot save history", zap.String("path", r.historyFile), zap.Error(err))
			}
		}
	}
	return r.line.Close()
}

// =============================================================================
// PLAIN READER
// =============================================================================

// plainReader reads lines from a non-terminal input such as a pipe. Lines
// are scanned on a background goroutine so that Ctrl+C during a blocked
// read ends the prompt with ErrInterrupted.
type plainReader struct {
	scanner *bufio.Scanner

	// promptOut receives the prompt; nil prints none.
	promptOut io.Writer

	// notify subscribes c to interrupts for one read and returns the
	// unsubscribe func.
	notify func(c chan<- os.Signal) func()

	requests chan struct{}
	results  chan scanResult
	done     chan struct{}
	pending  bool

	startOnce sync.Once
	closeOnce sync.Once
}

type scanResult struct {
	line string
	err  error
}

func newPlainReader(in io.Reader, promptOut io.Writer) *plainReader {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &plainReader{
		scanner:   scanner,
		promptOut: promptOut,
		notify:    notifyInterrupt,
		requests:  make(chan struct{}),
		results:   make(chan scanResult, 1),
		done:      make(chan struct{}),
	}
}

func notifyInterrupt(c chan<- os.Signal) func() {
	signal.Notify(c, os.Interrupt)
	return func() { signal.Stop(c) }
}

// scanLoop reads one line per request until the reader is closed.
func (r *plainReader) scanLoop() {
	for {
		select {
		case <-r.done:
			return
		case <-r.requests:
		}

		var res scanResult
		switch {
		case r.scanner.Scan():
			res.line = r.scanner.Text()
		case r.scanner.Err() != nil:
			res.err = fmt.Errorf("read input: %w", r.scanner.Err())
		default:
			res.err = io.EOF
		}
		r.results <- res
	}
}

// ReadLine returns the next line, io.EOF at end of input, or
// ErrInterrupted on Ctrl+C. A line still being read when the interrupt
// arrives is returned by the next call.
func (r *plainReader) ReadLine(prompt string) (string, error) {
	select {
	case <-r.done:
		return "", io.EOF
	default:
	}
	r.startOnce.Do(func() { go r.scanLoop() })

	if r.promptOut != nil {
		fmt.Fprint(r.promptOut, prompt)
	}

	sig := make(chan os.Signal, 1)
	stop := r.notify(sig)
	defer stop()

	if !r.pending {
		select {
		case r.requests <- struct{}{}:
			r.pending = true
		case <-r.done:
			return "", io.EOF
		}
	}

	select {
	case res := <-r.results:
		r.pending = false
		return res.line, res.err
	case <-sig:
		return "", ErrInterrupted
	}
}

// Close stops the scanning goroutine once its current read returns.
func (r *plainReader) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}
