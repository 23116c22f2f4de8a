// Package shell implements an interactive command shell: a lexer honouring
// quote and escape rules, a pipeline parser that extracts per-stage argument
// vectors and redirections, a fixed builtin registry, and an executor that
// wires OS pipes between stages and waits for completion.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LineSource supplies one line of input at a time, printing prompt first.
// The interactive implementation (backed by a line-editing library) and the
// plain stream implementation both live outside this package; the REPL
// Controller only depends on this interface.
type LineSource interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// HistoryAppender lets an interactive line editor's own recall buffer stay
// in sync with lines the history builtin loads from a file via "history -r".
// It is a separate, narrower interface than LineSource so that a plain,
// non-interactive line source (which has no recall buffer of its own) never
// needs to implement it.
type HistoryAppender interface {
	AppendHistory(line string) error
}

// Shell holds the state shared across one REPL session: the registered
// builtins, the captured PATH, and the in-memory history list.
//
// Shell is not safe for concurrent use.
type Shell struct {
	Builtins Registry
	History  *History

	// LineEditor, if set, receives every line "history -r" loads from a
	// file, so an interactive line editor's own up/down-arrow recall stays
	// in sync with the history builtin's list. Nil when the active
	// LineSource has no recall buffer of its own (e.g. PlainLineSource).
	LineEditor HistoryAppender

	pathDirs []string
	lexer    Lexer
	parser   PipelineParser
	executor Executor

	Stdout io.Writer
	Stderr io.Writer
}

// Option configures a Shell at construction time.
type Option func(*Shell)

// WithHistory overrides the default unbounded History.
func WithHistory(h *History) Option {
	return func(s *Shell) { s.History = h }
}

// WithLineEditor sets the HistoryAppender that "history -r" keeps in sync.
func WithLineEditor(a HistoryAppender) Option {
	return func(s *Shell) { s.LineEditor = a }
}

// New builds a Shell wired with the default lexer, pipeline parser,
// executor, and builtin registry. PATH is captured once, at construction.
func New(stdout, stderr io.Writer, opts ...Option) *Shell {
	var dirs []string
	if path := os.Getenv("PATH"); path != "" {
		for _, dir := range strings.Split(path, string(os.PathListSeparator)) {
			if dir != "" {
				dirs = append(dirs, dir)
			}
		}
	}

	s := &Shell{
		Builtins: NewRegistry(),
		History:  NewHistory(0),
		pathDirs: dirs,
		lexer:    NewDefaultLexer(),
		parser:   NewDefaultPipelineParser(),
		executor: NewDefaultExecutor(),
		Stdout:   stdout,
		Stderr:   stderr,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Lookup searches the shell's captured PATH directories for a regular,
// executable file named name, returning the first match in PATH order.
func (s *Shell) Lookup(name string) (string, bool) {
	for _, dir := range s.pathDirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil {
			if info.Mode().IsRegular() && info.Mode()&0111 != 0 {
				return candidate, true
			}
		}
	}
	return "", false
}

// RunOne lexes, parses, and executes a single input line against stdin,
// returning the pipeline's last stage's exit code and, if exit was
// requested, the corresponding *ExitRequest. A lex or parse error is
// reported to Stderr and treated as exit code 2, matching shell convention
// for syntax errors.
func (s *Shell) RunOne(ctx context.Context, line string, stdin io.Reader) (int, *ExitRequest) {
	tokens, err := s.lexer.Tokenize(line)
	if err != nil {
		fmt.Fprintf(s.Stderr, "shell: %v\n", err)
		return 2, nil
	}

	if len(tokens) == 0 {
		return 0, nil
	}

	pipeline, err := s.parser.Parse(tokens)
	if err != nil {
		fmt.Fprintf(s.Stderr, "shell: %v\n", err)
		return 2, nil
	}

	return s.executor.Execute(ctx, pipeline, stdin, s.Stdout, s.Stderr, s)
}

// Run owns the REPL Controller: print the prompt, read one line, record it
// in history, feed it through RunOne, and repeat until end-of-input or
// exit. It returns nil on a clean termination (end-of-input or exit).
func (s *Shell) Run(ctx context.Context, ls LineSource, stdin io.Reader) error {
	for {
		line, err := ls.ReadLine("$ ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		s.History.Add(trimmed)

		_, exitReq := s.RunOne(ctx, trimmed, stdin)
		if exitReq != nil {
			return nil
		}
	}
}
