package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	pkgshell "github.com/Neev4n/CodeCrafters-Shell-GO/codecrafters-shell-go/pkg/shell"
)

// App wires the pkg/shell engine to a line source, configuration, and the
// internal operational logger. It is the composition root a cobra command
// constructs and runs.
type App struct {
	Config Config
	Shell  *pkgshell.Shell
	Logger *slog.Logger

	stdin          io.Reader
	stdinFD        uintptr
	stdout, stderr io.Writer
}

// NewApp loads configuration, builds the internal logger, and constructs a
// Shell bound to stdout/stderr. Stdin and its descriptor are kept so that
// RunInteractive can decide whether to use the interactive or plain line
// source.
func NewApp(stdin io.Reader, stdinFD uintptr, stdout, stderr io.Writer) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	_ = level.UnmarshalText([]byte(cfg.LogLevel))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sh := pkgshell.New(stdout, stderr, pkgshell.WithHistory(pkgshell.NewHistory(cfg.HistSize)))

	return &App{
		Config:  cfg,
		Shell:   sh,
		Logger:  logger,
		stdin:   stdin,
		stdinFD: stdinFD,
		stdout:  stdout,
		stderr:  stderr,
	}, nil
}

// loadHistory populates the shell's history from Config.HistFile, if set.
func (a *App) loadHistory() {
	if a.Config.HistFile == "" {
		return
	}
	if err := a.Shell.History.LoadFile(a.Config.HistFile); err != nil && !os.IsNotExist(err) {
		a.Logger.Warn("failed to load history file", "path", a.Config.HistFile, "err", err)
	}
}

// saveHistory persists the shell's history to Config.HistFile, if set.
func (a *App) saveHistory() {
	if a.Config.HistFile == "" {
		return
	}
	if err := a.Shell.History.SaveFile(a.Config.HistFile); err != nil {
		a.Logger.Warn("failed to save history file", "path", a.Config.HistFile, "err", err)
	}
}

// RunInteractive runs the REPL, choosing a readline-backed line source when
// stdin is a terminal and a plain one otherwise. History is loaded before
// the first prompt and saved after the loop ends.
func (a *App) RunInteractive(ctx context.Context) error {
	a.loadHistory()
	defer a.saveHistory()

	var ls pkgshell.LineSource
	if IsInteractive(a.stdinFD) {
		rl, err := NewReadlineLineSource(a.historyFilePath())
		if err != nil {
			a.Logger.Warn("falling back to plain line source", "err", err)
			ls = NewPlainLineSource(a.stdin, a.stdout)
		} else {
			ls = rl
			a.Shell.LineEditor = rl
		}
	} else {
		ls = NewPlainLineSource(a.stdin, a.stdout)
	}
	defer ls.Close()

	return a.Shell.Run(ctx, ls, a.stdin)
}

// historyFilePath is where readline's own up/down-arrow recall persists,
// distinct from Config.HistFile which backs the history builtin.
func (a *App) historyFilePath() string {
	if a.Config.HistFile == "" {
		return ""
	}
	return a.Config.HistFile + ".readline"
}

// RunCommand executes exactly one pipeline non-interactively and returns
// its exit status. History is neither loaded nor saved.
func (a *App) RunCommand(ctx context.Context, command string) int {
	code, exitReq := a.Shell.RunOne(ctx, command, a.stdin)
	if exitReq != nil {
		return exitReq.Code
	}
	return code
}

// RunScript feeds each line of path through the shell's RunOne, without a
// prompt, stopping at the first I/O error or at exit.
func (a *App) RunScript(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		_, exitReq := a.Shell.RunOne(ctx, line, a.stdin)
		if exitReq != nil {
			return nil
		}
	}

	return scanner.Err()
}
