package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/sourcegraph/conc"
)

// Executor runs a parsed Pipeline: it locates externals on PATH, opens each
// stage's redirection files, wires OS pipes between adjacent stages, and
// waits for completion.
type Executor interface {
	Execute(ctx context.Context, pipeline *Pipeline, stdin io.Reader, stdout, stderr io.Writer, sh *Shell) (exitCode int, exitReq *ExitRequest)
}

// DefaultExecutor is the production Executor.
type DefaultExecutor struct {
	Redirections *RedirectionManager
}

// NewDefaultExecutor returns a DefaultExecutor using the real file system
// for redirection targets.
func NewDefaultExecutor() *DefaultExecutor {
	return &DefaultExecutor{Redirections: NewRedirectionManager(&DefaultFileOpener{})}
}

// pipe is one boundary between two adjacent stages.
type pipe struct {
	r, w *os.File
}

// Execute implements the single- and multi-stage execution procedures from
// the Executor component design as one uniform loop: an OS pipe is created
// for every boundary regardless of whether either side is a builtin, since
// builtins run synchronously and close their end immediately, satisfying
// the pipeline's EOF requirement without needing a separate in-memory path.
func (e *DefaultExecutor) Execute(ctx context.Context, pl *Pipeline, stdin io.Reader, stdout, stderr io.Writer, sh *Shell) (int, *ExitRequest) {
	n := len(pl.Stages)

	pipes := make([]pipe, n-1)
	for i := range pipes {
		r, w, err := os.Pipe()
		if err != nil {
			fmt.Fprintf(stderr, "pipe: %v\n", err)
			return 1, nil
		}
		pipes[i] = pipe{r: r, w: w}
	}

	exitCodes := make([]int, n)
	var exitReq *ExitRequest
	var cleanups []func()
	var wg conc.WaitGroup

	closeBoundary := func(i int) {
		if i > 0 {
			pipes[i-1].r.Close()
		}
		if i < n-1 {
			pipes[i].w.Close()
		}
	}

	for i, stage := range pl.Stages {
		bindings, cleanup, err := e.Redirections.ApplyRedirections(stage.Redirection, IOBindings{})
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			closeBoundary(i)
			exitCodes[i] = 1
			continue
		}
		if cleanup != nil {
			cleanups = append(cleanups, cleanup)
		}

		in := stdin
		if i > 0 {
			in = pipes[i-1].r
		}

		out := stdout
		producesPipe := i < n-1
		if _, ok := stage.Redirection[FDStdout]; ok {
			out = bindings.Stdout
			if producesPipe {
				pipes[i].w.Close()
				producesPipe = false
			}
		} else if producesPipe {
			out = pipes[i].w
		}

		errw := stderr
		if _, ok := stage.Redirection[FDStderr]; ok {
			errw = bindings.Stderr
		}

		if builtinFn, ok := sh.Builtins[stage.Name()]; ok {
			code, berr := builtinFn(stage.Args(), out, errw, sh)
			exitCodes[i] = code
			if req, ok := berr.(*ExitRequest); ok {
				exitReq = req
			}
			if producesPipe {
				pipes[i].w.Close()
			}
			if i > 0 {
				pipes[i-1].r.Close()
			}
			continue
		}

		path, ok := sh.Lookup(stage.Name())
		if !ok {
			fmt.Fprintf(stderr, "%s: command not found\n", stage.Name())
			exitCodes[i] = 127
			if producesPipe {
				pipes[i].w.Close()
			}
			if i > 0 {
				pipes[i-1].r.Close()
			}
			continue
		}

		cmd := exec.CommandContext(ctx, path, stage.Args()...)
		cmd.Args = append([]string{stage.Name()}, stage.Args()...)
		cmd.Stdin = in
		cmd.Stdout = out
		cmd.Stderr = errw

		if err := cmd.Start(); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", stage.Name(), err)
			exitCodes[i] = 1
			if producesPipe {
				pipes[i].w.Close()
			}
			if i > 0 {
				pipes[i-1].r.Close()
			}
			continue
		}

		idx := i
		localCmd := cmd
		wg.Go(func() {
			localCmd.Wait()
			exitCodes[idx] = localCmd.ProcessState.ExitCode()
		})

		if producesPipe {
			pipes[i].w.Close()
		}
		if i > 0 {
			pipes[i-1].r.Close()
		}
	}

	wg.Wait()

	for _, c := range cleanups {
		c()
	}

	return exitCodes[n-1], exitReq
}
