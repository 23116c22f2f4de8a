// Command shell is an interactive command-line shell.
//
// Run with no arguments for an interactive REPL on stdin/stdout/stderr, use
// -c to run a single pipeline non-interactively, or pass a script file to
// run its lines in sequence without a prompt.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	internalshell "github.com/Neev4n/CodeCrafters-Shell-GO/codecrafters-shell-go/internal/shell"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errMutuallyExclusiveFlags) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errMutuallyExclusiveFlags = errors.New("-c and a script file argument are mutually exclusive")

func newRootCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "shell [script-file]",
		Short: "An interactive command shell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if command != "" && len(args) > 0 {
				return errMutuallyExclusiveFlags
			}

			app, err := internalshell.NewApp(os.Stdin, os.Stdin.Fd(), os.Stdout, os.Stderr)
			if err != nil {
				return err
			}

			ctx := context.Background()

			switch {
			case command != "":
				os.Exit(app.RunCommand(ctx, command))
				return nil

			case len(args) == 1:
				return app.RunScript(ctx, args[0])

			default:
				return app.RunInteractive(ctx)
			}
		},
	}

	cmd.Flags().StringVarP(&command, "command", "c", "", "run one pipeline non-interactively and exit with its status")

	return cmd
}
