package shell

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ExitRequest is returned by the exit builtin to signal that the REPL
// should terminate once the current pipeline finishes. It is carried as an
// error so existing error-propagation paths (errors.As) recognise it.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Builtin is the signature every in-process command implements: given its
// arguments (excluding the command name) and sinks for normal and error
// output, it returns an exit code and, for exit, an *ExitRequest.
type Builtin func(args []string, stdout, stderr io.Writer, sh *Shell) (int, error)

// Registry is the fixed name-to-function dispatch table described in the
// Builtin Registry component.
type Registry map[string]Builtin

// NewRegistry returns a Registry populated with exit, echo, pwd, cd, type,
// and history.
func NewRegistry() Registry {
	return Registry{
		"exit":    builtinExit,
		"echo":    builtinEcho,
		"pwd":     builtinPwd,
		"cd":      builtinCd,
		"type":    builtinType,
		"history": builtinHistory,
	}
}

func builtinExit(args []string, stdout, stderr io.Writer, sh *Shell) (int, error) {
	code := 0
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			code = n
		}
	}
	return code, &ExitRequest{Code: code}
}

func builtinEcho(args []string, stdout, stderr io.Writer, sh *Shell) (int, error) {
	fmt.Fprintln(stdout, strings.Join(args, " "))
	return 0, nil
}

func builtinPwd(args []string, stdout, stderr io.Writer, sh *Shell) (int, error) {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(stderr, "pwd:", err)
		return 1, nil
	}
	fmt.Fprintln(stdout, dir)
	return 0, nil
}

// builtinCd implements the Cd semantics from spec §4.4: a leading "~" with
// no following character expands to HOME; no other "~user" forms are
// supported, and a bare cd (no argument) is a no-op.
func builtinCd(args []string, stdout, stderr io.Writer, sh *Shell) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}

	target := args[0]
	if target == "~" {
		if home := os.Getenv("HOME"); home != "" {
			target = home
		}
	}

	if err := os.Chdir(target); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(stderr, "cd: %s: No such file or directory\n", args[0])
		} else {
			fmt.Fprintf(stderr, "cd: %s: %v\n", args[0], err)
		}
		return 1, nil
	}

	return 0, nil
}

func builtinType(args []string, stdout, stderr io.Writer, sh *Shell) (int, error) {
	if len(args) == 0 {
		fmt.Fprintln(stdout, "type: usage: type NAME")
		return 0, nil
	}

	name := args[0]

	if _, ok := sh.Builtins[name]; ok {
		fmt.Fprintln(stdout, name, "is a shell builtin")
		return 0, nil
	}

	if path, ok := sh.Lookup(name); ok {
		fmt.Fprintln(stdout, name, "is", path)
		return 0, nil
	}

	fmt.Fprintln(stdout, name+": not found")
	return 0, nil
}

// builtinHistory implements the history contract: no argument or a count N
// lists entries, -r loads a file into both the in-memory history and the
// line editor's own recall buffer (when one is active), -w saves history to
// a file. I/O failures on -r/-w are silent.
func builtinHistory(args []string, stdout, stderr io.Writer, sh *Shell) (int, error) {
	if len(args) >= 2 && args[0] == "-r" {
		lines, err := readLines(args[1])
		if err != nil {
			return 0, nil
		}
		for _, line := range lines {
			sh.History.Add(line)
			if sh.LineEditor != nil {
				_ = sh.LineEditor.AppendHistory(line)
			}
		}
		return 0, nil
	}

	if len(args) >= 2 && args[0] == "-w" {
		_ = sh.History.SaveFile(args[1])
		return 0, nil
	}

	if len(args) == 0 {
		writeEntries(stdout, sh.History.Entries(), 0)
		return 0, nil
	}

	if n, err := strconv.Atoi(args[0]); err == nil {
		all := sh.History.Entries()
		last := sh.History.Last(n)
		writeEntries(stdout, last, len(all)-len(last))
		return 0, nil
	}

	writeEntries(stdout, sh.History.Entries(), 0)
	return 0, nil
}
