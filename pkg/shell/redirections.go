package shell

import (
	"fmt"
	"io"
	"os"
)

// FileOpener abstracts file system access so redirection can be tested
// without touching the real file system.
type FileOpener interface {
	OpenWrite(name string, flag int, perm os.FileMode) (io.WriteCloser, error)
}

// DefaultFileOpener opens real files via the os package.
type DefaultFileOpener struct{}

func (fp *DefaultFileOpener) OpenWrite(name string, flag int, perm os.FileMode) (io.WriteCloser, error) {
	return os.OpenFile(name, flag, perm)
}

// IOBindings are the three standard streams bound to a stage during
// execution.
type IOBindings struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RedirectionManager opens the files named by a stage's Redirection set and
// binds them into IOBindings, in fd order (stdout before stderr), returning
// a cleanup that closes every file opened so far.
//
// If stderr's target fails to open after stdout's already succeeded, the
// stdout file is closed before the error is returned (the returned cleanup
// is then nil), so no fd is ever leaked on a partial failure.
type RedirectionManager struct {
	opener FileOpener
}

// NewRedirectionManager returns a manager that opens files through opener.
func NewRedirectionManager(opener FileOpener) *RedirectionManager {
	return &RedirectionManager{opener: opener}
}

func (rManager *RedirectionManager) openFlags(r Redirection) int {
	flag := os.O_CREATE | os.O_WRONLY
	if r.Append {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	return flag
}

// ApplyRedirections opens every redirection attached to the stage and
// returns bindings with Stdout/Stderr replaced accordingly, along with a
// cleanup function that MUST be called once the stage is done. On error the
// files opened so far are already closed and the returned cleanup is nil.
func (rManager *RedirectionManager) ApplyRedirections(redirects map[FD]Redirection, base IOBindings) (IOBindings, func(), error) {
	bindings := base
	var opened []io.Closer

	cleanup := func() {
		for _, c := range opened {
			c.Close()
		}
	}

	if r, ok := redirects[FDStdout]; ok {
		file, err := rManager.opener.OpenWrite(r.Path, rManager.openFlags(r), 0644)
		if err != nil {
			cleanup()
			return base, nil, fmt.Errorf("%s: %w", r.Path, err)
		}
		opened = append(opened, file)
		bindings.Stdout = file
	}

	if r, ok := redirects[FDStderr]; ok {
		file, err := rManager.opener.OpenWrite(r.Path, rManager.openFlags(r), 0644)
		if err != nil {
			cleanup()
			return base, nil, fmt.Errorf("%s: %w", r.Path, err)
		}
		opened = append(opened, file)
		bindings.Stderr = file
	}

	return bindings, cleanup, nil
}
