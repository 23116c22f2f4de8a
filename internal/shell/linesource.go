package shell

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	pkgshell "github.com/Neev4n/CodeCrafters-Shell-GO/codecrafters-shell-go/pkg/shell"
)

// PlainLineSource reads one line at a time from an arbitrary reader,
// writing the prompt to an arbitrary writer first. RunInteractive uses it
// when stdin is not a terminal (piped input) or when readline fails to
// initialize; the -c flag and script-file mode do not use a LineSource.
type PlainLineSource struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlainLineSource wraps reader/writer for line-at-a-time reads.
func NewPlainLineSource(reader io.Reader, writer io.Writer) *PlainLineSource {
	return &PlainLineSource{in: bufio.NewReader(reader), out: writer}
}

func (p *PlainLineSource) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}

	return line, nil
}

func (p *PlainLineSource) Close() error { return nil }

// ReadlineLineSource backs interactive sessions with chzyer/readline,
// giving arrow-key recall of its own line-editing history. This is
// distinct from the shell's own in-memory History used by the history
// builtin.
type ReadlineLineSource struct {
	instance *readline.Instance
}

// NewReadlineLineSource constructs a readline-backed LineSource. histFile,
// if non-empty, is used for readline's own persistent up/down-arrow recall,
// kept separate from the shell's own History used by the history builtin.
func NewReadlineLineSource(histFile string) (*ReadlineLineSource, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     histFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("initializing readline: %w", err)
	}

	return &ReadlineLineSource{instance: rl}, nil
}

func (r *ReadlineLineSource) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	line, err := r.instance.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", nil
		}
		return "", err
	}
	return line, nil
}

func (r *ReadlineLineSource) Close() error {
	return r.instance.Close()
}

// AppendHistory feeds line into readline's own history buffer, so
// "history -r" keeps the line editor's up/down-arrow recall in sync with
// the history builtin's list. Implements pkgshell.HistoryAppender.
func (r *ReadlineLineSource) AppendHistory(line string) error {
	return r.instance.SaveHistory(line)
}

// IsInteractive reports whether fd behaves like a terminal, the signal used
// to choose between ReadlineLineSource and PlainLineSource.
func IsInteractive(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

var _ pkgshell.LineSource = (*PlainLineSource)(nil)
var _ pkgshell.LineSource = (*ReadlineLineSource)(nil)
var _ pkgshell.HistoryAppender = (*ReadlineLineSource)(nil)
