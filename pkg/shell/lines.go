package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader prompts for and returns one line of input without its line
// ending. At the end of the input it returns io.EOF, possibly alongside a
// final unterminated line.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ScanLines reads lines from any reader and writes prompts to `out`. It
// serves piped input and tests.
type ScanLines struct {
	in  *bufio.Reader
	out io.Writer
}

func NewScanLines(in io.Reader, out io.Writer) *ScanLines {
	return &ScanLines{in: bufio.NewReader(in), out: out}
}

func (sl *ScanLines) ReadLine(prompt string) (string, error) {
	fmt.Fprint(sl.out, prompt)
	line, err := sl.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

// TerminalLines reads from an interactive terminal with line editing and
// history.
type TerminalLines struct {
	rl *readline.Instance
}

// NewTerminalLines opens the terminal. History is kept in `historyFile`; an
// empty path keeps it in memory only.
func NewTerminalLines(historyFile string) (*TerminalLines, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	return &TerminalLines{rl: rl}, nil
}

// ReadLine treats Ctrl-C as an empty line.
func (tl *TerminalLines) ReadLine(prompt string) (string, error) {
	tl.rl.SetPrompt(prompt)
	line, err := tl.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", nil
	}
	return line, err
}

func (tl *TerminalLines) Close() error { return tl.rl.Close() }

// IsTerminal reports whether `fd` is an interactive terminal.
func IsTerminal(fd uintptr) bool { return readline.IsTerminal(int(fd)) }

var (
	_ LineReader = &ScanLines{}
	_ LineReader = &TerminalLines{}
)
