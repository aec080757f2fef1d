package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/image"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"

	confirmPrompt = "Directory not empty. Delete? (y/n): "
)

// Shell reads commands line by line and runs them against a file system.
// Output goes to Out; Lines writes its own prompts.
type Shell struct {
	FS *filesystem.FileSystem

	// Images backs `save`, `load` and `images`. Those commands fail when it
	// is nil.
	Images image.Store

	// Params are used to mount images on `load`.
	Params filesystem.Params

	User  string
	Color bool

	Lines LineReader
	Out   io.Writer
}

func New(fs *filesystem.FileSystem, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		FS:    fs,
		User:  "user",
		Lines: NewScanLines(in, out),
		Out:   out,
	}
}

// Run prompts for and runs commands until `exit` or the end of the input.
func (s *Shell) Run() error {
	for {
		line, err := s.Lines.ReadLine(s.Prompt())
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading command: %w", err)
		}
		if line == "" && errors.Is(err, io.EOF) {
			fmt.Fprintln(s.Out)
			return s.close()
		}
		if s.Exec(line) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return s.close()
		}
	}
}

// Exec runs one command line and reports whether the shell should exit.
// Failures are printed; they never stop the shell.
func (s *Shell) Exec(line string) bool {
	name, rest := cut(line)
	if name == "" {
		return false
	}
	if name == "exit" {
		if err := s.close(); err != nil {
			s.printErr(err)
		}
		return true
	}
	cmd, ok := commands[name]
	if !ok {
		s.printErr(fmt.Errorf("unknown command `%s`; try `help`", name))
		return false
	}
	args := strings.Fields(rest)
	if len(args) < cmd.minArgs {
		s.printErr(fmt.Errorf("usage: %s", cmd.usage))
		return false
	}
	if err := cmd.run(s, args, rest); err != nil {
		s.printErr(err)
	}
	return false
}

// Prompt renders `user@fs:/path$ `.
func (s *Shell) Prompt() string {
	path := s.FS.CurrentPath()
	if s.Color {
		return fmt.Sprintf(
			"%s%s@fs%s:%s%s%s$ ",
			colorGreen,
			s.User,
			colorReset,
			colorBlue,
			path,
			colorReset,
		)
	}
	return fmt.Sprintf("%s@fs:%s$ ", s.User, path)
}

// confirm asks before a non-empty directory is deleted.
func (s *Shell) confirm() bool {
	answer, _ := s.Lines.ReadLine(confirmPrompt)
	answer = strings.TrimSpace(answer)
	return answer != "" && (answer[0] == 'y' || answer[0] == 'Y')
}

func (s *Shell) printErr(err error) {
	fmt.Fprintf(s.Out, "Error: %v\n", err)
}

func (s *Shell) close() error {
	if err := s.FS.Close(); err != nil {
		return fmt.Errorf("closing shell: %w", err)
	}
	return nil
}

// cut splits off the first whitespace-separated word of `line`.
func cut(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}
