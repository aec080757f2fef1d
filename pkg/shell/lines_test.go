package shell

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestScanLines(t *testing.T) {
	var out bytes.Buffer
	lines := NewScanLines(strings.NewReader("ls\r\npwd\ncat f"), &out)

	for _, testCase := range []struct {
		wanted string
		eof    bool
	}{
		{wanted: "ls"},
		{wanted: "pwd"},
		{wanted: "cat f", eof: true},
		{wanted: "", eof: true},
	} {
		found, err := lines.ReadLine("> ")
		if errors.Is(err, io.EOF) != testCase.eof {
			t.Fatalf("`%s`: wanted eof=%t; found `%v`", testCase.wanted, testCase.eof, err)
		}
		if found != testCase.wanted {
			t.Fatalf("wanted `%s`; found `%s`", testCase.wanted, found)
		}
	}
	if found := out.String(); found != "> > > > " {
		t.Fatalf("wanted a prompt per read; found `%q`", found)
	}
}

// scriptLines replays canned lines and records the prompts it was given.
type scriptLines struct {
	lines   []string
	prompts []string
}

func (sl *scriptLines) ReadLine(prompt string) (string, error) {
	sl.prompts = append(sl.prompts, prompt)
	if len(sl.lines) < 1 {
		return "", io.EOF
	}
	line := sl.lines[0]
	sl.lines = sl.lines[1:]
	return line, nil
}

func TestRun_LineReader(t *testing.T) {
	s, out := newTestShell(t, "")
	lines := &scriptLines{lines: []string{
		"mkdir d",
		"cd d",
		"touch f",
		"cd ..",
		"rm d",
		"y",
		"",
		"ls",
	}}
	s.Lines = lines
	if err := s.Run(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	wanted := []string{
		"user@fs:/$ ",
		"user@fs:/$ ",
		"user@fs:/d$ ",
		"user@fs:/d$ ",
		"user@fs:/$ ",
		confirmPrompt,
		"user@fs:/$ ",
		"user@fs:/$ ",
		"user@fs:/$ ",
	}
	if strings.Join(lines.prompts, "|") != strings.Join(wanted, "|") {
		t.Fatalf("wanted prompts `%q`; found `%q`", wanted, lines.prompts)
	}
	if found := out.String(); found != "\n" {
		t.Fatalf("wanted an empty listing; found `%q`", found)
	}
}
