package shell

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/testsupport"
)

func testParams() filesystem.Params {
	params := filesystem.DefaultParams()
	params.ArenaSize = 64 << 10
	params.Clock = func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return params
}

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer) {
	t.Helper()
	params := testParams()
	fs, err := filesystem.New(&params)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var out bytes.Buffer
	s := New(fs, strings.NewReader(input), &out)
	s.Params = params
	return s, &out
}

func TestRun_Transcript(t *testing.T) {
	input := strings.Join([]string{
		"mkdir docs",
		"cd docs",
		"touch notes",
		"write notes hello  world",
		"cat notes",
		"pwd",
		"cd ..",
		"ls",
		"rm docs",
		"n",
		"ls",
		"rm docs",
		"y",
		"ls",
		"exit",
		"pwd",
	}, "\n") + "\n"
	s, out := newTestShell(t, input)
	if err := s.Run(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	docs := "drwx\t0 bytes\tCreated: 2024-01-02 03:04:05\t" +
		"Modified: 2024-01-02 03:04:05\tdocs\n"
	wanted := "user@fs:/$ " +
		"user@fs:/$ " +
		"user@fs:/docs$ " +
		"user@fs:/docs$ " +
		"user@fs:/docs$ hello  world\n" +
		"user@fs:/docs$ /docs\n" +
		"user@fs:/docs$ " +
		"user@fs:/$ " + docs +
		"user@fs:/$ Directory not empty. Delete? (y/n): " +
		"Error: deleting `docs`: deletion declined\n" +
		"user@fs:/$ " + docs +
		"user@fs:/$ Directory not empty. Delete? (y/n): " +
		"user@fs:/$ " +
		"user@fs:/$ "
	if found := out.String(); found != wanted {
		t.Fatalf("wanted:\n%q\nfound:\n%q", wanted, found)
	}
}

func TestExec_Errors(t *testing.T) {
	for _, testCase := range []struct {
		line   string
		wanted string
	}{
		{line: "frobnicate", wanted: "Error: unknown command `frobnicate`"},
		{line: "cat missing", wanted: "file or directory not found"},
		{line: "touch", wanted: "Error: usage: touch <name>"},
		{line: "chmod 9 x", wanted: "invalid permissions"},
		{line: "cd nowhere", wanted: "file or directory not found"},
		{line: "images", wanted: "Error: no image store configured"},
		{line: "mkdir ..", wanted: "invalid name"},
	} {
		s, out := newTestShell(t, "")
		if s.Exec(testCase.line) {
			t.Fatalf("`%s`: unexpected exit", testCase.line)
		}
		found := out.String()
		if !strings.HasPrefix(found, "Error: ") ||
			!strings.Contains(found, testCase.wanted) {
			t.Fatalf(
				"`%s`: wanted error containing `%s`; found `%s`",
				testCase.line,
				testCase.wanted,
				found,
			)
		}
	}
}

func TestExec_MetadataCommands(t *testing.T) {
	s, out := newTestShell(t, "")
	for _, line := range []string{
		"touch a",
		"write a abc",
		"chmod r-x a",
		"mv a b",
	} {
		s.Exec(line)
	}
	if out.Len() > 0 {
		t.Fatalf("unexpected output: `%s`", out.String())
	}

	s.Exec("stat b")
	wanted := "Name:     b\n" +
		"Type:     Regular\n" +
		"Perm:     r-x\n" +
		"Size:     3\n" +
		"Created:  2024-01-02 03:04:05\n" +
		"Modified: 2024-01-02 03:04:05\n"
	if found := out.String(); found != wanted {
		t.Fatalf("wanted:\n%s\nfound:\n%s", wanted, found)
	}

	out.Reset()
	s.Exec("df")
	if found := out.String(); !strings.Contains(found, "Records:     1 of 128\n") {
		t.Fatalf("wanted record usage in `%s`", found)
	}
}

func TestExec_SaveLoad(t *testing.T) {
	s, out := newTestShell(t, "")
	s.Images = testsupport.StoreFake{}

	s.Exec("mkdir keep")
	s.Exec("save Backup One")
	s.Exec("mkdir scratch")
	s.Exec("cd scratch")
	s.Exec("load backup one")
	s.Exec("images")
	s.Exec("ls")

	found := out.String()
	if !strings.Contains(found, "saved image `backup-one`\n") {
		t.Fatalf("wanted save confirmation in `%s`", found)
	}
	if !strings.Contains(found, "backup-one\n") {
		t.Fatalf("wanted image listing in `%s`", found)
	}
	if strings.Contains(found, "scratch") || !strings.Contains(found, "\tkeep\n") {
		t.Fatalf("wanted the saved tree after load; found `%s`", found)
	}
	if path := s.FS.CurrentPath(); path != "/" {
		t.Fatalf("wanted `/` after load; found `%s`", path)
	}
}

func TestRun_ColorPrompt(t *testing.T) {
	s, out := newTestShell(t, "")
	s.Color = true
	s.User = "ada"
	if err := s.Run(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	wanted := "\033[32mada@fs\033[0m:\033[34m/\033[0m$ \n"
	if found := out.String(); found != wanted {
		t.Fatalf("wanted `%q`; found `%q`", wanted, found)
	}
}
