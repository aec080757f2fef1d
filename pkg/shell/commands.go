package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/image"
	. "github.com/weberc2/blockfs/pkg/types"
)

const timeFormat = "2006-01-02 15:04:05"

type command struct {
	usage   string
	help    string
	minArgs int

	// run gets the arguments split on whitespace and the raw remainder of
	// the line after the command name.
	run func(s *Shell, args []string, rest string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help": {
			usage: "help",
			help:  "show this help",
			run:   (*Shell).help,
		},
		"touch": {
			usage:   "touch <name>",
			help:    "create an empty file",
			minArgs: 1,
			run: func(s *Shell, args []string, _ string) error {
				return s.FS.Create(args[0], FileTypeRegular)
			},
		},
		"mkdir": {
			usage:   "mkdir <name>",
			help:    "create a directory",
			minArgs: 1,
			run: func(s *Shell, args []string, _ string) error {
				return s.FS.Create(args[0], FileTypeDir)
			},
		},
		"ls": {
			usage: "ls",
			help:  "list the current directory",
			run:   (*Shell).list,
		},
		"cd": {
			usage:   "cd <path>",
			help:    "change directory",
			minArgs: 1,
			run: func(s *Shell, args []string, _ string) error {
				return s.FS.ChangeDir(args[0])
			},
		},
		"pwd": {
			usage: "pwd",
			help:  "print the current directory",
			run: func(s *Shell, _ []string, _ string) error {
				fmt.Fprintln(s.Out, s.FS.CurrentPath())
				return nil
			},
		},
		"rm": {
			usage:   "rm <name>",
			help:    "delete a file or directory (recursively)",
			minArgs: 1,
			run: func(s *Shell, args []string, _ string) error {
				return s.FS.Delete(args[0], s.confirm)
			},
		},
		"write": {
			usage:   "write <name> <text>",
			help:    "replace a file's content with the rest of the line",
			minArgs: 1,
			run: func(s *Shell, _ []string, rest string) error {
				name, text := cut(rest)
				return s.FS.Write(name, []byte(text))
			},
		},
		"cat": {
			usage:   "cat <name>",
			help:    "print a file",
			minArgs: 1,
			run: func(s *Shell, args []string, _ string) error {
				data, err := s.FS.Read(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(s.Out, "%s\n", data)
				return nil
			},
		},
		"chmod": {
			usage:   "chmod <perm> <name>",
			help:    "set permissions, as an octal digit or as `rwx`",
			minArgs: 2,
			run: func(s *Shell, args []string, _ string) error {
				perm, err := ParsePerm(args[0])
				if err != nil {
					return err
				}
				return s.FS.Chmod(args[1], perm)
			},
		},
		"mv": {
			usage:   "mv <name> <new-name>",
			help:    "rename within the current directory",
			minArgs: 2,
			run: func(s *Shell, args []string, _ string) error {
				return s.FS.Rename(args[0], args[1])
			},
		},
		"stat": {
			usage:   "stat <name>",
			help:    "show details of a file or directory",
			minArgs: 1,
			run:     (*Shell).stat,
		},
		"df": {
			usage: "df",
			help:  "show block and table usage",
			run:   (*Shell).usage,
		},
		"save": {
			usage:   "save <image>",
			help:    "save the disk as a named image",
			minArgs: 1,
			run: func(s *Shell, _ []string, rest string) error {
				if s.Images == nil {
					return errNoImages
				}
				key, err := image.Save(s.Images, rest, s.FS)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.Out, "saved image `%s`\n", key)
				return nil
			},
		},
		"load": {
			usage:   "load <image>",
			help:    "replace the disk with a saved image",
			minArgs: 1,
			run: func(s *Shell, _ []string, rest string) error {
				if s.Images == nil {
					return errNoImages
				}
				fs, err := image.Load(s.Images, rest, &s.Params)
				if err != nil {
					return err
				}
				if err := s.FS.Close(); err != nil {
					return err
				}
				s.FS = fs
				return nil
			},
		},
		"images": {
			usage: "images",
			help:  "list saved images",
			run: func(s *Shell, _ []string, _ string) error {
				if s.Images == nil {
					return errNoImages
				}
				keys, err := s.Images.ListImages()
				if err != nil {
					return err
				}
				for _, key := range keys {
					fmt.Fprintln(s.Out, key)
				}
				return nil
			},
		},
		"exit": {
			usage: "exit",
			help:  "leave the shell",
		},
	}
}

const errNoImages ConstError = "no image store configured"

func (s *Shell) help(_ []string, _ string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(s.Out, "Commands:")
	for _, name := range names {
		fmt.Fprintf(s.Out, "  %-22s %s\n", commands[name].usage, commands[name].help)
	}
	return nil
}

func (s *Shell) list(_ []string, _ string) error {
	entries, err := s.FS.List()
	if err != nil {
		return err
	}
	for i := range entries {
		fmt.Fprintln(s.Out, s.formatEntry(&entries[i]))
	}
	return nil
}

func (s *Shell) formatEntry(e *filesystem.Entry) string {
	kind := '-'
	if e.Type == FileTypeDir {
		kind = 'd'
	}
	name := e.Name
	if s.Color {
		name = colorBlue + name + colorReset
	}
	return fmt.Sprintf(
		"%c%s\t%d bytes\tCreated: %s\tModified: %s\t%s",
		kind,
		e.Perm,
		e.Size,
		e.Created.Format(timeFormat),
		e.Modified.Format(timeFormat),
		name,
	)
}

func (s *Shell) stat(args []string, _ string) error {
	e, err := s.FS.Stat(args[0])
	if err != nil {
		return err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:     %s\n", e.Name)
	fmt.Fprintf(&sb, "Type:     %s\n", e.Type)
	fmt.Fprintf(&sb, "Perm:     %s\n", e.Perm)
	fmt.Fprintf(&sb, "Size:     %d\n", e.Size)
	fmt.Fprintf(&sb, "Created:  %s\n", e.Created.Format(timeFormat))
	fmt.Fprintf(&sb, "Modified: %s\n", e.Modified.Format(timeFormat))
	_, err = fmt.Fprint(s.Out, sb.String())
	return err
}

func (s *Shell) usage(_ []string, _ string) error {
	u := s.FS.Usage()
	fmt.Fprintf(s.Out, "Volume:      %s\n", u.VolumeID)
	fmt.Fprintf(
		s.Out,
		"Blocks:      %d used, %d free, %d total (%d bytes each)\n",
		u.Blocks-u.FreeBlocks,
		u.FreeBlocks,
		u.Blocks,
		u.BlockSize,
	)
	fmt.Fprintf(s.Out, "Data:        %d bytes\n", u.DataSize)
	fmt.Fprintf(s.Out, "Records:     %d of %d\n", u.Records, u.MaxRecords)
	fmt.Fprintf(
		s.Out,
		"Directories: %d of %d\n",
		u.Directories,
		u.MaxDirectories,
	)
	fmt.Fprintf(s.Out, "Max file:    %d bytes\n", u.MaxFileSize)
	return nil
}
