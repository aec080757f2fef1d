package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/image"
	"github.com/weberc2/blockfs/pkg/shell"
)

func main() {
	app := cli.App{
		Name:        appName,
		Usage:       "an in-memory block file system with an interactive shell",
		Description: "starts a shell against a freshly formatted arena",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "arena-size",
				Usage: "arena size, e.g. `1MiB`",
			},
			&cli.StringFlag{
				Name:  "block-size",
				Usage: "block size, e.g. `512`",
			},
			&cli.UintFlag{
				Name:  "max-records",
				Usage: "capacity of the record table",
			},
			&cli.UintFlag{
				Name:  "max-directories",
				Usage: "capacity of the child-set table, including the root",
			},
			&cli.UintFlag{
				Name:  "max-children",
				Usage: "entries per directory",
			},
			&cli.StringFlag{
				Name:  "max-file-size",
				Usage: "writes longer than this are truncated",
			},
			&cli.BoolFlag{
				Name:  "in-memory",
				Usage: "keep the metadata out of the arena until an image is taken",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "image store: none, dir, s3 or pg",
			},
			&cli.StringFlag{
				Name:  "store-dir",
				Usage: "directory for the `dir` image store",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "user name shown in the prompt",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable ANSI colors",
			},
		},
		Action: withConfig(func(c *Config, ctx *cli.Context) error {
			params := c.Params()
			fs, err := filesystem.New(&params)
			if err != nil {
				return err
			}
			store, err := c.Store.Open()
			if err != nil {
				return err
			}
			s := shell.New(fs, os.Stdin, os.Stdout)
			if shell.IsTerminal(os.Stdin.Fd()) {
				if c.HistoryFile != "" {
					if err := os.MkdirAll(filepath.Dir(c.HistoryFile), 0o755); err != nil {
						log.Printf("WARN creating history directory: %v", err)
					}
				}
				terminal, err := shell.NewTerminalLines(c.HistoryFile)
				if err != nil {
					return err
				}
				defer terminal.Close()
				s.Lines = terminal
			}
			s.Images = store
			s.Params = params
			s.User = c.User
			s.Color = c.Color
			return s.Run()
		}),
		Commands: []*cli.Command{{
			Name:        "inspect",
			ArgsUsage:   "<image>",
			Description: "print the geometry, usage and root listing of a stored image as JSON",
			Action: withStore(func(store image.Store, ctx *cli.Context) error {
				if ctx.NArg() < 1 {
					return fmt.Errorf("usage: %s inspect <image>", appName)
				}
				info, err := image.Inspect(store, ctx.Args().First())
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling image info to JSON: %w", err)
				}
				if _, err := fmt.Printf("%s\n", data); err != nil {
					return fmt.Errorf("writing JSON to stdout: %w", err)
				}
				return nil
			}),
		}, {
			Name:        "images",
			Description: "list stored images",
			Action: withStore(func(store image.Store, ctx *cli.Context) error {
				keys, err := store.ListImages()
				if err != nil {
					return err
				}
				for _, key := range keys {
					fmt.Println(key)
				}
				return nil
			}),
		}, {
			Name:        "delete",
			Aliases:     []string{"rm"},
			ArgsUsage:   "<image>",
			Description: "delete a stored image",
			Action: withStore(func(store image.Store, ctx *cli.Context) error {
				key, err := image.Key(ctx.Args().First())
				if err != nil {
					return err
				}
				return store.DeleteImage(key)
			}),
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withConfig(f func(*Config, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		c, err := LoadConfig(ctx.String("config"))
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := applyFlags(c, ctx); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		return f(c, ctx)
	}
}

func withStore(f func(image.Store, *cli.Context) error) cli.ActionFunc {
	return withConfig(func(c *Config, ctx *cli.Context) error {
		store, err := c.Store.Open()
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("no image store configured")
		}
		return f(store, ctx)
	})
}

// applyFlags overrides `c` with the flags given on the command line.
func applyFlags(c *Config, ctx *cli.Context) error {
	for _, size := range []struct {
		flag string
		dst  *Size
	}{
		{"arena-size", &c.ArenaSize},
		{"block-size", &c.BlockSize},
		{"max-file-size", &c.MaxFileSize},
	} {
		if ctx.IsSet(size.flag) {
			if err := size.dst.Decode(ctx.String(size.flag)); err != nil {
				return fmt.Errorf("flag `--%s`: %w", size.flag, err)
			}
		}
	}
	for _, count := range []struct {
		flag string
		dst  *uint32
	}{
		{"max-records", &c.MaxRecords},
		{"max-directories", &c.MaxDirectories},
		{"max-children", &c.MaxChildren},
	} {
		if ctx.IsSet(count.flag) {
			*count.dst = uint32(ctx.Uint(count.flag))
		}
	}
	if ctx.IsSet("in-memory") {
		c.Persist = !ctx.Bool("in-memory")
	}
	if ctx.IsSet("store") {
		c.Store.Kind = ctx.String("store")
	}
	if ctx.IsSet("store-dir") {
		c.Store.Dir = ctx.String("store-dir")
	}
	if ctx.IsSet("user") {
		c.User = ctx.String("user")
	}
	if ctx.IsSet("no-color") {
		c.Color = !ctx.Bool("no-color")
	}
	return nil
}
