package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"guildstore/internal"
	"guildstore/internal/di"
	"guildstore/internal/structures"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "guildstore",
		Usage: "Guild-scoped intel storage service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
				EnvVars: []string{"GS_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Mirror logs to the console",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with scheduled purges and backups",
				Action: serveCommand,
			},
			{
				Name:   "purge",
				Usage:  "Remove stale intel from every guild",
				Action: purgeCommand,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "max-age",
						Usage: "Records older than this are removed (defaults to purge.maxAge)",
					},
				},
			},
			{
				Name:   "backup",
				Usage:  "Write a compressed snapshot of the document",
				Action: backupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Backup file (defaults to backup.filePath)",
					},
				},
			},
			{
				Name:   "restore",
				Usage:  "Replace the document with the contents of a backup",
				Action: restoreCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Aliases:  []string{"f"},
						Usage:    "Backup file to restore",
						Required: true,
					},
				},
			},
			{
				Name:   "types",
				Usage:  "List the registered intel types and their options",
				Action: typesCommand,
			},
		},
	}
}

func cliFlags(c *cli.Context) *structures.CliFlags {
	return &structures.CliFlags{
		ConfigPath: c.String("config"),
		DebugMode:  c.Bool("debug"),
	}
}

func withToolkit(c *cli.Context, fn func(tk *internal.Toolkit) error) error {
	tk, err := di.InitToolkit(cliFlags(c))
	if err != nil {
		return err
	}
	defer tk.Logger.Close()
	defer tk.Backups.Close()
	return fn(tk)
}

func serveCommand(c *cli.Context) error {
	app, err := di.InitApp(cliFlags(c))
	if err != nil {
		return err
	}
	return app.Run()
}

func purgeCommand(c *cli.Context) error {
	return withToolkit(c, func(tk *internal.Toolkit) error {
		maxAge := c.Duration("max-age")
		if maxAge <= 0 {
			maxAge = tk.Config.Purge.MaxAge
		}
		removed, err := tk.Service.Sweep(maxAge)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Removed %d records older than %s\n", removed, maxAge)
		return nil
	})
}

func backupCommand(c *cli.Context) error {
	return withToolkit(c, func(tk *internal.Toolkit) error {
		out := c.String("out")
		if out == "" {
			out = tk.Config.Backup.FilePath
		}
		if out == "" {
			return errors.New("no backup file: pass --out or set backup.filePath")
		}
		if err := tk.Backups.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Backup written to %s\n", out)
		return nil
	})
}

func restoreCommand(c *cli.Context) error {
	return withToolkit(c, func(tk *internal.Toolkit) error {
		target := tk.Config.Repository.FilePath
		if target == "" {
			return errors.New("repository.filePath is not set")
		}
		if err := tk.Backups.Restore(c.String("from"), target); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Restored %s into %s\n", c.String("from"), target)
		return nil
	})
}

func typesCommand(c *cli.Context) error {
	return withToolkit(c, func(tk *internal.Toolkit) error {
		for _, t := range tk.Service.Types() {
			names := make([]string, 0, len(t.Options))
			for _, o := range t.Options {
				name := o.Name
				if o.Required {
					name += "*"
				}
				names = append(names, name)
			}
			fmt.Fprintf(c.App.Writer, "%-6s %s\n", t.Discriminator, strings.Join(names, ", "))
		}
		return nil
	})
}
