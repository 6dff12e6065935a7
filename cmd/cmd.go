// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/babytube/internal/formatter"
	"github.com/desertthunder/babytube/internal/models"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func serverFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Base URL of a running babytube server (default: local database)",
	}
}

func modeArg() cli.Argument {
	return &cli.StringArg{
		Name:      "mode",
		UsageText: models.ModeNames(),
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Migrate, seed and serve the playlist API over HTTP",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Before: r.loadConfig,
		Action: r.Serve,
	}
}

// setupCommand prepares config and storage.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and storage",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config if missing, run migrations and seed an empty store",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Before: r.loadConfig,
				Action: r.SetupRollback,
			},
		},
	}
}

// urlsCommand manages playlist entries.
func urlsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "urls",
		Aliases: []string{"u"},
		Usage:   "List, add, remove and export playlist entries",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List the entries of a mode",
				Arguments: []cli.Argument{modeArg()},
				Flags: []cli.Flag{
					configFlag(),
					serverFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
					&cli.BoolFlag{
						Name:  "titles",
						Usage: "Look up video titles",
					},
				},
				Before: r.loadConfig,
				Action: r.URLsList,
			},
			{
				Name:  "add",
				Usage: "Add a video to a mode",
				Arguments: []cli.Argument{
					modeArg(),
					&cli.StringArg{
						Name:      "input",
						UsageText: "video URL or 11-character ID",
					},
				},
				Flags:  []cli.Flag{configFlag(), serverFlag()},
				Before: r.loadConfig,
				Action: r.URLsAdd,
			},
			{
				Name:    "rm",
				Aliases: []string{"remove"},
				Usage:   "Remove an entry by its row ID",
				Arguments: []cli.Argument{
					modeArg(),
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag(), serverFlag()},
				Before: r.loadConfig,
				Action: r.URLsRemove,
			},
			{
				Name:      "export",
				Usage:     "Write the entries of a mode to a file",
				Arguments: []cli.Argument{modeArg()},
				Flags: []cli.Flag{
					configFlag(),
					serverFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: {mode}.{ext})",
					},
					&cli.BoolFlag{
						Name:  "titles",
						Usage: "Look up video titles before writing",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent title lookups",
					},
				},
				Before: r.loadConfig,
				Action: r.URLsExport,
			},
		},
	}
}

// nextCommand runs the selection engine.
func nextCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "next",
		Usage:     "Pick the next video to play in a mode",
		Arguments: []cli.Argument{modeArg()},
		Flags: []cli.Flag{
			configFlag(),
			serverFlag(),
			&cli.StringFlag{
				Name:  "current",
				Usage: "Video ID that is playing now and must not be picked again",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the watch page in the default browser",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Before: r.loadConfig,
		Action: r.Next,
	}
}

// normalizeCommand exposes the identifier normalizer.
func normalizeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "normalize",
		Usage: "Print the canonical video ID for a URL or ID",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "input"},
		},
		Action: r.Normalize,
	}
}

// tuiCommand launches the terminal player.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse and play playlists in an interactive terminal UI",
		Flags:  []cli.Flag{configFlag(), serverFlag()},
		Before: r.loadConfig,
		Action: r.TUI,
	}
}
