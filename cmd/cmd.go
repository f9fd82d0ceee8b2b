// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that reads config.toml.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// topCommand serves ranked charts for a user or artist.
func topCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "Show top charts for a subject",
		Flags: []cli.Flag{
			configFlag(),
			&cli.Int64Flag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Local user ID to chart",
			},
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist name to chart",
			},
			&cli.Int64Flag{
				Name:  "artist-id",
				Usage: "Local artist ID to chart",
			},
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Item type: track, artist or album",
				Value:   "track",
			},
			&cli.StringFlag{
				Name:    "scope",
				Aliases: []string{"s"},
				Usage:   "Time window: all-time, <N>d or year:<YYYY>",
				Value:   "all-time",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Chart provider: local-plays, lastfm or spotify",
				Value:   "local-plays",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of entries",
			},
			&cli.BoolFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Link external titles to local songs",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: csv, markdown or text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path for --format exports",
			},
		},
		Action: r.Top,
	}
}

// cacheCommand inspects and prunes the chart cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and prune cached charts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached chart records",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CacheList,
			},
			{
				Name:  "purge",
				Usage: "Delete expired cache records",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "id",
						Usage: "Delete one record by ID instead",
					},
				},
				Action: r.CachePurge,
			},
		},
	}
}

// matchCommand links one external title to the local catalog, for debugging
// confidence scores.
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Match an external track title against the local catalog",
		Flags: []cli.Flag{
			configFlag(),
			&cli.Int64Flag{
				Name:     "artist-id",
				Usage:    "Local artist ID whose catalog to search",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "title",
				Usage:    "External track title",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "duration",
				Usage: "External track duration in seconds",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.MatchTrack,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive chart browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive chart browser",
		Flags: []cli.Flag{
			configFlag(),
			&cli.Int64Flag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Local user ID to chart",
			},
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist name to chart",
			},
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Item type: track, artist or album",
				Value:   "track",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Chart provider: local-plays, lastfm or spotify",
				Value:   "local-plays",
			},
		},
		Action: r.TUI,
	}
}
