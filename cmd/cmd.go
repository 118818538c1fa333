// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the local session store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// sessionCommand handles the local identity: username, language, and the
// cached requested-song ids.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Manage the local session (username, language)",
		Commands: []*cli.Command{
			{
				Name:  "username",
				Usage: "Set the name used on song requests",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.SessionUsername,
			},
			{
				Name:  "language",
				Usage: "Set the UI language (it or en)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "lang"},
				},
				Action: r.SessionLanguage,
			},
			{
				Name:   "show",
				Usage:  "Print the current session settings",
				Action: r.SessionShow,
			},
		},
	}
}

// songsCommand searches the venue catalog.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Browse the song catalog",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "language",
						Usage: "Filter by language (all, it, en)",
						Value: "all",
					},
					&cli.StringFlag{
						Name:  "letter",
						Usage: "Filter by starting letter",
						Value: "All",
					},
					&cli.StringFlag{
						Name:  "sort-by",
						Usage: "Sort field (title or author)",
						Value: "title",
					},
					&cli.StringFlag{
						Name:  "sort-order",
						Usage: "Sort order (asc or desc)",
						Value: "asc",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Result page",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SongsSearch,
			},
		},
	}
}

// queueCommand shows, watches, and exports the live request queue.
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Show the live request queue",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Refresh the queue until interrupted",
			},
		},
		Action: r.QueueShow,
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export a queue snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text, json)",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout when omitted)",
					},
				},
				Action: r.QueueExport,
			},
		},
	}
}

// requestCommand submits a song request, with an optional tip.
func requestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "request",
		Usage: "Request a song by id",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "song-id"},
		},
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "tip",
				Usage: "Tip amount in euros to attach to the request",
			},
		},
		Action: r.Request,
		Commands: []*cli.Command{
			{
				Name:  "remove",
				Usage: "Remove one of your requests",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "song-id"},
				},
				Action: r.RequestRemove,
			},
			{
				Name:  "list",
				Usage: "List your outstanding requests",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RequestList,
			},
		},
	}
}

// tipCommand sends a standalone tip with no song attached.
func tipCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tip",
		Usage: "Send a tip without requesting a song",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "amount"},
		},
		Action: r.Tip,
	}
}

// adminCommand groups the venue-owner operations. They need an imported
// admin session to succeed.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Venue owner operations",
		Commands: []*cli.Command{
			{
				Name:  "import-session",
				Usage: "Import an admin session from a browser cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "curl-file",
						Usage:    "Path to a file containing the copied cURL command",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to save the imported session",
						Value:   adminSessionPath,
					},
				},
				Action: r.AdminImportSession,
			},
			{
				Name:  "delete-song",
				Usage: "Remove a song from the queue",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "song-id"},
				},
				Action: r.AdminDeleteSong,
			},
			{
				Name:   "delete-all",
				Usage:  "Clear the whole request queue",
				Action: r.AdminDeleteAll,
			},
			{
				Name:  "max-requests",
				Usage: "Set the per-user request cap",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "max"},
				},
				Action: r.AdminMaxRequests,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "admin",
				Usage: "Enable queue management keys",
			},
		},
		Action: r.TUI,
	}
}
