package main

import (
	"context"
	"fmt"

	"github.com/salterb/cast/internal/queuelog"
	"github.com/salterb/cast/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists recently queued tracks from the queue log.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	config := r.loadConfig(cmd)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open queue log database: %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ql := queuelog.NewQueueLog(db)
	entries, err := ql.Recent(int(limit))
	if err != nil {
		return fmt.Errorf("failed to read queue log: %w", err)
	}

	if useJSON {
		return r.writeJSON(entries, pretty)
	}

	if len(entries) == 0 {
		r.writePlain("Nothing has been queued yet.\n")
		return nil
	}

	r.writePlain("Last %d queued tracks:\n\n", len(entries))
	for i, e := range entries {
		r.writePlain("%d. %s", i+1, e.Title)
		if e.Artist != "" {
			r.writePlain(" - %s", e.Artist)
		}
		r.writePlain("\n")
		r.writePlain("   Queued at: %s\n", e.QueuedAt.Local().Format("2006-01-02 15:04:05"))
		if e.ClientIP != "" {
			r.writePlain("   Requested by: %s\n", e.ClientIP)
		}
		r.writePlain("\n")
	}

	return nil
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recently queued tracks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries to show",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.History,
	}
}
