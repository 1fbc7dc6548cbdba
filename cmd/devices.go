package main

import (
	"context"
	"fmt"

	"github.com/salterb/cast/internal/shared"
	"github.com/urfave/cli/v3"
)

// Devices lists the Spotify Connect devices registered to the authorized account.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	config := r.loadConfig(cmd)

	player, err := r.authenticatedPlayer(ctx, config)
	if err != nil {
		return err
	}

	r.logger.Info("listing devices")

	devices, err := player.Devices(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(devices, pretty)
	}

	if len(devices) == 0 {
		r.writePlain("No devices registered. Open Spotify on a device to register it.\n")
		return nil
	}

	r.writePlain("Found %d devices:\n\n", len(devices))
	for i, d := range devices {
		r.writePlain("%d. %s\n", i+1, d.Name)
		r.writePlain("   Type: %s\n", d.Type)
		if d.Active {
			r.writePlain("   Active: yes\n")
		} else {
			r.writePlain("   Active: no\n")
		}
		r.writePlain("   Volume: %d%%\n\n", d.Volume)
	}

	return nil
}

func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List Spotify Connect devices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
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
		Action: r.Devices,
	}
}
