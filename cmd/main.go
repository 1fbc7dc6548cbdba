package main

import (
	"context"
	"errors"
	"os"

	"github.com/salterb/cast/internal/services"
	"github.com/salterb/cast/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var player services.Player
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map(config.RedirectURI())); err == nil {
			player = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Player: player,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "cast",
		Usage:    "Collaborative Addition of Spotify Tunes - a shared queue for your LAN",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not authenticated - run 'cast auth' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
