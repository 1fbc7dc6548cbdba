package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/salterb/cast/internal/services"
	"github.com/salterb/cast/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	player services.Player
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Player services.Player
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		player: opts.Player,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, authCommand, setupCommand, devicesCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the effective configuration for a command invocation.
//
// The --config flag takes priority; a Runner-level config comes next;
// otherwise defaults (with CAST_* env overrides) apply.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if config, err := shared.LoadConfig(configPath); err == nil {
				return config
			} else {
				r.logger.Warnf("failed to load config, using defaults %v", err)
			}
		}
	}

	if r.config != nil {
		return r.config
	}

	return shared.DefaultConfig()
}

// authenticatedPlayer returns a Player with cached tokens installed.
//
// Refreshed tokens are written back to the token cache file.
func (r *Runner) authenticatedPlayer(ctx context.Context, config *shared.Config) (services.Player, error) {
	player := r.player
	if player == nil {
		if err := config.Validate(); err != nil {
			return nil, err
		}

		svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map(config.RedirectURI()))
		if err != nil {
			return nil, fmt.Errorf("failed to create Spotify service: %w", err)
		}
		player = svc
	}

	oauthPlayer, ok := player.(services.OAuthPlayer)
	if !ok {
		// Injected test doubles manage their own credentials.
		return player, nil
	}

	cachePath := config.Credentials.Spotify.CachePath
	token, err := shared.LoadToken(cachePath)
	if err != nil {
		return nil, err
	}

	oauthPlayer.SetTokenRefreshCallback(func(refreshed *oauth2.Token) {
		if err := shared.SaveToken(cachePath, refreshed); err != nil {
			r.logger.Warn("failed to persist refreshed token", "error", err)
		} else {
			r.logger.Debug("persisted refreshed token", "path", cachePath)
		}
	})

	if err := oauthPlayer.UseToken(ctx, token); err != nil {
		return nil, err
	}

	r.player = player
	return player, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
