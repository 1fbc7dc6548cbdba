package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/salterb/cast/internal/queuelog"
	"github.com/salterb/cast/internal/server"
	"github.com/salterb/cast/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Serve runs the CAST web server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	player, err := r.authenticatedPlayer(ctx, config)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return fmt.Errorf("%w: run 'cast auth' to cache Spotify tokens", shared.ErrNotAuthenticated)
		}
		return err
	}

	var ql *queuelog.QueueLog
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		// The queue log is advisory. Without it CAST still queues, it just
		// cannot suppress duplicates or serve history.
		r.logger.Warn("queue log unavailable, duplicate suppression disabled", "error", err)
	} else {
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			r.logger.Warn("queue log migrations failed, duplicate suppression disabled", "error", err)
		} else {
			ql = queuelog.NewQueueLog(db)
		}
	}

	if device, err := player.ActiveDevice(ctx); err == nil {
		r.logger.Info("active device", "name", device.Name, "type", device.Type)
	} else if errors.Is(err, shared.ErrNoActiveDevice) {
		r.logger.Warn("no active Spotify device - start playback somewhere before queuing")
	} else {
		r.logger.Warn("could not check active device", "error", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(shared.WithLogger(r.logger, "component", "http")))
	if config.Server.RateLimit > 0 {
		router.Use(server.RateLimit(rate.Limit(config.Server.RateLimit), config.Server.RateBurst))
	}
	router.Handler(server.NewCastHandler(player, ql, config, r.logger))

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting CAST server on %v", addr)
		r.writePlain("CAST is listening on port %d. Point your browser at this machine.\n", config.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-signalCtx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	return nil
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the CAST web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Serve,
	}
}
