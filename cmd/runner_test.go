package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salterb/cast/internal/services"
	"github.com/salterb/cast/internal/shared"
	tu "github.com/salterb/cast/internal/testing"
	"github.com/urfave/cli/v3"
)

func testRunner(player services.Player) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	runner := NewRunner(RunnerOpts{
		Player: player,
		Logger: shared.NewLogger(io.Discard),
		Output: &buf,
	})
	return runner, &buf
}

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	root := &cli.Command{Name: "cast", Commands: r.register()}
	return root.Run(context.Background(), append([]string{"cast"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner Defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil {
			t.Error("expected default config")
		}
		if runner.logger == nil {
			t.Error("expected default logger")
		}
		if runner.output == nil {
			t.Error("expected default output writer")
		}
	})

	t.Run("Register", func(t *testing.T) {
		runner, _ := testRunner(nil)
		commands := runner.register()

		if len(commands) != 5 {
			t.Fatalf("expected 5 commands, got %d", len(commands))
		}

		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"serve", "auth", "setup", "devices", "history"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		runner, buf := testRunner(nil)

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "hello world" {
			t.Errorf("unexpected output %q", buf.String())
		}

		t.Run("Write Failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: shared.NewLogger(io.Discard),
				Output: &tu.FWriter{},
			})
			if err := runner.writePlain("hello"); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlainln", func(t *testing.T) {
		runner, buf := testRunner(nil)

		if err := runner.writePlainln("done"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "\ndone\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		runner, buf := testRunner(nil)

		if err := runner.writeJSON(map[string]int{"n": 1}, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "{\"n\":1}\n" {
			t.Errorf("unexpected output %q", buf.String())
		}

		t.Run("Write Failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: shared.NewLogger(io.Discard),
				Output: &tu.FWriter{},
			})
			if err := runner.writeJSON(map[string]int{"n": 1}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("Devices Command", func(t *testing.T) {
		t.Run("Plain Output", func(t *testing.T) {
			player := &tu.MockPlayer{
				DevicesFunc: func(ctx context.Context) ([]services.Device, error) {
					return []services.Device{
						{ID: "d1", Name: "Kitchen Speaker", Type: "Speaker", Active: true, Volume: 55},
					}, nil
				},
			}
			runner, buf := testRunner(player)

			if err := runCommand(t, runner, "devices"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			out := buf.String()
			if !strings.Contains(out, "Kitchen Speaker") {
				t.Errorf("expected device name in output, got %q", out)
			}
			if !strings.Contains(out, "Active: yes") {
				t.Errorf("expected active marker in output, got %q", out)
			}
		})

		t.Run("JSON Output", func(t *testing.T) {
			player := &tu.MockPlayer{
				DevicesFunc: func(ctx context.Context) ([]services.Device, error) {
					return []services.Device{{ID: "d1", Name: "Laptop", Type: "Computer"}}, nil
				},
			}
			runner, buf := testRunner(player)

			if err := runCommand(t, runner, "devices", "--json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(buf.String(), `"name":"Laptop"`) {
				t.Errorf("expected JSON device list, got %q", buf.String())
			}
		})

		t.Run("No Devices", func(t *testing.T) {
			runner, buf := testRunner(&tu.MockPlayer{})

			if err := runCommand(t, runner, "devices"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(buf.String(), "No devices registered") {
				t.Errorf("expected empty-list message, got %q", buf.String())
			}
		})

		t.Run("API Failure", func(t *testing.T) {
			player := &tu.MockPlayer{
				DevicesFunc: func(ctx context.Context) ([]services.Device, error) {
					return nil, errors.New("upstream down")
				},
			}
			runner, _ := testRunner(player)

			err := runCommand(t, runner, "devices")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Setup Command", func(t *testing.T) {
		wd := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		defer tu.MustChdir(t, wd)

		runner, buf := testRunner(nil)

		if err := runCommand(t, runner, "setup"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, "config.toml")
		tu.AssertFileExists(t, "cast.db")

		if !strings.Contains(buf.String(), "Setup complete") {
			t.Errorf("expected completion message, got %q", buf.String())
		}

		t.Run("History After Setup", func(t *testing.T) {
			runner, buf := testRunner(nil)

			if err := runCommand(t, runner, "history"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(buf.String(), "Nothing has been queued yet") {
				t.Errorf("expected empty history message, got %q", buf.String())
			}
		})
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("Prefers Flag Config", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			config := shared.DefaultConfig()
			config.Site.Name = "Flag Config"
			if err := shared.SaveConfig(path, config); err != nil {
				t.Fatalf("failed to save config: %v", err)
			}

			player := &tu.MockPlayer{}
			runner, buf := testRunner(player)

			if err := runCommand(t, runner, "devices", "--config", path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(buf.String(), "No devices registered") {
				t.Errorf("expected command to run with flag config, got %q", buf.String())
			}
		})

		t.Run("Falls Back To Runner Config", func(t *testing.T) {
			dbPath := filepath.Join(t.TempDir(), "runner.db")

			config := shared.DefaultConfig()
			config.Database.Path = dbPath

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: shared.NewLogger(io.Discard),
				Output: io.Discard,
			})

			if err := runCommand(t, runner, "history"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			tu.AssertFileExists(t, dbPath)
		})
	})
}
