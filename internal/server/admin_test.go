package server

import (
	"errors"
	"testing"

	"github.com/salterb/cast/internal/shared"
)

func TestParseAdminCommand(t *testing.T) {
	t.Run("recognised verbs", func(t *testing.T) {
		cases := []struct {
			input  string
			action AdminAction
			arg    string
		}{
			{"pause", ActionPause, ""},
			{"resume", ActionResume, ""},
			{"play", ActionResume, ""},
			{"skip", ActionSkip, ""},
			{"next", ActionSkip, ""},
			{"current", ActionCurrent, ""},
			{"shuffle", ActionShuffleOn, ""},
			{"shuffleon", ActionShuffleOn, ""},
			{"noshuffle", ActionShuffleOff, ""},
			{"shuffleoff", ActionShuffleOff, ""},
			{"devices", ActionDevices, ""},
			{"queue never gonna give you up", ActionQueue, "never gonna give you up"},
			{"force bohemian rhapsody", ActionForce, "bohemian rhapsody"},
			{"SKIP", ActionSkip, ""},
			{"  pause  ", ActionPause, ""},
			{"Queue Mr. Blue Sky", ActionQueue, "Mr. Blue Sky"},
		}

		for _, tc := range cases {
			t.Run(tc.input, func(t *testing.T) {
				cmd, err := ParseAdminCommand(tc.input)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if cmd.Action != tc.action {
					t.Errorf("expected action %v, got %v", tc.action, cmd.Action)
				}
				if cmd.Arg != tc.arg {
					t.Errorf("expected arg %q, got %q", tc.arg, cmd.Arg)
				}
			})
		}
	})

	t.Run("unknown verb", func(t *testing.T) {
		_, err := ParseAdminCommand("selfdestruct")
		if !errors.Is(err, shared.ErrUnknownAction) {
			t.Errorf("expected ErrUnknownAction, got %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseAdminCommand("   ")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("queue requires a search term", func(t *testing.T) {
		_, err := ParseAdminCommand("queue")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("force requires a search term", func(t *testing.T) {
		_, err := ParseAdminCommand("force  ")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("String covers every action", func(t *testing.T) {
		actions := []AdminAction{
			ActionPause, ActionResume, ActionSkip, ActionCurrent,
			ActionShuffleOn, ActionShuffleOff, ActionDevices, ActionQueue, ActionForce,
		}
		for _, a := range actions {
			if a.String() == "unknown" {
				t.Errorf("action %d has no string form", a)
			}
		}
	})
}
