package server

import (
	"fmt"
	"strings"

	"github.com/salterb/cast/internal/shared"
)

// AdminAction enumerates the privileged commands reachable through the admin
// query parameter or the admin prefix on the search form.
type AdminAction int

const (
	ActionPause AdminAction = iota
	ActionResume
	ActionSkip
	ActionCurrent
	ActionShuffleOn
	ActionShuffleOff
	ActionDevices
	ActionQueue // queue a track even if the log says it was queued before
	ActionForce // play a track immediately, interrupting the current one
)

// String returns the canonical verb for an action.
func (a AdminAction) String() string {
	switch a {
	case ActionPause:
		return "pause"
	case ActionResume:
		return "resume"
	case ActionSkip:
		return "skip"
	case ActionCurrent:
		return "current"
	case ActionShuffleOn:
		return "shuffle"
	case ActionShuffleOff:
		return "noshuffle"
	case ActionDevices:
		return "devices"
	case ActionQueue:
		return "queue"
	case ActionForce:
		return "force"
	}
	return "unknown"
}

// AdminCommand is a parsed admin action plus its argument, if the verb takes one.
type AdminCommand struct {
	Action AdminAction
	Arg    string
}

// ParseAdminCommand parses a raw admin string into an AdminCommand.
//
// The verb is case-insensitive. "queue" and "force" require a search term
// argument; other verbs ignore trailing text.
func ParseAdminCommand(input string) (*AdminCommand, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty admin command", shared.ErrInvalidInput)
	}

	verb := input
	arg := ""
	if i := strings.IndexByte(input, ' '); i >= 0 {
		verb = input[:i]
		arg = strings.TrimSpace(input[i+1:])
	}

	var action AdminAction
	switch strings.ToLower(verb) {
	case "pause":
		action = ActionPause
	case "resume", "play":
		action = ActionResume
	case "skip", "next":
		action = ActionSkip
	case "current":
		action = ActionCurrent
	case "shuffle", "shuffleon":
		action = ActionShuffleOn
	case "noshuffle", "shuffleoff":
		action = ActionShuffleOff
	case "devices":
		action = ActionDevices
	case "queue":
		action = ActionQueue
	case "force":
		action = ActionForce
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownAction, verb)
	}

	if (action == ActionQueue || action == ActionForce) && arg == "" {
		return nil, fmt.Errorf("%w: %q requires a search term", shared.ErrMissingArgument, verb)
	}

	return &AdminCommand{Action: action, Arg: arg}, nil
}
