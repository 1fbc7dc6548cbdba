package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/salterb/cast/internal/queuelog"
	"github.com/salterb/cast/internal/services"
	"github.com/salterb/cast/internal/shared"
)

// CastHandler serves the search form and dispatches search-and-queue requests
// and admin commands. Implements the Handler interface.
//
// Every external failure is caught here and rendered as a human-readable
// message; no request can take the server down.
type CastHandler struct {
	player services.Player
	log    *queuelog.QueueLog
	config *shared.Config
	logger *log.Logger
}

// NewCastHandler creates the main request handler.
//
// The queue log may be nil, in which case duplicate suppression is disabled.
func NewCastHandler(player services.Player, ql *queuelog.QueueLog, config *shared.Config, logger *log.Logger) *CastHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CastHandler{
		player: player,
		log:    ql,
		config: config,
		logger: logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CastHandler) Routes() []string {
	return []string{"/", "/favicon.ico"}
}

// ServeHTTP dispatches a GET request based on its query parameters.
//
//	no parameters        → landing page
//	search=<text>        → search-and-queue (or admin, with the admin prefix)
//	<admin_param>=<text> → admin command
func (h *CastHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/favicon.ico" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()

	if admin := query.Get(h.adminParam()); admin != "" {
		h.handleAdmin(w, r, admin)
		return
	}

	search := query.Get("search")
	if search == "" {
		renderPage(w, PageData{SiteName: h.siteName(), Message: "Hello!"})
		return
	}

	if prefix := h.config.Site.AdminPrefix; prefix != "" && strings.HasPrefix(search, prefix) {
		h.handleAdmin(w, r, strings.TrimPrefix(search, prefix))
		return
	}

	h.searchAndQueue(w, r, search, true)
}

func (h *CastHandler) siteName() string {
	if h.config.Site.Name != "" {
		return h.config.Site.Name
	}
	return "CAST"
}

func (h *CastHandler) adminParam() string {
	if h.config.Site.AdminParam != "" {
		return h.config.Site.AdminParam
	}
	return "admin"
}

// searchAndQueue resolves the query to a track and appends it to the queue.
//
// With checkQueue set, tracks already present in the queue log are skipped.
func (h *CastHandler) searchAndQueue(w http.ResponseWriter, r *http.Request, query string, checkQueue bool) {
	ctx := r.Context()

	track, err := h.player.Search(ctx, query)
	if err != nil {
		if errors.Is(err, shared.ErrNoResults) {
			renderPage(w, PageData{
				SiteName: h.siteName(),
				Message:  fmt.Sprintf("No results found for %q.", query),
			})
			return
		}
		h.renderError(w, "Search failed", err)
		return
	}

	if checkQueue && h.log != nil {
		queued, err := h.log.IsQueued(track.URI)
		if err != nil {
			h.logger.Warn("queue log check failed", "error", err)
		} else if queued {
			renderPage(w, PageData{
				SiteName: h.siteName(),
				Message:  fmt.Sprintf("%s has already been queued.", track.Title),
			})
			return
		}
	}

	if err := h.player.QueueTrack(ctx, track.URI); err != nil {
		h.renderError(w, "Error queuing track", err)
		return
	}

	h.record(track, ClientIP(r))

	h.logger.Info("queued track", "title", track.Title, "artist", track.Artist, "client", ClientIP(r))
	renderPage(w, PageData{
		SiteName: h.siteName(),
		Message:  "Queued:",
		Lines:    trackLines(track),
	})
}

// record writes a queue log entry. Log failures are non-fatal.
func (h *CastHandler) record(track *services.Track, clientIP string) {
	if h.log == nil {
		return
	}

	entry := &queuelog.Entry{
		TrackURI: track.URI,
		Title:    track.Title,
		Artist:   track.Artist,
		Album:    track.Album,
		ClientIP: clientIP,
	}
	if err := h.log.Record(entry); err != nil {
		h.logger.Warn("failed to record queued track", "error", err)
	}
}

// handleAdmin parses and executes a privileged command, rendering a minimal acknowledgment.
func (h *CastHandler) handleAdmin(w http.ResponseWriter, r *http.Request, raw string) {
	ctx := r.Context()

	cmd, err := ParseAdminCommand(raw)
	if err != nil {
		renderPage(w, PageData{
			SiteName: h.siteName(),
			Message:  fmt.Sprintf("Unrecognised admin action: %s", strings.TrimSpace(raw)),
			IsError:  true,
		})
		return
	}

	h.logger.Info("admin command", "action", cmd.Action.String(), "client", ClientIP(r))

	switch cmd.Action {
	case ActionPause:
		h.ack(w, h.player.Pause(ctx), "Playback paused.")
	case ActionResume:
		h.ack(w, h.player.Resume(ctx), "Playback resumed.")
	case ActionSkip:
		h.ack(w, h.player.Skip(ctx), "Skipped to next track.")
	case ActionShuffleOn:
		h.ack(w, h.player.SetShuffle(ctx, true), "Shuffle on.")
	case ActionShuffleOff:
		h.ack(w, h.player.SetShuffle(ctx, false), "Shuffle off.")
	case ActionCurrent:
		h.showCurrent(w, ctx)
	case ActionDevices:
		h.showDevices(w, ctx)
	case ActionQueue:
		h.searchAndQueue(w, r, cmd.Arg, false)
	case ActionForce:
		h.forcePlay(w, ctx, cmd.Arg)
	}
}

// ack renders a one-line acknowledgment, or the error page when the command failed.
func (h *CastHandler) ack(w http.ResponseWriter, err error, message string) {
	if err != nil {
		h.renderError(w, "Command failed", err)
		return
	}
	renderPage(w, PageData{SiteName: h.siteName(), Message: message})
}

func (h *CastHandler) showCurrent(w http.ResponseWriter, ctx context.Context) {
	track, err := h.player.CurrentlyPlaying(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotPlaying) {
			renderPage(w, PageData{SiteName: h.siteName(), Message: "Nothing is currently playing."})
			return
		}
		h.renderError(w, "Command failed", err)
		return
	}

	renderPage(w, PageData{
		SiteName: h.siteName(),
		Message:  "Currently playing:",
		Lines:    trackLines(track),
	})
}

func (h *CastHandler) showDevices(w http.ResponseWriter, ctx context.Context) {
	devices, err := h.player.Devices(ctx)
	if err != nil {
		h.renderError(w, "Command failed", err)
		return
	}

	if len(devices) == 0 {
		renderPage(w, PageData{SiteName: h.siteName(), Message: "No devices registered."})
		return
	}

	lines := make([]string, 0, len(devices))
	for _, d := range devices {
		line := fmt.Sprintf("%s (%s)", d.Name, d.Type)
		if d.Active {
			line += " [active]"
		}
		lines = append(lines, line)
	}

	renderPage(w, PageData{SiteName: h.siteName(), Message: "Devices:", Lines: lines})
}

func (h *CastHandler) forcePlay(w http.ResponseWriter, ctx context.Context, query string) {
	track, err := h.player.Search(ctx, query)
	if err != nil {
		if errors.Is(err, shared.ErrNoResults) {
			renderPage(w, PageData{
				SiteName: h.siteName(),
				Message:  fmt.Sprintf("Failed to find track %q.", query),
			})
			return
		}
		h.renderError(w, "Search failed", err)
		return
	}

	if err := h.player.PlayTrack(ctx, track.URI); err != nil {
		h.renderError(w, "Command failed", err)
		return
	}

	renderPage(w, PageData{
		SiteName: h.siteName(),
		Message:  fmt.Sprintf("Forcing playback of %s.", track.Title),
	})
}

// renderError maps service failures onto the messages users see.
//
// Authentication, no active device, rate limiting, and network failures
// each get a distinct message.
func (h *CastHandler) renderError(w http.ResponseWriter, what string, err error) {
	h.logger.Error(what, "error", err)

	var message string
	switch {
	case errors.Is(err, shared.ErrNoActiveDevice):
		message = "No active Spotify device. Start playback on a device first, then try again."
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrTokenExpired), errors.Is(err, shared.ErrAuthFailed):
		message = "CAST is not authenticated with Spotify. Ask the operator to run 'cast auth'."
	case errors.Is(err, shared.ErrRateLimited):
		message = "Spotify is rate limiting us. Wait a moment and resubmit."
	case errors.Is(err, shared.ErrAPIRequest):
		message = "Could not reach Spotify. Check the network and resubmit."
	default:
		message = fmt.Sprintf("%s: %v", what, err)
	}

	renderPage(w, PageData{SiteName: h.siteName(), Message: message, IsError: true})
}
