package services

import (
	"context"

	"golang.org/x/oauth2"
)

// Player defines the interface for a playback service that can resolve search
// queries to tracks and mutate the active device's queue and playback state.
type Player interface {
	// Search resolves a free-text query to the best matching track.
	// Returns shared.ErrNoResults when nothing matches.
	Search(ctx context.Context, query string) (*Track, error)

	// QueueTrack appends a track to the active device's queue by URI.
	QueueTrack(ctx context.Context, uri string) error

	// PlayTrack starts immediate playback of a track, interrupting whatever is playing.
	PlayTrack(ctx context.Context, uri string) error

	// Skip advances playback to the next track in the queue.
	Skip(ctx context.Context) error

	// Pause pauses playback on the active device.
	Pause(ctx context.Context) error

	// Resume resumes playback on the active device.
	Resume(ctx context.Context) error

	// SetShuffle toggles shuffle mode on the active device.
	SetShuffle(ctx context.Context, on bool) error

	// CurrentlyPlaying returns the track currently playing, or shared.ErrNotPlaying.
	CurrentlyPlaying(ctx context.Context) (*Track, error)

	// Devices lists the devices registered with the service.
	Devices(ctx context.Context) ([]Device, error)

	// ActiveDevice returns the device currently eligible for playback commands,
	// or shared.ErrNoActiveDevice when none is active.
	ActiveDevice(ctx context.Context) (*Device, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthPlayer extends Player for services authenticated via OAuth2.
type OAuthPlayer interface {
	Player

	// GetAuthURL returns the authorization URL for the given CSRF state token.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 configuration for callback handling.
	GetOAuthConfig() *oauth2.Config

	// UseToken installs a token pair and builds an auto-refreshing client around it.
	UseToken(ctx context.Context, token *oauth2.Token) error

	// SetTokenRefreshCallback registers a callback invoked when the access token changes,
	// so refreshed tokens can be persisted.
	SetTokenRefreshCallback(fn func(*oauth2.Token))
}

// Track represents a music track from any service
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	URI      string `json:"uri"`
	Duration int    `json:"duration"` // Duration in seconds
}

// Device represents a playback target registered with the service
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
	Volume int    `json:"volume"`
}
