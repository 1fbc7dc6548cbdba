// Package services provides the playback service abstraction and its Spotify implementation.
//
// # Player Interface
//
// The [Player] interface covers everything the web handler needs from a streaming
// service: resolving a search query to a single track, queue mutation, and the
// playback controls behind the admin command set.
//
// The [OAuthPlayer] interface extends Player for OAuth2 providers, exposing the
// authorization URL and token installation used by the auth command and the
// callback server.
//
// # Spotify
//
// [SpotifyService] talks to the Spotify Web API (https://api.spotify.com/v1)
// through an [oauth2]-managed HTTP client. Tokens auto-refresh via the standard
// token source; a refreshableTokenSource wrapper detects access token changes
// and invokes a persistence callback so the on-disk token cache stays current.
//
// API failures are mapped onto the sentinel errors in internal/shared:
// NO_ACTIVE_DEVICE responses become shared.ErrNoActiveDevice, 401 becomes
// shared.ErrTokenExpired, 429 becomes shared.ErrRateLimited, and transport
// failures become shared.ErrAPIRequest. Callers match with [errors.Is].
package services
