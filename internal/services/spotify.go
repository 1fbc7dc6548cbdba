package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/salterb/cast/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Response types based on https://developer.spotify.com/documentation/web-api/reference/

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifySearchResult represents the track portion of a search response.
type SpotifySearchResult struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
	} `json:"tracks"`
}

// SpotifyDevice represents a Spotify Connect device.
type SpotifyDevice struct {
	ID            string `json:"id"`
	IsActive      bool   `json:"is_active"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	VolumePercent int    `json:"volume_percent"`
}

// SpotifyCurrentlyPlaying represents the currently playing response.
type SpotifyCurrentlyPlaying struct {
	Item      *SpotifyTrack `json:"item"`
	IsPlaying bool          `json:"is_playing"`
}

// spotifyError represents the error envelope Spotify wraps failures in.
type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}

// SpotifyService implements the Player interface for Spotify API interactions.
// Uses [oauth2] for authentication and provides playback queue and device operations.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	credentials    map[string]string
	onTokenRefresh func(*oauth2.Token)
	mu             sync.Mutex
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:9999/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-playback-state",
			"user-modify-playback-state",
			"user-read-currently-playing",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:      config,
		httpClient:  http.DefaultClient,
		credentials: credentials,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig returns the underlying OAuth2 configuration.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers a callback invoked whenever the access token changes.
//
// Used to persist refreshed tokens back to the cache file.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokenRefresh = fn
}

// UseToken installs a token pair and builds an auto-refreshing HTTP client around it.
//
// Refreshed tokens flow through the registered refresh callback.
func (s *SpotifyService) UseToken(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.notifyTokenRefresh,
	}
	s.httpClient = oauth2.NewClient(ctx, source)
	return nil
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		return s.UseToken(ctx, &oauth2.Token{AccessToken: accessToken})
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		return s.UseToken(ctx, token)
	}

	return fmt.Errorf("%w: missing access_token or auth_code in credentials", shared.ErrMissingCredentials)
}

func (s *SpotifyService) notifyTokenRefresh(token *oauth2.Token) {
	s.mu.Lock()
	s.token = token
	fn := s.onTokenRefresh
	s.mu.Unlock()

	if fn != nil {
		fn(token)
	}
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// A nil result skips response decoding (player commands return 204 No Content).
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	s.mu.Lock()
	client := s.httpClient
	authenticated := s.token != nil
	s.mu.Unlock()

	if !authenticated {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.mapAPIError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// mapAPIError converts a Spotify error response into one of the shared sentinel errors.
func (s *SpotifyService) mapAPIError(resp *http.Response) error {
	var apiErr spotifyError
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	switch {
	case apiErr.Error.Reason == "NO_ACTIVE_DEVICE":
		return fmt.Errorf("%w: %s", shared.ErrNoActiveDevice, apiErr.Error.Message)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrTokenExpired, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", shared.ErrRateLimited, resp.StatusCode)
	}

	if apiErr.Error.Message != "" {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
}

// Search resolves a free-text query to the top matching track.
func (s *SpotifyService) Search(ctx context.Context, query string) (*Track, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=1", url.QueryEscape(query))

	var result SpotifySearchResult
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	if len(result.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrNoResults, query)
	}

	track := toTrack(&result.Tracks.Items[0])
	return &track, nil
}

// QueueTrack appends the track with the given URI to the active device's queue.
func (s *SpotifyService) QueueTrack(ctx context.Context, uri string) error {
	endpoint := fmt.Sprintf("/me/player/queue?uri=%s", url.QueryEscape(uri))
	return s.doRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// PlayTrack starts immediate playback of the track with the given URI.
func (s *SpotifyService) PlayTrack(ctx context.Context, uri string) error {
	body := map[string]any{"uris": []string{uri}}
	return s.doRequest(ctx, http.MethodPut, "/me/player/play", body, nil)
}

// Skip advances playback to the next track.
func (s *SpotifyService) Skip(ctx context.Context) error {
	return s.doRequest(ctx, http.MethodPost, "/me/player/next", nil, nil)
}

// Pause pauses playback on the active device.
func (s *SpotifyService) Pause(ctx context.Context) error {
	return s.doRequest(ctx, http.MethodPut, "/me/player/pause", nil, nil)
}

// Resume resumes playback on the active device.
func (s *SpotifyService) Resume(ctx context.Context) error {
	return s.doRequest(ctx, http.MethodPut, "/me/player/play", nil, nil)
}

// SetShuffle toggles shuffle mode on the active device.
func (s *SpotifyService) SetShuffle(ctx context.Context, on bool) error {
	endpoint := fmt.Sprintf("/me/player/shuffle?state=%t", on)
	return s.doRequest(ctx, http.MethodPut, endpoint, nil, nil)
}

// CurrentlyPlaying returns the track currently playing on the active device.
func (s *SpotifyService) CurrentlyPlaying(ctx context.Context) (*Track, error) {
	var result SpotifyCurrentlyPlaying
	if err := s.doRequest(ctx, http.MethodGet, "/me/player/currently-playing", nil, &result); err != nil {
		return nil, err
	}

	// Spotify returns 204 with an empty body when nothing is playing
	if result.Item == nil {
		return nil, shared.ErrNotPlaying
	}

	track := toTrack(result.Item)
	return &track, nil
}

// Devices lists the Spotify Connect devices registered to the user.
func (s *SpotifyService) Devices(ctx context.Context) ([]Device, error) {
	var result struct {
		Devices []SpotifyDevice `json:"devices"`
	}

	if err := s.doRequest(ctx, http.MethodGet, "/me/player/devices", nil, &result); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(result.Devices))
	for _, d := range result.Devices {
		devices = append(devices, Device{
			ID:     d.ID,
			Name:   d.Name,
			Type:   d.Type,
			Active: d.IsActive,
			Volume: d.VolumePercent,
		})
	}

	return devices, nil
}

// ActiveDevice returns the device currently eligible for playback commands.
func (s *SpotifyService) ActiveDevice(ctx context.Context) (*Device, error) {
	devices, err := s.Devices(ctx)
	if err != nil {
		return nil, err
	}

	for _, d := range devices {
		if d.Active {
			return &d, nil
		}
	}

	return nil, shared.ErrNoActiveDevice
}

// toTrack converts a Spotify track payload into the service-agnostic Track model.
func toTrack(st *SpotifyTrack) Track {
	track := Track{
		ID:       st.ID,
		Title:    st.Name,
		Album:    st.Album.Name,
		URI:      st.URI,
		Duration: st.DurationMS / 1000,
	}

	if len(st.Artists) > 0 {
		track.Artist = st.Artists[0].Name
	}

	return track
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and invokes a callback when the access token changes.
type refreshableTokenSource struct {
	source    oauth2.TokenSource
	callback  func(*oauth2.Token)
	mu        sync.Mutex
	lastToken string
}

// Token returns a valid token, refreshing through the wrapped source as needed.
func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.lastToken
	if changed {
		r.lastToken = token.AccessToken
	}
	r.mu.Unlock()

	if changed && r.callback != nil {
		func() {
			defer func() { _ = recover() }()
			r.callback(token)
		}()
	}

	return token, nil
}
