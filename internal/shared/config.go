package shared

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Site        SiteConfig        `toml:"site"`
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// SiteConfig contains page naming and admin command dispatch settings.
type SiteConfig struct {
	Name        string `toml:"name"`
	AdminPrefix string `toml:"admin_prefix"`
	AdminParam  string `toml:"admin_param"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and the token cache location.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	CachePath    string `toml:"cache_path"`
}

// DatabaseConfig contains queue log database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string  `toml:"host"`
	Port         int     `toml:"port"`
	RedirectPort int     `toml:"redirect_port"`
	RateLimit    float64 `toml:"rate_limit"`
	RateBurst    int     `toml:"rate_burst"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Environment variable overrides are applied after parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
//
// Environment variable overrides are applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
	return &config
}

// ApplyEnv overlays CAST_* environment variables onto the configuration.
//
// Recognised variables: CAST_CLIENT_ID, CAST_CLIENT_SECRET, CAST_PORT, CAST_REDIRECT_PORT.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CAST_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("CAST_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("CAST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("CAST_REDIRECT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.RedirectPort = port
		}
	}
}

// RedirectURI returns the OAuth2 redirect URI derived from the redirect port.
//
// This must match the redirect URI registered in the Spotify developer dashboard.
func (c *Config) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", c.Server.RedirectPort)
}

// Map converts Spotify credentials into the map form expected by services.NewSpotifyService.
func (s SpotifyConfig) Map(redirectURI string) map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  redirectURI,
		"cache_path":    s.CachePath,
	}
}

// Validate checks that required credential fields are present.
func (c *Config) Validate() error {
	if c.Credentials.Spotify.ClientID == "" || c.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: client_id and client_secret must be set (config.toml or CAST_CLIENT_ID/CAST_CLIENT_SECRET)", ErrMissingCredentials)
	}
	return nil
}

// SaveConfig writes the configuration back to a TOML file.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, os.ErrExist)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadToken reads a cached [oauth2.Token] from the token cache file.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read token cache: %v", ErrNotAuthenticated, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: failed to parse token cache: %v", ErrNotAuthenticated, err)
	}

	return &token, nil
}

// SaveToken writes an [oauth2.Token] to the token cache file with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := MarshalJSON(token, true)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}

	return nil
}
