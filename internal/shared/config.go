package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	PayPal   PayPalConfig   `toml:"paypal"`
	Session  SessionConfig  `toml:"session"`
	Polling  PollingConfig  `toml:"polling"`
	Branding BrandingConfig `toml:"branding"`
}

// BackendConfig contains the song-request backend connection settings.
type BackendConfig struct {
	BaseURL string `toml:"base_url"`
	Tenant  string `toml:"tenant"`
}

// PayPalConfig contains the PayPal REST credentials used to capture tips.
//
// ClientID and Mode normally arrive per tip intent from the backend; the
// secret is local-only and may also come from the PAYPAL_CLIENT_SECRET
// environment variable.
type PayPalConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Mode         string `toml:"mode"`
}

// SessionConfig contains local session store settings.
type SessionConfig struct {
	Path string `toml:"path"`
}

// PollingConfig contains refresh cadence settings, in seconds.
type PollingConfig struct {
	QueueSeconds       int `toml:"queue_seconds"`
	PlayedSeconds      int `toml:"played_seconds"`
	RequestListSeconds int `toml:"request_list_seconds"`
}

// BrandingConfig contains display strings the backend does not serve.
type BrandingConfig struct {
	MusicianName string `toml:"musician_name"`
}

// QueueInterval returns the queue poll cadence, defaulting to 5s.
func (p PollingConfig) QueueInterval() time.Duration {
	if p.QueueSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.QueueSeconds) * time.Second
}

// PlayedInterval returns the played-song poll cadence, defaulting to 30s.
func (p PollingConfig) PlayedInterval() time.Duration {
	if p.PlayedSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.PlayedSeconds) * time.Second
}

// RequestListInterval returns the request panel refresh cadence, defaulting to 120s.
func (p PollingConfig) RequestListInterval() time.Duration {
	if p.RequestListSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(p.RequestListSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingConfig, path, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if secret := os.Getenv("PAYPAL_CLIENT_SECRET"); secret != "" {
		config.PayPal.ClientSecret = secret
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
