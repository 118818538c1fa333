package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Backend.BaseURL != "http://localhost:5000" {
			t.Errorf("expected backend base URL http://localhost:5000, got %s", config.Backend.BaseURL)
		}

		if config.Session.Path != "encore.db" {
			t.Errorf("expected session path encore.db, got %s", config.Session.Path)
		}

		if config.PayPal.Mode != "sandbox" {
			t.Errorf("expected paypal mode sandbox, got %s", config.PayPal.Mode)
		}

		if config.Polling.QueueSeconds != 5 {
			t.Errorf("expected queue poll 5s, got %d", config.Polling.QueueSeconds)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Session.Path != defaultConfig.Session.Path {
			t.Errorf("created config session path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[backend]
base_url = "https://requests.example.com"
tenant = "bluenote"

[paypal]
client_id = "test_client_id"
mode = "live"

[session]
path = "/custom/encore.db"

[polling]
queue_seconds = 10
played_seconds = 60
request_list_seconds = 300
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backend.BaseURL != "https://requests.example.com" {
			t.Errorf("expected custom base URL, got %s", config.Backend.BaseURL)
		}
		if config.Backend.Tenant != "bluenote" {
			t.Errorf("expected tenant bluenote, got %s", config.Backend.Tenant)
		}
		if config.PayPal.Mode != "live" {
			t.Errorf("expected live mode, got %s", config.PayPal.Mode)
		}
		if config.Session.Path != "/custom/encore.db" {
			t.Errorf("expected custom session path, got %s", config.Session.Path)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.toml")
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Malformed File", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[backend\nbase_url = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Secret From Environment Wins", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[paypal]
client_secret = "file_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv("PAYPAL_CLIENT_SECRET", "env_secret")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.PayPal.ClientSecret != "env_secret" {
			t.Errorf("expected env secret to win, got %s", config.PayPal.ClientSecret)
		}
	})

	t.Run("Polling Intervals", func(t *testing.T) {
		tt := []struct {
			name string
			cfg  PollingConfig
			want [3]time.Duration
		}{
			{
				name: "configured values",
				cfg:  PollingConfig{QueueSeconds: 10, PlayedSeconds: 60, RequestListSeconds: 300},
				want: [3]time.Duration{10 * time.Second, 60 * time.Second, 300 * time.Second},
			},
			{
				name: "zero values fall back to defaults",
				cfg:  PollingConfig{},
				want: [3]time.Duration{5 * time.Second, 30 * time.Second, 120 * time.Second},
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if got := tc.cfg.QueueInterval(); got != tc.want[0] {
					t.Errorf("queue interval: expected %v, got %v", tc.want[0], got)
				}
				if got := tc.cfg.PlayedInterval(); got != tc.want[1] {
					t.Errorf("played interval: expected %v, got %v", tc.want[1], got)
				}
				if got := tc.cfg.RequestListInterval(); got != tc.want[2] {
					t.Errorf("request list interval: expected %v, got %v", tc.want[2], got)
				}
			})
		}
	})
}
