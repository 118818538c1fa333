package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/session"
	"github.com/encorelive/encore/internal/shared"
	tu "github.com/encorelive/encore/internal/testing"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			backend := &tu.MockBackend{}
			store := newTestStore(t)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Backend:    backend,
				Store:      store,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.backend != backend {
				t.Error("expected backend to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.scope == nil {
				t.Error("expected a fresh scope")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("username", func(t *testing.T) {
		t.Run("returns stored username", func(t *testing.T) {
			store := newTestStore(t)
			if err := store.SetUsername("mario"); err != nil {
				t.Fatalf("failed to store username: %v", err)
			}
			runner := NewRunner(RunnerOpts{Store: store})

			name, err := runner.username()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if name != "mario" {
				t.Errorf("expected mario, got %q", name)
			}
		})

		t.Run("fails with hint when unset", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Store: newTestStore(t)})

			_, err := runner.username()
			if err == nil {
				t.Fatal("expected error for missing username")
			}
			if !strings.Contains(err.Error(), "session username") {
				t.Errorf("expected a hint about setting the username, got %v", err)
			}
		})
	})

	t.Run("providerFor", func(t *testing.T) {
		t.Run("intent credentials win over config", func(t *testing.T) {
			var gotClientID, gotMode string
			runner := NewRunner(RunnerOpts{
				NewProvider: func(clientID, clientSecret, mode string) (services.Provider, error) {
					gotClientID, gotMode = clientID, mode
					return &tu.MockProvider{}, nil
				},
			})
			runner.config.PayPal.ClientID = "config-client"
			runner.config.PayPal.Mode = "sandbox"

			_, err := runner.providerFor(&models.TipIntent{
				PayPalClientID: "intent-client",
				PayPalMode:     "live",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if gotClientID != "intent-client" || gotMode != "live" {
				t.Errorf("expected intent credentials, got %s/%s", gotClientID, gotMode)
			}
		})

		t.Run("falls back to config credentials", func(t *testing.T) {
			var gotClientID string
			runner := NewRunner(RunnerOpts{
				NewProvider: func(clientID, clientSecret, mode string) (services.Provider, error) {
					gotClientID = clientID
					return &tu.MockProvider{}, nil
				},
			})
			runner.config.PayPal.ClientID = "config-client"

			if _, err := runner.providerFor(&models.TipIntent{}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if gotClientID != "config-client" {
				t.Errorf("expected config client id, got %q", gotClientID)
			}
		})

		t.Run("first provider is reused", func(t *testing.T) {
			calls := 0
			runner := NewRunner(RunnerOpts{
				NewProvider: func(clientID, clientSecret, mode string) (services.Provider, error) {
					calls++
					return &tu.MockProvider{}, nil
				},
			})

			first, _ := runner.providerFor(&models.TipIntent{PayPalClientID: "a"})
			second, _ := runner.providerFor(&models.TipIntent{PayPalClientID: "b"})

			if calls != 1 {
				t.Errorf("expected one construction, got %d", calls)
			}
			if first != second {
				t.Error("expected the same provider instance")
			}
		})

		t.Run("first failure is cached", func(t *testing.T) {
			calls := 0
			runner := NewRunner(RunnerOpts{
				NewProvider: func(clientID, clientSecret, mode string) (services.Provider, error) {
					calls++
					return nil, fmt.Errorf("bad credentials")
				},
			})

			if _, err := runner.providerFor(nil); err == nil {
				t.Fatal("expected construction error")
			}
			if _, err := runner.providerFor(nil); err == nil {
				t.Fatal("expected cached error")
			}
			if calls != 1 {
				t.Errorf("expected one construction attempt, got %d", calls)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Fatal("expected registered commands")
		}

		names := make(map[string]bool, len(commands))
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "session", "songs", "queue", "request", "tip", "admin", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}
