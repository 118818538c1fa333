package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/session"
	"github.com/encorelive/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config     *shared.Config
	backend    services.Backend
	store      *session.Store
	scope      *session.Scope
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	providerMu  sync.Mutex
	provider    services.Provider
	providerErr error
	newProvider func(clientID, clientSecret, mode string) (services.Provider, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Backend    services.Backend
	Store      *session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer

	// NewProvider overrides payment provider construction, for tests.
	NewProvider func(clientID, clientSecret, mode string) (services.Provider, error)
}

// NewRunner creates a new Runner with the provided configuration.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.NewProvider == nil {
		opts.NewProvider = func(clientID, clientSecret, mode string) (services.Provider, error) {
			return services.NewPayPalService(clientID, clientSecret, mode)
		}
	}

	return &Runner{
		config:      opts.Config,
		backend:     opts.Backend,
		store:       opts.Store,
		scope:       session.NewScope(),
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		newProvider: opts.NewProvider,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, sessionCommand, songsCommand, queueCommand, requestCommand, tipCommand, adminCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a
// file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// providerFor builds (or reuses) the payment provider for a tip intent.
//
// Credentials from the intent win over the local config; the first provider
// built in the process is reused for every later intent, and so is the first
// failure.
func (r *Runner) providerFor(intent *models.TipIntent) (services.Provider, error) {
	r.providerMu.Lock()
	defer r.providerMu.Unlock()

	if r.provider != nil || r.providerErr != nil {
		return r.provider, r.providerErr
	}

	clientID := r.config.PayPal.ClientID
	mode := r.config.PayPal.Mode
	if intent != nil {
		if intent.PayPalClientID != "" {
			clientID = intent.PayPalClientID
		}
		if intent.PayPalMode != "" {
			mode = intent.PayPalMode
		}
	}

	r.provider, r.providerErr = r.newProvider(clientID, r.config.PayPal.ClientSecret, mode)
	return r.provider, r.providerErr
}

// username returns the stored username, failing with a hint when unset.
func (r *Runner) username() (string, error) {
	name, err := r.store.Username()
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("%w: run `encore session username <name>` first", shared.ErrNoUsername)
	}
	return name, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
