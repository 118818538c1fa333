package main

import (
	"context"
	"fmt"
	"os"

	"github.com/encorelive/encore/internal/session"
	"github.com/encorelive/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter config file and initializes the session store.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
		if config, err = shared.LoadConfig(configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
		if config, err = shared.LoadConfig(configPath); err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
	}

	r.logger.Info("initializing session store", "path", config.Session.Path)
	store, err := session.NewStore(config.Session.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer store.Close()

	r.writePlainln("Setup complete. Edit %s and set backend.base_url and backend.tenant.", configPath)
	return nil
}
