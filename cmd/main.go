package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/session"
	"github.com/encorelive/encore/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	godotenv.Load()
	logger := shared.NewLogger(nil)
	if os.Getenv("ENCORE_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	store, err := session.NewStore(config.Session.Path)
	if err != nil {
		logger.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()

	backend := services.NewVenueService(config.Backend.BaseURL, config.Backend.Tenant, nil)
	if headers, err := shared.LoadHeaders(adminSessionPath); err == nil {
		backend.SetAdminSession(headers)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Backend: backend,
		Store:   store,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "encore",
		Usage:    "Browse the song catalog, request songs, and tip the musician",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
