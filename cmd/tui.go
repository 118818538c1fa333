package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/encorelive/encore/internal/images"
	"github.com/encorelive/encore/internal/shared"
	"github.com/encorelive/encore/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and requesting songs.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.backend == nil {
		return fmt.Errorf("%w: backend not initialized", shared.ErrServiceUnavailable)
	}

	username, err := r.username()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/encore-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	resolver := &images.Resolver{
		DefaultTenant: r.config.Backend.Tenant,
	}

	model := ui.NewModel(ctx, ui.Deps{
		Backend:     r.backend,
		ProviderFor: r.providerFor,
		Store:       r.store,
		Scope:       r.scope,
		Resolver:    resolver,
		Config:      r.config,
		Logger:      fileLogger,
		Username:    username,
		Admin:       cmd.Bool("admin"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
