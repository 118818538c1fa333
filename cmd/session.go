package main

import (
	"context"
	"fmt"

	"github.com/encorelive/encore/internal/session"
	"github.com/encorelive/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// SessionUsername stores the name attached to song requests.
func (r *Runner) SessionUsername(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	if err := r.store.SetUsername(name); err != nil {
		return fmt.Errorf("failed to store username: %w", err)
	}

	r.logger.Info("username stored", "username", name)
	return r.writePlainln("Requests will be made as %q.", name)
}

// SessionLanguage stores the UI language and syncs it with the backend.
func (r *Runner) SessionLanguage(ctx context.Context, cmd *cli.Command) error {
	lang := cmd.StringArg("lang")
	if lang == "" {
		return fmt.Errorf("%w: language", shared.ErrMissingArgument)
	}

	if err := r.store.SetLanguage(lang); err != nil {
		return fmt.Errorf("failed to store language: %w", err)
	}

	if err := r.backend.ChangeLanguage(ctx, lang); err != nil {
		r.logger.Warn("failed to sync language with backend", "error", err)
	}

	return r.writePlainln("Language set to %s.", lang)
}

// SessionShow prints the current session settings and cached request ids.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	username, err := r.store.Username()
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if username == "" {
		username = "(not set)"
	}

	lang, err := r.store.Language()
	if err != nil {
		lang = session.DefaultLanguage
	}

	ids, err := r.store.RequestedIDs()
	if err != nil {
		return fmt.Errorf("failed to read requested songs: %w", err)
	}

	r.writePlainln("Username: %s", username)
	r.writePlainln("Language: %s", lang)
	r.writePlainln("Pending requests: %d", len(ids))
	return nil
}
