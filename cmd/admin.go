package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// adminSessionPath is where the imported admin session lives between CLI
// invocations.
const adminSessionPath = "admin-session.json"

// AdminImportSession parses a browser cURL command and applies its session
// headers to every later backend call.
//
// The venue owner logs in with the browser, copies any authenticated request
// as cURL, and feeds it here. The same approach the backend's own tooling
// uses for session handoff.
func (r *Runner) AdminImportSession(ctx context.Context, cmd *cli.Command) error {
	curlFile := cmd.String("curl-file")

	headers, err := shared.ParseCurlFile(curlFile)
	if err != nil {
		return fmt.Errorf("failed to parse cURL file: %w", err)
	}

	venue, ok := r.backend.(*services.VenueService)
	if !ok {
		return fmt.Errorf("%w: backend does not accept admin sessions", shared.ErrServiceUnavailable)
	}
	venue.SetAdminSession(headers)

	status, err := r.backend.CheckSession(ctx)
	if err != nil {
		return fmt.Errorf("imported session failed validation: %w", err)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: imported session was rejected", shared.ErrSessionExpired)
	}

	outputPath := cmd.String("output")
	if err := shared.SaveHeaders(headers, outputPath); err != nil {
		return err
	}

	r.logger.Info("admin session imported", "source", curlFile, "path", outputPath)
	return r.writePlainln("Admin session imported and validated. Saved to %s.", outputPath)
}

// AdminDeleteSong removes a song from the queue.
func (r *Runner) AdminDeleteSong(ctx context.Context, cmd *cli.Command) error {
	songID, err := strconv.Atoi(cmd.StringArg("song-id"))
	if err != nil {
		return fmt.Errorf("%w: song-id must be a number", shared.ErrInvalidArgument)
	}

	if err := r.backend.DeleteSong(ctx, songID); err != nil {
		return err
	}
	return r.writePlainln("Song %d removed from the queue.", songID)
}

// AdminDeleteAll clears the whole request queue.
func (r *Runner) AdminDeleteAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.backend.DeleteAllRequests(ctx); err != nil {
		return err
	}
	return r.writePlainln("Queue cleared.")
}

// AdminMaxRequests sets the per-user request cap.
func (r *Runner) AdminMaxRequests(ctx context.Context, cmd *cli.Command) error {
	max, err := strconv.Atoi(cmd.StringArg("max"))
	if err != nil || max < 1 {
		return fmt.Errorf("%w: max must be a positive number", shared.ErrInvalidArgument)
	}

	if err := r.backend.UpdateMaxRequests(ctx, max); err != nil {
		return err
	}
	return r.writePlainln("Per-user request cap set to %d.", max)
}
