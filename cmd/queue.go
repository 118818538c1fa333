package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/encorelive/encore/internal/formatter"
	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/shared"
	"github.com/encorelive/encore/internal/tasks"
	"github.com/urfave/cli/v3"
)

// QueueShow prints the live request queue, optionally refreshing it until
// interrupted.
func (r *Runner) QueueShow(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("watch") {
		entries, err := r.backend.Queue(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		if cmd.Bool("json") {
			return r.writeJSON(entries, true)
		}
		return r.printQueue(entries)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger := shared.WithLogger(r.logger, "task", "queue")
	poller := tasks.NewPoller("queue", 0, r.config.Polling.QueueInterval(), func(ctx context.Context) {
		entries, err := r.backend.Queue(ctx)
		if err != nil {
			logger.Warn("queue fetch failed", "error", err)
			return
		}
		r.printQueue(entries)
	}, logger)

	poller.Start(ctx)
	<-ctx.Done()
	poller.Stop()
	return nil
}

// QueueExport writes a queue snapshot in the requested format.
func (r *Runner) QueueExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputPath := cmd.String("output")

	entries, err := r.backend.Queue(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	venueName, err := r.backend.VenueName(ctx)
	if err != nil {
		r.logger.Warn("failed to fetch venue name", "error", err)
	}

	snapshot := formatter.NewSnapshot(venueName, entries)

	if outputPath == "" {
		data, err := formatter.Export(snapshot, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	if err := formatter.WriteExport(snapshot, format, outputPath); err != nil {
		return err
	}
	r.logger.Info("queue exported", "format", format, "path", outputPath)
	return r.writePlainln("Exported %d entries to %s.", len(entries), outputPath)
}

func (r *Runner) printQueue(entries []models.QueueEntry) error {
	if len(entries) == 0 {
		return r.writePlainln("The queue is empty.")
	}

	for i, entry := range entries {
		line := fmt.Sprintf("%2d. %s - %s", i+1, entry.Author, entry.Title)
		if len(entry.Requesters) > 0 {
			line += fmt.Sprintf(" (for %s)", strings.Join(entry.Requesters, ", "))
		}
		if err := r.writePlainln("%s", line); err != nil {
			return err
		}
	}
	return nil
}
