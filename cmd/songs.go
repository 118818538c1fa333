package main

import (
	"context"
	"fmt"

	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// SongsSearch queries the catalog and prints one page of results.
func (r *Runner) SongsSearch(ctx context.Context, cmd *cli.Command) error {
	switch cmd.String("sort-by") {
	case "title", "author":
	default:
		return fmt.Errorf("%w: --sort-by must be title or author", shared.ErrInvalidFlag)
	}
	switch cmd.String("sort-order") {
	case "asc", "desc":
	default:
		return fmt.Errorf("%w: --sort-order must be asc or desc", shared.ErrInvalidFlag)
	}

	username, _ := r.store.Username()

	params := services.SearchParams{
		Query:     cmd.StringArg("query"),
		Language:  cmd.String("language"),
		Letter:    cmd.String("letter"),
		SortBy:    cmd.String("sort-by"),
		SortOrder: cmd.String("sort-order"),
		Page:      cmd.Int("page"),
		Username:  username,
	}

	r.logger.Info("searching songs", "query", params.Query, "page", params.Page)

	songs, err := r.backend.SearchSongs(ctx, params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlainln("No songs found.")
	}

	for _, song := range songs {
		r.writePlainln("%5d  %s - %s", song.ID, song.Author, song.Title)
	}
	return nil
}
