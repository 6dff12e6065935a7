package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/babytube/internal/formatter"
	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/services"
	"github.com/desertthunder/babytube/internal/shared"
	"github.com/desertthunder/babytube/internal/tasks"
	"github.com/urfave/cli/v3"
)

type listItem struct {
	ID        int64     `json:"id"`
	VideoID   string    `json:"videoId"`
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: <%s> is required", shared.ErrMissingArgument, name)
	}
	return v, nil
}

func (r *Runner) engine(cat services.Catalog, titles services.TitleService) *tasks.Engine {
	return tasks.NewEngine(cat, titles, r.logger)
}

func (r *Runner) prefetchOpts(cmd *cli.Command) tasks.PrefetchOpts {
	workers := r.config.OEmbed.Workers
	if cmd.IsSet("workers") {
		workers = int(cmd.Int("workers"))
	}
	return tasks.PrefetchOpts{NumWorkers: workers, RateLimit: r.config.OEmbed.RateLimit}
}

// URLsList prints the entries of a mode, optionally with their titles.
func (r *Runner) URLsList(ctx context.Context, cmd *cli.Command) error {
	mode, err := requireArg(cmd, "mode")
	if err != nil {
		return err
	}

	cat, titles, err := r.catalogFor(ctx, cmd)
	if err != nil {
		return err
	}

	entries, err := cat.ListURLs(ctx, mode)
	if err != nil {
		return err
	}

	names := map[string]string{}
	if cmd.Bool("titles") && len(entries) > 0 {
		result, err := r.engine(cat, titles).PrefetchTitles(ctx, nil, models.VideoIDs(entries), r.prefetchOpts(cmd))
		if err != nil {
			return err
		}
		if result.Failed > 0 {
			r.logger.Warn("some titles could not be resolved", "failed", result.Failed)
		}
		names = result.Titles
	}

	if cmd.Bool("json") {
		items := make([]listItem, len(entries))
		for i, e := range entries {
			items[i] = listItem{
				ID:        e.ID,
				VideoID:   e.VideoID,
				Title:     names[e.VideoID],
				URL:       shared.WatchURL(e.VideoID),
				CreatedAt: e.CreatedAt,
			}
		}
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s: %d videos", mode, len(entries)))
	for _, e := range entries {
		if title := names[e.VideoID]; title != "" {
			r.writePlain("%4d  %s  %s\n", e.ID, e.VideoID, title)
		} else {
			r.writePlain("%4d  %s  %s\n", e.ID, e.VideoID, shared.WatchURL(e.VideoID))
		}
	}
	return nil
}

// URLsAdd normalizes the input and stores it under a mode.
func (r *Runner) URLsAdd(ctx context.Context, cmd *cli.Command) error {
	mode, err := requireArg(cmd, "mode")
	if err != nil {
		return err
	}
	input, err := requireArg(cmd, "input")
	if err != nil {
		return err
	}

	cat, _, err := r.catalogFor(ctx, cmd)
	if err != nil {
		return err
	}

	entry, err := cat.AddURL(ctx, mode, input)
	if err != nil {
		return err
	}

	r.logger.Debug("added video", "mode", entry.Mode, "video_id", entry.VideoID, "id", entry.ID)
	return r.writePlain("✓ Added %s to %s (id %d)\n", entry.VideoID, entry.Mode, entry.ID)
}

// URLsRemove deletes an entry by row ID. Unknown IDs succeed.
func (r *Runner) URLsRemove(ctx context.Context, cmd *cli.Command) error {
	mode, err := requireArg(cmd, "mode")
	if err != nil {
		return err
	}
	raw, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be an integer, got %q", shared.ErrInvalidArgument, raw)
	}

	cat, _, err := r.catalogFor(ctx, cmd)
	if err != nil {
		return err
	}

	if err := cat.RemoveURL(ctx, mode, id); err != nil {
		return err
	}
	return r.writePlain("✓ Removed entry %d from %s\n", id, mode)
}

// URLsExport writes the entries of a mode to a file in the requested format.
func (r *Runner) URLsExport(ctx context.Context, cmd *cli.Command) error {
	mode, err := requireArg(cmd, "mode")
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	cat, titles, err := r.catalogFor(ctx, cmd)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.engine(cat, titles).Export(ctx, progress, mode, tasks.ExportOpts{
		Format:     format,
		OutputPath: cmd.String("output"),
		WithTitles: cmd.Bool("titles"),
		Prefetch:   r.prefetchOpts(cmd),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d videos from %s to %s\n", result.Count, result.Mode, result.Path)
	if result.Prefetch != nil && result.Prefetch.Failed > 0 {
		r.writePlain("  %d titles could not be resolved\n", result.Prefetch.Failed)
	}
	return nil
}

// Next runs the selection engine for a mode and prints the chosen video.
func (r *Runner) Next(ctx context.Context, cmd *cli.Command) error {
	mode, err := requireArg(cmd, "mode")
	if err != nil {
		return err
	}

	cat, _, err := r.catalogFor(ctx, cmd)
	if err != nil {
		return err
	}

	videoID, err := cat.Next(ctx, mode, cmd.String("current"))
	if err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := r.open(videoID); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{"videoId": videoID, "url": shared.WatchURL(videoID)}, false)
	}
	return r.writePlain("%s\t%s\n", videoID, shared.WatchURL(videoID))
}

// Normalize prints the canonical video ID for a URL or bare ID.
func (r *Runner) Normalize(ctx context.Context, cmd *cli.Command) error {
	input, err := requireArg(cmd, "input")
	if err != nil {
		return err
	}

	id, err := models.NormalizeVideoID(input)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", id)
}
