package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/babytube/internal/formatter"
	"github.com/desertthunder/babytube/internal/models"
)

// ExportOpts configures [Engine.Export].
type ExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputPath string           // Destination file (default: {mode}.{ext})
	WithTitles bool             // Prefetch display titles before rendering
	Prefetch   PrefetchOpts
}

// ExportResult describes a finished export.
type ExportResult struct {
	Mode     models.Mode
	Path     string
	Count    int
	Prefetch *PrefetchResult // nil unless titles were requested
}

// Export writes mode's list to disk in opts.Format.
//
// Title lookup failures leave the affected rows untitled; they do not fail the export.
func (e *Engine) Export(ctx context.Context, prog chan<- ProgressUpdate, mode string, opts ExportOpts) (*ExportResult, error) {
	m, err := models.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}

	e.sendProgress(prog, fetchEntriesUpdate(m))
	entries, err := e.catalog.ListURLs(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", m, err)
	}

	export := &formatter.Export{Mode: m, Entries: entries, ExportedAt: time.Now()}
	result := &ExportResult{Mode: m, Count: len(entries)}

	if opts.WithTitles {
		prefetch, err := e.PrefetchTitles(ctx, prog, models.VideoIDs(entries), opts.Prefetch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch titles: %w", err)
		}
		export.Titles = prefetch.Titles
		result.Prefetch = prefetch
	}

	path, err := formatter.WriteExport(export, opts.Format, opts.OutputPath)
	if err != nil {
		return nil, err
	}
	result.Path = path

	e.logger.Info("export written", "mode", m, "format", opts.Format, "path", path, "count", len(entries))
	e.sendProgress(prog, exportWrittenUpdate(path, len(entries)))
	return result, nil
}
