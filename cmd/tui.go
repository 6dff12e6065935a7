package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/babytube/internal/cache"
	"github.com/desertthunder/babytube/internal/shared"
	"github.com/desertthunder/babytube/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal player against --server or the local database.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/babytube-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	cat, titles, err := r.catalogFor(ctx, cmd)
	if err != nil {
		return err
	}

	playlist := cache.NewPlaylistCache(cat, r.selector, shared.WithLogger(r.logger, "component", "cache"))
	model := ui.NewModel(ctx, playlist, r.engine(cat, titles), r.open)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
