// Package catalog is the façade over the playlist store: it validates modes and raw input,
// seeds the default playlists on first run, and is the only writer of playlist entries.
package catalog

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/playback"
	"github.com/desertthunder/babytube/internal/shared"
)

// Store is the persistence the catalog needs. [repositories.URLRepository] implements it.
type Store interface {
	ListByMode(ctx context.Context, mode models.Mode) ([]models.PlaylistEntry, error)
	Insert(ctx context.Context, mode models.Mode, videoID string) (*models.PlaylistEntry, error)
	Remove(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	SeedIfEmpty(ctx context.Context, seed []models.PlaylistEntry) (int, error)
}

// Service exposes list/add/remove over a [Store].
type Service struct {
	store    Store
	selector *playback.Selector
	logger   *log.Logger
}

// NewService creates a Service. A nil selector gets a default one; a nil logger writes to stderr.
func NewService(store Store, selector *playback.Selector, logger *log.Logger) *Service {
	if selector == nil {
		selector = playback.NewSelector(nil)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Service{
		store:    store,
		selector: selector,
		logger:   shared.WithLogger(logger, "component", "catalog"),
	}
}

// Bootstrap seeds every mode with [models.DefaultVideos] when the store is completely empty.
//
// It reports whether seeding happened. A store holding any entry is left alone, so a mode
// emptied by deletions stays empty.
//
// Seeding is all-or-nothing: a failure leaves the store empty so the next run seeds again, and
// concurrent first runs write the defaults once.
func (s *Service) Bootstrap(ctx context.Context) (bool, error) {
	var seed []models.PlaylistEntry
	for _, mode := range models.Modes {
		for _, videoID := range models.DefaultVideos[mode] {
			seed = append(seed, models.PlaylistEntry{Mode: mode, VideoID: videoID})
		}
	}

	written, err := s.store.SeedIfEmpty(ctx, seed)
	if err != nil {
		return false, fmt.Errorf("failed to seed default videos: %w", err)
	}
	if written == 0 {
		return false, nil
	}

	s.logger.Info("database initialized with default videos", "entries", written)
	return true, nil
}

// ListURLs returns the entries of mode in store order.
func (s *Service) ListURLs(ctx context.Context, mode string) ([]models.PlaylistEntry, error) {
	m, err := models.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return s.store.ListByMode(ctx, m)
}

// AddURL normalizes raw and stores it under mode.
//
// Invalid modes and input that cannot be normalized are validation errors; nothing is written.
func (s *Service) AddURL(ctx context.Context, mode, raw string) (*models.PlaylistEntry, error) {
	m, err := models.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	videoID, err := models.NormalizeVideoID(raw)
	if err != nil {
		return nil, err
	}

	entry, err := s.store.Insert(ctx, m, videoID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("video added", "mode", m, "id", entry.ID, "video_id", videoID)
	return entry, nil
}

// RemoveURL deletes the entry with id. mode is validated but not used to scope the delete.
// Removing an unknown id succeeds.
func (s *Service) RemoveURL(ctx context.Context, mode string, id int64) error {
	m, err := models.ParseMode(mode)
	if err != nil {
		return err
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}

	s.logger.Info("video removed", "mode", m, "id", id)
	return nil
}

// Next picks the video to play after current from mode's list.
func (s *Service) Next(ctx context.Context, mode, current string) (string, error) {
	entries, err := s.ListURLs(ctx, mode)
	if err != nil {
		return "", err
	}

	next, err := s.selector.SelectNext(models.VideoIDs(entries), current)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, mode)
	}
	return next, nil
}

// Count returns the total number of entries; used by health checks.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
