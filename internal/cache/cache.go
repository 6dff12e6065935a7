// Package cache mirrors one mode's playlist on the client side.
//
// [PlaylistCache] holds the entries of the active mode and runs the playback selector over them.
// It never edits its copy: every mode switch and every mutation is followed by a wholesale
// re-fetch from the [Source], so the cache shows exactly what the store holds after each round trip.
package cache

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/playback"
	"github.com/desertthunder/babytube/internal/shared"
)

// Source is the catalog the cache reads from and sends mutations to.
type Source interface {
	ListURLs(ctx context.Context, mode string) ([]models.PlaylistEntry, error)
	AddURL(ctx context.Context, mode, raw string) (*models.PlaylistEntry, error)
	RemoveURL(ctx context.Context, mode string, id int64) error
}

// PlaylistCache is safe for concurrent use.
type PlaylistCache struct {
	source   Source
	selector *playback.Selector
	logger   *log.Logger

	mu      sync.RWMutex
	mode    models.Mode
	entries []models.PlaylistEntry
	current string
}

// NewPlaylistCache creates an empty cache on mode sleep. Call [PlaylistCache.SwitchMode] or
// [PlaylistCache.Refresh] to load it.
func NewPlaylistCache(source Source, selector *playback.Selector, logger *log.Logger) *PlaylistCache {
	if selector == nil {
		selector = playback.NewSelector(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlaylistCache{
		source:   source,
		selector: selector,
		logger:   shared.WithLogger(logger, "component", "cache"),
		mode:     models.ModeSleep,
		entries:  []models.PlaylistEntry{},
	}
}

// Mode returns the active mode.
func (c *PlaylistCache) Mode() models.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Entries returns a copy of the cached entries in store order.
func (c *PlaylistCache) Entries() []models.PlaylistEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.entries)
}

// Current returns the video last picked by [PlaylistCache.Next], or "".
func (c *PlaylistCache) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// SetCurrent marks videoID as playing, so the next selection avoids it.
func (c *PlaylistCache) SetCurrent(videoID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = videoID
}

// SwitchMode makes mode active and loads its entries. On failure the previous mode stays active.
func (c *PlaylistCache) SwitchMode(ctx context.Context, mode string) error {
	m, err := models.ParseMode(mode)
	if err != nil {
		return err
	}

	entries, err := c.source.ListURLs(ctx, m.String())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != m {
		c.current = ""
	}
	c.mode = m
	c.entries = entries
	c.logger.Debug("mode switched", "mode", m, "entries", len(entries))
	return nil
}

// Refresh re-fetches the active mode.
func (c *PlaylistCache) Refresh(ctx context.Context) error {
	return c.SwitchMode(ctx, c.Mode().String())
}

// Add sends raw to the source under the active mode, then refreshes.
func (c *PlaylistCache) Add(ctx context.Context, raw string) (*models.PlaylistEntry, error) {
	entry, err := c.source.AddURL(ctx, c.Mode().String(), raw)
	if err != nil {
		return nil, err
	}
	return entry, c.Refresh(ctx)
}

// Remove deletes id through the source, then refreshes.
func (c *PlaylistCache) Remove(ctx context.Context, id int64) error {
	if err := c.source.RemoveURL(ctx, c.Mode().String(), id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Next picks the video to play after the current one from the cached entries and makes it current.
//
// Returns [shared.ErrNoCandidates] when the active mode is empty.
func (c *PlaylistCache) Next() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.selector.SelectNext(models.VideoIDs(c.entries), c.current)
	if err != nil {
		return "", err
	}
	c.current = next
	return next, nil
}
