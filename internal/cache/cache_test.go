package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/playback"
	"github.com/desertthunder/babytube/internal/shared"
	tu "github.com/desertthunder/babytube/internal/testing"
)

func newTestCache(seed map[models.Mode][]string, script ...int) (*PlaylistCache, *tu.MockCatalog) {
	catalog := tu.NewMockCatalog(seed, nil)
	return NewPlaylistCache(catalog, playback.NewSelector(tu.NewScriptedSource(script...)), nil), catalog
}

func TestSwitchMode(t *testing.T) {
	ctx := context.Background()
	seed := map[models.Mode][]string{
		models.ModeSleep: {"aaaaaaaaaaa"},
		models.ModePlay:  {"bbbbbbbbbbb", "ccccccccccc"},
	}

	t.Run("loads the requested mode", func(t *testing.T) {
		cache, catalog := newTestCache(seed)

		if err := cache.SwitchMode(ctx, "play"); err != nil {
			t.Fatalf("SwitchMode() error = %v", err)
		}
		if cache.Mode() != models.ModePlay {
			t.Errorf("expected play, got %s", cache.Mode())
		}
		if got := models.VideoIDs(cache.Entries()); len(got) != 2 || got[0] != "bbbbbbbbbbb" {
			t.Errorf("unexpected entries %v", got)
		}
		if catalog.Lists != 1 {
			t.Errorf("expected 1 fetch, got %d", catalog.Lists)
		}
	})

	t.Run("re-fetches on every switch", func(t *testing.T) {
		cache, catalog := newTestCache(seed)

		for _, mode := range []string{"sleep", "play", "sleep"} {
			if err := cache.SwitchMode(ctx, mode); err != nil {
				t.Fatalf("SwitchMode(%s) error = %v", mode, err)
			}
		}
		if catalog.Lists != 3 {
			t.Errorf("expected 3 fetches, got %d", catalog.Lists)
		}
	})

	t.Run("invalid mode keeps state", func(t *testing.T) {
		cache, catalog := newTestCache(seed)
		_ = cache.SwitchMode(ctx, "play")

		err := cache.SwitchMode(ctx, "party")
		if !errors.Is(err, shared.ErrInvalidMode) {
			t.Errorf("expected ErrInvalidMode, got %v", err)
		}
		if cache.Mode() != models.ModePlay || len(cache.Entries()) != 2 {
			t.Error("expected previous mode to stay active")
		}
		if catalog.Lists != 1 {
			t.Errorf("invalid mode should not hit the source, got %d fetches", catalog.Lists)
		}
	})

	t.Run("source failure keeps state", func(t *testing.T) {
		cache, catalog := newTestCache(seed)
		_ = cache.SwitchMode(ctx, "sleep")

		catalog.Err = shared.ErrServiceUnavailable
		if err := cache.SwitchMode(ctx, "play"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if cache.Mode() != models.ModeSleep || len(cache.Entries()) != 1 {
			t.Error("expected sleep to stay active")
		}
	})

	t.Run("entries are a copy", func(t *testing.T) {
		cache, _ := newTestCache(seed)
		_ = cache.SwitchMode(ctx, "sleep")

		entries := cache.Entries()
		entries[0].VideoID = "zzzzzzzzzzz"
		if cache.Entries()[0].VideoID != "aaaaaaaaaaa" {
			t.Error("mutating the returned slice changed the cache")
		}
	})
}

func TestMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("add refreshes from the source", func(t *testing.T) {
		cache, catalog := newTestCache(nil)
		_ = cache.SwitchMode(ctx, "relax")

		entry, err := cache.Add(ctx, "https://youtu.be/Na0w3Mz46GA")
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if entry.VideoID != "Na0w3Mz46GA" || entry.Mode != models.ModeRelax {
			t.Errorf("unexpected entry %+v", entry)
		}
		if got := models.VideoIDs(cache.Entries()); len(got) != 1 || got[0] != "Na0w3Mz46GA" {
			t.Errorf("unexpected entries %v", got)
		}
		if catalog.Lists != 2 {
			t.Errorf("expected switch plus refresh, got %d fetches", catalog.Lists)
		}
	})

	t.Run("rejected add leaves cache untouched", func(t *testing.T) {
		cache, catalog := newTestCache(nil)
		_ = cache.SwitchMode(ctx, "relax")

		if _, err := cache.Add(ctx, "nope"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
		if len(cache.Entries()) != 0 {
			t.Error("expected no entries")
		}
		if catalog.Lists != 1 {
			t.Errorf("expected no refresh after a rejected add, got %d fetches", catalog.Lists)
		}
	})

	t.Run("remove refreshes from the source", func(t *testing.T) {
		cache, _ := newTestCache(map[models.Mode][]string{models.ModePlay: {"aaaaaaaaaaa", "bbbbbbbbbbb"}})
		_ = cache.SwitchMode(ctx, "play")

		first := cache.Entries()[0]
		if err := cache.Remove(ctx, first.ID); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if got := models.VideoIDs(cache.Entries()); len(got) != 1 || got[0] != "bbbbbbbbbbb" {
			t.Errorf("unexpected entries %v", got)
		}
		if err := cache.Remove(ctx, first.ID); err != nil {
			t.Errorf("repeat Remove() error = %v", err)
		}
	})
}

func TestNext(t *testing.T) {
	ctx := context.Background()

	t.Run("empty mode", func(t *testing.T) {
		cache, _ := newTestCache(nil)
		_ = cache.SwitchMode(ctx, "learning")

		if _, err := cache.Next(); !errors.Is(err, shared.ErrNoCandidates) {
			t.Errorf("expected ErrNoCandidates, got %v", err)
		}
		if cache.Current() != "" {
			t.Errorf("expected no current video, got %q", cache.Current())
		}
	})

	t.Run("never repeats the current video", func(t *testing.T) {
		cache, _ := newTestCache(map[models.Mode][]string{models.ModePlay: {"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}}, 0, 0, 0, 1, 1, 0)
		_ = cache.SwitchMode(ctx, "play")

		prev := ""
		for i := range 6 {
			next, err := cache.Next()
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if next == prev {
				t.Errorf("step %d repeated %s", i, next)
			}
			if cache.Current() != next {
				t.Errorf("Current() = %s, want %s", cache.Current(), next)
			}
			prev = next
		}
	})

	t.Run("single entry repeats", func(t *testing.T) {
		cache, _ := newTestCache(map[models.Mode][]string{models.ModeSleep: {"aaaaaaaaaaa"}})
		_ = cache.SwitchMode(ctx, "sleep")

		for range 3 {
			if next, _ := cache.Next(); next != "aaaaaaaaaaa" {
				t.Errorf("expected aaaaaaaaaaa, got %s", next)
			}
		}
	})

	t.Run("manual pick is avoided next", func(t *testing.T) {
		cache, _ := newTestCache(map[models.Mode][]string{models.ModePlay: {"aaaaaaaaaaa", "bbbbbbbbbbb"}})
		_ = cache.SwitchMode(ctx, "play")

		cache.SetCurrent("aaaaaaaaaaa")
		if next, _ := cache.Next(); next != "bbbbbbbbbbb" {
			t.Errorf("expected bbbbbbbbbbb, got %s", next)
		}
	})

	t.Run("switching mode clears current", func(t *testing.T) {
		cache, _ := newTestCache(map[models.Mode][]string{models.ModeSleep: {"aaaaaaaaaaa"}})
		_ = cache.SwitchMode(ctx, "sleep")
		_, _ = cache.Next()

		_ = cache.SwitchMode(ctx, "play")
		if cache.Current() != "" {
			t.Errorf("expected current to reset, got %q", cache.Current())
		}
	})

	t.Run("concurrent use", func(t *testing.T) {
		cache, _ := newTestCache(map[models.Mode][]string{models.ModePlay: {"aaaaaaaaaaa", "bbbbbbbbbbb"}})
		_ = cache.SwitchMode(ctx, "play")

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _ = cache.Next()
			}()
			go func() {
				defer wg.Done()
				_ = cache.Refresh(ctx)
			}()
		}
		wg.Wait()

		if len(cache.Entries()) != 2 {
			t.Errorf("expected 2 entries, got %d", len(cache.Entries()))
		}
	})
}
