package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// fixedClock returns the same instant on every call.
func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestURLRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Insert", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		entry, err := repo.Insert(ctx, models.ModePlay, "CaqHOvgAnO0")
		if err != nil {
			t.Fatalf("failed to insert: %v", err)
		}

		if entry.ID == 0 {
			t.Error("entry ID should be set after insert")
		}
		if entry.Mode != models.ModePlay {
			t.Errorf("expected mode play, got %s", entry.Mode)
		}
		if entry.CreatedAt.IsZero() {
			t.Error("entry CreatedAt should be set after insert")
		}
	})

	t.Run("Insert invalid mode", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		_, err := repo.Insert(ctx, models.Mode("party"), "CaqHOvgAnO0")
		if !errors.Is(err, shared.ErrConstraint) {
			t.Fatalf("expected ErrConstraint, got %v", err)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 0 {
			t.Errorf("expected no rows after rejected insert, got %d", count)
		}
	})

	t.Run("Insert non-canonical video id", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		for _, id := range []string{"short", "youtu.be/ab", "CaqHOvgAnO0&t"} {
			if _, err := repo.Insert(ctx, models.ModePlay, id); !errors.Is(err, shared.ErrConstraint) {
				t.Errorf("Insert(%q): expected ErrConstraint, got %v", id, err)
			}
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 0 {
			t.Errorf("expected no rows after rejected inserts, got %d", count)
		}
	})

	t.Run("ListByMode preserves insertion order", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		ids := []string{"REtbaAA4j7U", "BW4H15rK6iI", "CaqHOvgAnO0", "REtbaAA4j7U"}
		for _, id := range ids {
			if _, err := repo.Insert(ctx, models.ModePlay, id); err != nil {
				t.Fatalf("failed to insert %s: %v", id, err)
			}
		}
		if _, err := repo.Insert(ctx, models.ModeSleep, "035d3iiFej4"); err != nil {
			t.Fatalf("failed to insert into sleep: %v", err)
		}

		entries, err := repo.ListByMode(ctx, models.ModePlay)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}

		if len(entries) != len(ids) {
			t.Fatalf("expected %d entries, got %d", len(ids), len(entries))
		}
		for i, entry := range entries {
			if entry.VideoID != ids[i] {
				t.Errorf("entry %d: expected %s, got %s", i, ids[i], entry.VideoID)
			}
			if entry.Mode != models.ModePlay {
				t.Errorf("entry %d: expected mode play, got %s", i, entry.Mode)
			}
		}
	})

	t.Run("ListByMode breaks timestamp ties by id", func(t *testing.T) {
		repo := newURLRepository(setupTestDB(t), fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

		want := []string{"XzorjCt7Cv8", "O8BThfcH-F4", "hRxJRkMXuZI"}
		for _, id := range want {
			if _, err := repo.Insert(ctx, models.ModeLearning, id); err != nil {
				t.Fatalf("failed to insert %s: %v", id, err)
			}
		}

		entries, err := repo.ListByMode(ctx, models.ModeLearning)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		for i, entry := range entries {
			if entry.VideoID != want[i] {
				t.Errorf("entry %d: expected %s, got %s", i, want[i], entry.VideoID)
			}
			if i > 0 && entry.ID <= entries[i-1].ID {
				t.Errorf("entry %d: ids not ascending (%d after %d)", i, entry.ID, entries[i-1].ID)
			}
		}
	})

	t.Run("ListByMode round-trips created_at", func(t *testing.T) {
		ts := time.Date(2026, 10, 19, 8, 30, 0, 123456789, time.UTC)
		repo := newURLRepository(setupTestDB(t), fixedClock(ts))

		if _, err := repo.Insert(ctx, models.ModeRelax, "Na0w3Mz46GA"); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}

		entries, err := repo.ListByMode(ctx, models.ModeRelax)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 1 || !entries[0].CreatedAt.Equal(ts) {
			t.Errorf("expected created_at %v, got %+v", ts, entries)
		}
	})

	t.Run("ListByMode empty mode", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		entries, err := repo.ListByMode(ctx, models.ModeRelax)
		if err != nil {
			t.Fatalf("expected no error for empty mode, got %v", err)
		}
		if entries == nil || len(entries) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", entries)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		keep, err := repo.Insert(ctx, models.ModeSleep, "035d3iiFej4")
		if err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		drop, err := repo.Insert(ctx, models.ModeSleep, "HAzZH6wccew")
		if err != nil {
			t.Fatalf("failed to insert: %v", err)
		}

		if err := repo.Remove(ctx, drop.ID); err != nil {
			t.Fatalf("failed to remove: %v", err)
		}

		entries, err := repo.ListByMode(ctx, models.ModeSleep)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != keep.ID {
			t.Errorf("expected only entry %d to remain, got %+v", keep.ID, entries)
		}
	})

	t.Run("Remove is idempotent", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		entry, err := repo.Insert(ctx, models.ModeSleep, "035d3iiFej4")
		if err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		if _, err := repo.Insert(ctx, models.ModeSleep, "HAzZH6wccew"); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}

		for i := 0; i < 2; i++ {
			if err := repo.Remove(ctx, entry.ID); err != nil {
				t.Fatalf("remove #%d: %v", i+1, err)
			}
		}
		if err := repo.Remove(ctx, 999999); err != nil {
			t.Fatalf("removing a missing id should not error: %v", err)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 entry to remain, got %d", count)
		}
	})

	t.Run("ids are never reused", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		first, err := repo.Insert(ctx, models.ModePlay, "REtbaAA4j7U")
		if err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		if err := repo.Remove(ctx, first.ID); err != nil {
			t.Fatalf("failed to remove: %v", err)
		}

		second, err := repo.Insert(ctx, models.ModePlay, "REtbaAA4j7U")
		if err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		if second.ID <= first.ID {
			t.Errorf("expected a fresh id greater than %d, got %d", first.ID, second.ID)
		}
	})

	t.Run("Count", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		for _, mode := range models.Modes {
			if _, err := repo.Insert(ctx, mode, models.DefaultVideos[mode][0]); err != nil {
				t.Fatalf("failed to insert: %v", err)
			}
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != len(models.Modes) {
			t.Errorf("expected %d, got %d", len(models.Modes), count)
		}
	})
}

// defaultSeed lists every default video, mode by mode.
func defaultSeed() []models.PlaylistEntry {
	var seed []models.PlaylistEntry
	for _, mode := range models.Modes {
		for _, id := range models.DefaultVideos[mode] {
			seed = append(seed, models.PlaylistEntry{Mode: mode, VideoID: id})
		}
	}
	return seed
}

func TestURLRepositorySeedIfEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds an empty table in order", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))
		seed := defaultSeed()

		n, err := repo.SeedIfEmpty(ctx, seed)
		if err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
		if n != len(seed) {
			t.Fatalf("expected %d rows written, got %d", len(seed), n)
		}

		for _, mode := range models.Modes {
			entries, err := repo.ListByMode(ctx, mode)
			if err != nil {
				t.Fatalf("failed to list %s: %v", mode, err)
			}
			want := models.DefaultVideos[mode]
			if len(entries) != len(want) {
				t.Fatalf("mode %s: expected %d entries, got %d", mode, len(want), len(entries))
			}
			for i, entry := range entries {
				if entry.VideoID != want[i] {
					t.Errorf("mode %s entry %d: expected %s, got %s", mode, i, want[i], entry.VideoID)
				}
			}
		}
	})

	t.Run("second call writes nothing", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		if _, err := repo.SeedIfEmpty(ctx, defaultSeed()); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
		n, err := repo.SeedIfEmpty(ctx, defaultSeed())
		if err != nil {
			t.Fatalf("failed to reseed: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 rows written on a seeded table, got %d", n)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != len(defaultSeed()) {
			t.Errorf("expected %d rows, got %d", len(defaultSeed()), count)
		}
	})

	t.Run("leaves a non-empty table alone", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		if _, err := repo.Insert(ctx, models.ModeRelax, "Na0w3Mz46GA"); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		n, err := repo.SeedIfEmpty(ctx, defaultSeed())
		if err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 rows written, got %d", n)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected the single existing row, got %d", count)
		}
	})

	t.Run("empty seed", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))

		n, err := repo.SeedIfEmpty(ctx, nil)
		if err != nil || n != 0 {
			t.Errorf("expected (0, nil), got (%d, %v)", n, err)
		}
	})

	t.Run("failure midway writes nothing", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewURLRepository(db)
		seed := defaultSeed()
		last := seed[len(seed)-1].VideoID

		trigger := `CREATE TRIGGER fail_last_seed BEFORE INSERT ON urls
			WHEN NEW.video_id = '` + last + `'
			BEGIN SELECT RAISE(ABORT, 'disk full'); END`
		if _, err := db.ExecContext(ctx, trigger); err != nil {
			t.Fatalf("failed to create trigger: %v", err)
		}

		if _, err := repo.SeedIfEmpty(ctx, seed); err == nil {
			t.Fatal("expected seeding to fail")
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected no rows after a failed seed, got %d", count)
		}

		if _, err := db.ExecContext(ctx, "DROP TRIGGER fail_last_seed"); err != nil {
			t.Fatalf("failed to drop trigger: %v", err)
		}

		n, err := repo.SeedIfEmpty(ctx, seed)
		if err != nil {
			t.Fatalf("failed to seed after recovery: %v", err)
		}
		if n != len(seed) {
			t.Errorf("expected %d rows written on retry, got %d", len(seed), n)
		}
	})

	t.Run("invalid row writes nothing", func(t *testing.T) {
		repo := NewURLRepository(setupTestDB(t))
		seed := append(defaultSeed(), models.PlaylistEntry{Mode: models.ModePlay, VideoID: "youtu.be/ab"})

		if _, err := repo.SeedIfEmpty(ctx, seed); !errors.Is(err, shared.ErrConstraint) {
			t.Fatalf("expected ErrConstraint, got %v", err)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 0 {
			t.Errorf("expected no rows, got %d", count)
		}
	})
}

func TestURLRepositoryConcurrentSeeding(t *testing.T) {
	ctx := context.Background()
	cfg := shared.DatabaseConfig{Path: filepath.Join(t.TempDir(), "babytube.db"), MaxOpenConns: 4, MaxIdleConns: 4, BusyTimeoutMS: 5000}

	// Separate handles stand in for separate processes starting at once.
	const n = 4
	repos := make([]*URLRepository, n)
	for i := range repos {
		db, err := shared.OpenDatabase(cfg)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		if _, err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		repos[i] = NewURLRepository(db)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		written []int
		errs    []error
	)
	for _, repo := range repos {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := repo.SeedIfEmpty(ctx, defaultSeed())

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			written = append(written, w)
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("concurrent seeding failed: %v", errs)
	}

	seeders := 0
	for _, w := range written {
		if w > 0 {
			seeders++
		}
	}
	if seeders != 1 {
		t.Errorf("expected exactly one seeder, got %d (%v)", seeders, written)
	}

	count, err := repos[0].Count(ctx)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != len(defaultSeed()) {
		t.Errorf("expected %d rows, got %d", len(defaultSeed()), count)
	}
}

func TestURLRepositoryDurability(t *testing.T) {
	ctx := context.Background()
	cfg := shared.DatabaseConfig{Path: filepath.Join(t.TempDir(), "babytube.db"), MaxOpenConns: 4, MaxIdleConns: 2, BusyTimeoutMS: 5000}

	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	entry, err := NewURLRepository(db).Insert(ctx, models.ModeSleep, "XGSSmQiqBl8")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	db.Close()

	db, err = shared.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()

	entries, err := NewURLRepository(db).ListByMode(ctx, models.ModeSleep)
	if err != nil {
		t.Fatalf("failed to list after reopen: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Errorf("expected entry %d to survive reopen, got %+v", entry.ID, entries)
	}
}

func TestURLRepositoryConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	cfg := shared.DatabaseConfig{Path: filepath.Join(t.TempDir(), "babytube.db"), MaxOpenConns: 4, MaxIdleConns: 4, BusyTimeoutMS: 5000}

	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if _, err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	repo := NewURLRepository(db)

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
		errs []error
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := repo.Insert(ctx, models.ModePlay, "CaqHOvgAnO0")

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			seen[entry.ID] = true
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("concurrent inserts failed: %v", errs)
	}
	if len(seen) != n {
		t.Errorf("expected %d unique ids, got %d", n, len(seen))
	}
}
