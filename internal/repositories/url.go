package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/shared"
)

// URLRepository stores [models.PlaylistEntry] rows partitioned by mode.
type URLRepository struct {
	db  querier
	now func() time.Time
}

// NewURLRepository creates a new URLRepository with the given database connection
func NewURLRepository(db *sql.DB) *URLRepository {
	return newURLRepository(db, time.Now)
}

func newURLRepository(db querier, now func() time.Time) *URLRepository {
	return &URLRepository{db: db, now: now}
}

// ListByMode returns the entries of mode in insertion order (created_at, then id).
//
// A mode with no entries yields an empty, non-nil slice.
func (r *URLRepository) ListByMode(ctx context.Context, mode models.Mode) ([]models.PlaylistEntry, error) {
	query := `
		SELECT id, mode, video_id, created_at
		FROM urls
		WHERE mode = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, string(mode))
	if err != nil {
		return nil, wrapStorageErr("list urls", err)
	}
	defer rows.Close()

	entries := []models.PlaylistEntry{}
	for rows.Next() {
		var (
			entry     models.PlaylistEntry
			rawMode   string
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &rawMode, &entry.VideoID, &createdAt); err != nil {
			return nil, wrapStorageErr("scan url", err)
		}
		entry.Mode = models.Mode(rawMode)
		entry.CreatedAt = time.Unix(0, createdAt).UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("row iteration", err)
	}

	return entries, nil
}

// checkRow enforces the row invariants the schema cannot express fully.
func checkRow(mode models.Mode, videoID string) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: mode %q is not one of %s", shared.ErrConstraint, mode, models.ModeNames())
	}
	if !models.IsCanonicalVideoID(videoID) {
		return fmt.Errorf("%w: video id %q is not canonical", shared.ErrConstraint, videoID)
	}
	return nil
}

// Insert stores videoID under mode and returns the entry with its assigned ID and timestamp.
//
// An invalid mode or a non-canonical video ID fails with [shared.ErrConstraint] without
// reaching the database.
func (r *URLRepository) Insert(ctx context.Context, mode models.Mode, videoID string) (*models.PlaylistEntry, error) {
	if err := checkRow(mode, videoID); err != nil {
		return nil, err
	}

	createdAt := r.now().UTC()

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO urls (mode, video_id, created_at) VALUES (?, ?, ?)",
		string(mode), videoID, createdAt.UnixNano(),
	)
	if err != nil {
		return nil, wrapStorageErr("insert url", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, wrapStorageErr("last insert id", err)
	}

	return &models.PlaylistEntry{
		ID:        id,
		Mode:      mode,
		VideoID:   videoID,
		CreatedAt: createdAt,
	}, nil
}

// SeedIfEmpty inserts seed, in order, only when the table holds no rows at all, and returns
// the number of rows written.
//
// The emptiness check and every insert run as a single statement: either all of seed lands
// or none of it does, and a second seeder blocks on the write lock and then finds rows.
func (r *URLRepository) SeedIfEmpty(ctx context.Context, seed []models.PlaylistEntry) (int, error) {
	if len(seed) == 0 {
		return 0, nil
	}

	base := r.now().UTC().UnixNano()
	rows := make([]string, len(seed))
	args := make([]any, 0, len(seed)*3)
	for i, e := range seed {
		if err := checkRow(e.Mode, e.VideoID); err != nil {
			return 0, err
		}
		rows[i] = "SELECT ?, ?, ?"
		if i == 0 {
			rows[i] = "SELECT ? AS mode, ? AS video_id, ? AS created_at"
		}
		args = append(args, string(e.Mode), e.VideoID, base+int64(i))
	}

	query := `
		INSERT INTO urls (mode, video_id, created_at)
		SELECT mode, video_id, created_at
		FROM (` + strings.Join(rows, " UNION ALL ") + `)
		WHERE NOT EXISTS (SELECT 1 FROM urls)
		ORDER BY created_at
	`

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapStorageErr("seed urls", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, wrapStorageErr("rows affected", err)
	}
	return int(n), nil
}

// Remove deletes the entry with id. Deleting an ID that does not exist is a no-op.
func (r *URLRepository) Remove(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM urls WHERE id = ?", id); err != nil {
		return wrapStorageErr("delete url", err)
	}
	return nil
}

// Count returns the number of entries across all modes.
func (r *URLRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM urls").Scan(&count); err != nil {
		return 0, wrapStorageErr("count urls", err)
	}
	return count, nil
}
