package services

import (
	"context"

	"github.com/desertthunder/babytube/internal/models"
)

// Catalog is the playlist surface shared by the local catalog service and [APIService].
type Catalog interface {
	// ListURLs returns the entries of mode in store order.
	ListURLs(ctx context.Context, mode string) ([]models.PlaylistEntry, error)

	// AddURL normalizes raw and stores it under mode.
	AddURL(ctx context.Context, mode, raw string) (*models.PlaylistEntry, error)

	// RemoveURL deletes the entry with id. Unknown ids are not an error.
	RemoveURL(ctx context.Context, mode string, id int64) error

	// Next picks the video to play after current.
	Next(ctx context.Context, mode, current string) (string, error)
}

// TitleService resolves a canonical video ID to a human readable title.
type TitleService interface {
	Title(ctx context.Context, videoID string) (string, error)
}
