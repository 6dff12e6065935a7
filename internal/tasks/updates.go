package tasks

import (
	"fmt"

	"github.com/desertthunder/babytube/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchEntries Phase = iota
	FetchTitles
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchEntries:
		return "fetch_entries"
	case FetchTitles:
		return "fetch_titles"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func fetchEntriesUpdate(mode models.Mode) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching %s playlist...", mode),
	}
}

func titleFetchedUpdate(step, total int, videoID, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s %s", step, total, videoID, title),
	}
}

func titleFailedUpdate(step, total int, videoID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, videoID, err),
	}
}

func exportWrittenUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %d videos to %s", count, path),
		Data:    path,
	}
}
