// package formatter renders a mode's playlist to JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat accepts a format name (md is an alias for markdown, text for txt).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want json, csv, markdown or txt)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Export is one mode's list, with optional display titles keyed by video ID.
type Export struct {
	Mode       models.Mode
	Entries    []models.PlaylistEntry
	Titles     map[string]string
	ExportedAt time.Time
}

// Title returns the known title for videoID, or "".
func (e *Export) Title(videoID string) string {
	if e.Titles == nil {
		return ""
	}
	return e.Titles[videoID]
}

type jsonEntry struct {
	ID        int64     `json:"id"`
	VideoID   string    `json:"videoId"`
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type jsonExport struct {
	Mode       models.Mode `json:"mode"`
	ExportedAt time.Time   `json:"exportedAt"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

// ExportToJSON renders export as an indented JSON document.
func ExportToJSON(export *Export) ([]byte, error) {
	doc := jsonExport{
		Mode:       export.Mode,
		ExportedAt: export.ExportedAt.UTC(),
		Count:      len(export.Entries),
		Entries:    make([]jsonEntry, 0, len(export.Entries)),
	}
	for _, e := range export.Entries {
		doc.Entries = append(doc.Entries, jsonEntry{
			ID:        e.ID,
			VideoID:   e.VideoID,
			Title:     export.Title(e.VideoID),
			URL:       shared.WatchURL(e.VideoID),
			CreatedAt: e.CreatedAt.UTC(),
		})
	}
	return shared.MarshalJSON(doc, true)
}

// ExportToCSV converts an Export to CSV with columns: ID, Video ID, Title, URL, Created At
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Video ID", "Title", "URL", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range export.Entries {
		created := ""
		if !e.CreatedAt.IsZero() {
			created = e.CreatedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.VideoID,
			export.Title(e.VideoID),
			shared.WatchURL(e.VideoID),
			created,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading for the mode and a numbered list of links.
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", modeHeading(export.Mode))
	fmt.Fprintf(&buf, "**Videos**: %d\n\n", len(export.Entries))

	for i, e := range export.Entries {
		label := export.Title(e.VideoID)
		if label == "" {
			label = e.VideoID
		}
		fmt.Fprintf(&buf, "%d. [%s](%s)\n", i+1, escapeMarkdown(label), shared.WatchURL(e.VideoID))
	}

	return buf.Bytes(), nil
}

// ExportToText lists one watch URL per line, followed by the title when known.
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Mode: %s\n", export.Mode)
	fmt.Fprintf(&buf, "Videos: %d\n\n", len(export.Entries))

	for _, e := range export.Entries {
		if title := export.Title(e.VideoID); title != "" {
			fmt.Fprintf(&buf, "%s  %s\n", shared.WatchURL(e.VideoID), title)
			continue
		}
		fmt.Fprintf(&buf, "%s\n", shared.WatchURL(e.VideoID))
	}

	return buf.Bytes(), nil
}

// Render encodes export in format.
func Render(export *Export, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders export and writes it to path.
//
// Defaults to {mode}.{ext} in the working directory. Returns the path written.
func WriteExport(export *Export, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.%s", export.Mode, format.Extension())
	}

	data, err := Render(export, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}

	return path, nil
}

func modeHeading(m models.Mode) string {
	s := m.String()
	if s == "" {
		return "Playlist"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`, "`", "\\`")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
