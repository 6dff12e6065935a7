package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/shared"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.PlaylistEntry] to implement [list.Item].
type entryItem struct {
	entry   models.PlaylistEntry
	title   string
	playing bool
}

func (i entryItem) FilterValue() string { return i.Title() }

func (i entryItem) Title() string {
	label := i.entry.VideoID
	if i.title != "" {
		label = i.title
	}
	if i.playing {
		return "▶ " + label
	}
	return label
}

func (i entryItem) Description() string {
	return fmt.Sprintf("#%d • %s", i.entry.ID, shared.WatchURL(i.entry.VideoID))
}

func entryItems(entries []models.PlaylistEntry, titles map[string]string, current string) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e, title: titles[e.VideoID], playing: e.VideoID == current}
	}
	return items
}
