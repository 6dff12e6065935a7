package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/babytube/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgEntriesLoaded MsgKind = iota
	MsgVideoAdded
	MsgVideoRemoved
	MsgTitlesFetched
	MsgVideoPlayed
)

type entriesLoaded struct {
	mode    models.Mode
	entries []models.PlaylistEntry
	err     error
}

type videoAdded struct {
	entry   *models.PlaylistEntry
	entries []models.PlaylistEntry
	err     error
}

type videoRemoved struct {
	id      int64
	entries []models.PlaylistEntry
	err     error
}

type titlesFetched struct {
	titles map[string]string
	err    error
}

type videoPlayed struct {
	videoID string
	err     error
}

// entriesLoadedMsg is the constructor for [MsgEntriesLoaded]
func entriesLoadedMsg(mode models.Mode, entries []models.PlaylistEntry, err error) Msg {
	return Msg{kind: MsgEntriesLoaded, data: entriesLoaded{mode, entries, err}}
}

// videoAddedMsg is the constructor for [MsgVideoAdded]
func videoAddedMsg(entry *models.PlaylistEntry, entries []models.PlaylistEntry, err error) Msg {
	return Msg{kind: MsgVideoAdded, data: videoAdded{entry, entries, err}}
}

// videoRemovedMsg is the constructor for [MsgVideoRemoved]
func videoRemovedMsg(id int64, entries []models.PlaylistEntry, err error) Msg {
	return Msg{kind: MsgVideoRemoved, data: videoRemoved{id, entries, err}}
}

// titlesFetchedMsg is the constructor for [MsgTitlesFetched]
func titlesFetchedMsg(titles map[string]string, err error) Msg {
	return Msg{kind: MsgTitlesFetched, data: titlesFetched{titles, err}}
}

// videoPlayedMsg is the constructor for [MsgVideoPlayed]
func videoPlayedMsg(videoID string, err error) Msg {
	return Msg{kind: MsgVideoPlayed, data: videoPlayed{videoID, err}}
}
