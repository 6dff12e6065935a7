package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/babytube/internal/shared"
)

// Mode is one of the four fixed playback categories.
type Mode string

const (
	ModeSleep    Mode = "sleep"
	ModeRelax    Mode = "relax"
	ModePlay     Mode = "play"
	ModeLearning Mode = "learning"
)

// Modes lists every valid [Mode] in display order.
var Modes = []Mode{ModeSleep, ModeRelax, ModePlay, ModeLearning}

// Valid reports whether m belongs to the closed enumeration.
func (m Mode) Valid() bool {
	switch m {
	case ModeSleep, ModeRelax, ModePlay, ModeLearning:
		return true
	}
	return false
}

func (m Mode) String() string { return string(m) }

// ParseMode validates s against the enumeration. Matching is exact: "Sleep" is rejected.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (expected one of %s)", shared.ErrInvalidMode, s, ModeNames())
	}
	return m, nil
}

// ModeNames returns the valid modes as a comma-separated string for messages and usage text.
func ModeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// PlaylistEntry is a single video registered under a mode. Entries are never updated;
// changing a video means removing the entry and adding a new one.
type PlaylistEntry struct {
	ID        int64     `json:"id"`
	Mode      Mode      `json:"mode"`
	VideoID   string    `json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
}

// VideoIDs extracts the video IDs of entries, preserving order.
func VideoIDs(entries []PlaylistEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.VideoID
	}
	return ids
}

// DefaultVideos are seeded into an empty store so the player is usable on first run.
var DefaultVideos = map[Mode][]string{
	ModeSleep:    {"035d3iiFej4", "HAzZH6wccew", "XGSSmQiqBl8"},
	ModeRelax:    {"Na0w3Mz46GA", "P6tFwmw2OEY", "n2-beumXxEM"},
	ModePlay:     {"REtbaAA4j7U", "BW4H15rK6iI", "CaqHOvgAnO0"},
	ModeLearning: {"XzorjCt7Cv8", "O8BThfcH-F4", "hRxJRkMXuZI"},
}
