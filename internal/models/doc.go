// Package models defines the playlist domain: the closed set of playback [Mode] values,
// the persisted [PlaylistEntry] record, and [NormalizeVideoID], which turns whatever a
// caregiver pastes (a bare ID, a youtu.be short link, an embed or watch URL) into the
// canonical 11-character video ID.
//
// Nothing in this package touches storage or the network.
package models
