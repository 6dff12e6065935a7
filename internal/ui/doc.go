// Package ui implements the interactive player surface using bubbletea's Elm architecture.
//
// The screen shows one tab per mode and the active mode's list:
//  1. [BrowseView] : pick a mode (1-4, tab), play (n for next, enter for the highlighted video),
//     delete (d) or refresh (r)
//  2. [AddView] : paste a URL or ID (a), submitted with enter and normalized by the catalog
//
// The [Model] reads through a cache.PlaylistCache, so every mode switch and mutation re-fetches the
// list wholesale. Catalog calls run as tea.Cmds and come back as [Msg] values. Titles are resolved in
// the background through the tasks engine and shown in place of bare IDs once they arrive.
//
// Keyboard help is rendered with charmbracelet/bubbles/help.
package ui
