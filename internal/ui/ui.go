package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/babytube/internal/cache"
	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/shared"
	"github.com/desertthunder/babytube/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	AddView
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusErr
)

// Player starts playback of a video, typically by opening its watch URL.
type Player func(videoID string) error

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	cache  *cache.PlaylistCache
	engine *tasks.Engine
	play   Player
	width  int
	height int
	list   list.Model
	input  textinput.Model
	titles map[string]string
	status string
	kind   statusKind
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model. engine may be nil to disable titles; play defaults to
// [shared.OpenVideo].
func NewModel(ctx context.Context, c *cache.PlaylistCache, engine *tasks.Engine, play Player) *Model {
	if play == nil {
		play = shared.OpenVideo
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("video", "videos")

	input := textinput.New()
	input.Placeholder = "https://youtu.be/... or an 11 character video ID"
	input.CharLimit = 512
	input.Prompt = "URL › "

	return &Model{
		ctx:    ctx,
		view:   BrowseView,
		cache:  c,
		engine: engine,
		play:   play,
		list:   l,
		input:  input,
		titles: map[string]string{},
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init loads the active mode.
func (m *Model) Init() tea.Cmd {
	return m.loadMode(m.cache.Mode())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, max(msg.Height-8, 1))
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case tea.KeyMsg:
		if m.view == AddView {
			return m.handleAddKeys(msg)
		}
		return m.handleBrowseKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgEntriesLoaded:
		data := msg.data.(entriesLoaded)
		if data.err != nil {
			m.setStatus(statusErr, "failed to load %s: %v", data.mode, data.err)
			return m, nil
		}
		m.setEntries(data.entries)
		m.setStatus(statusInfo, "%s • %s", data.mode, pluralVideos(len(data.entries)))
		return m, m.fetchTitles(data.entries)

	case MsgVideoAdded:
		data := msg.data.(videoAdded)
		if data.err != nil {
			m.setStatus(statusErr, "could not add: %v", data.err)
			return m, nil
		}
		m.view = BrowseView
		m.input.Reset()
		m.input.Blur()
		m.setEntries(data.entries)
		m.selectVideo(data.entry.ID)
		m.setStatus(statusOK, "added %s to %s", data.entry.VideoID, m.cache.Mode())
		return m, m.fetchTitles(data.entries)

	case MsgVideoRemoved:
		data := msg.data.(videoRemoved)
		if data.err != nil {
			m.setStatus(statusErr, "could not delete #%d: %v", data.id, data.err)
			return m, nil
		}
		m.setEntries(data.entries)
		m.setStatus(statusOK, "deleted #%d", data.id)
		return m, nil

	case MsgTitlesFetched:
		data := msg.data.(titlesFetched)
		for id, title := range data.titles {
			m.titles[id] = title
		}
		m.setEntries(m.cache.Entries())
		return m, nil

	case MsgVideoPlayed:
		data := msg.data.(videoPlayed)
		if data.err != nil {
			m.setStatus(statusErr, "could not open %s: %v", data.videoID, data.err)
			return m, nil
		}
		m.setEntries(m.cache.Entries())
		m.setStatus(statusOK, "playing %s", m.label(data.videoID))
		return m, nil
	}
	return m, nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.mode):
		idx := int(msg.String()[0] - '1')
		return m, m.loadMode(models.Modes[idx])

	case key.Matches(msg, m.keys.tab):
		return m, m.loadMode(shiftMode(m.cache.Mode(), 1))

	case key.Matches(msg, m.keys.backTab):
		return m, m.loadMode(shiftMode(m.cache.Mode(), -1))

	case key.Matches(msg, m.keys.next):
		videoID, err := m.cache.Next()
		if errors.Is(err, shared.ErrNoCandidates) {
			m.setStatus(statusWarn, "nothing to play in %s", m.cache.Mode())
			return m, nil
		}
		if err != nil {
			m.setStatus(statusErr, "%v", err)
			return m, nil
		}
		return m, m.playVideo(videoID)

	case key.Matches(msg, m.keys.play):
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			m.cache.SetCurrent(item.entry.VideoID)
			return m, m.playVideo(item.entry.VideoID)
		}
		return m, nil

	case key.Matches(msg, m.keys.add):
		m.view = AddView
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.remove):
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			return m, m.removeVideo(item.entry.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		return m, m.loadMode(m.cache.Mode())
	}

	return m.updateList(msg)
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = BrowseView
		m.input.Blur()
		m.setStatus(statusInfo, "add cancelled")
		return m, nil
	case "enter":
		raw := strings.TrimSpace(m.input.Value())
		if raw == "" {
			m.setStatus(statusWarn, "paste a YouTube URL or video ID")
			return m, nil
		}
		return m, m.addVideo(raw)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) loadMode(mode models.Mode) tea.Cmd {
	return func() tea.Msg {
		err := m.cache.SwitchMode(m.ctx, mode.String())
		return entriesLoadedMsg(mode, m.cache.Entries(), err)
	}
}

func (m *Model) addVideo(raw string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.cache.Add(m.ctx, raw)
		return videoAddedMsg(entry, m.cache.Entries(), err)
	}
}

func (m *Model) removeVideo(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.cache.Remove(m.ctx, id)
		return videoRemovedMsg(id, m.cache.Entries(), err)
	}
}

func (m *Model) playVideo(videoID string) tea.Cmd {
	return func() tea.Msg {
		return videoPlayedMsg(videoID, m.play(videoID))
	}
}

// fetchTitles resolves titles not yet known for entries. Returns nil when there is nothing to do.
func (m *Model) fetchTitles(entries []models.PlaylistEntry) tea.Cmd {
	if m.engine == nil {
		return nil
	}

	var missing []string
	for _, e := range entries {
		if _, ok := m.titles[e.VideoID]; !ok {
			missing = append(missing, e.VideoID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return func() tea.Msg {
		result, err := m.engine.PrefetchTitles(m.ctx, nil, missing, tasks.PrefetchOpts{})
		if result == nil {
			return titlesFetchedMsg(nil, err)
		}
		return titlesFetchedMsg(result.Titles, err)
	}
}

func (m *Model) setEntries(entries []models.PlaylistEntry) {
	m.list.SetItems(entryItems(entries, m.titles, m.cache.Current()))
}

func (m *Model) selectVideo(id int64) {
	for i, item := range m.list.Items() {
		if e, ok := item.(entryItem); ok && e.entry.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) setStatus(kind statusKind, format string, args ...any) {
	m.kind = kind
	m.status = fmt.Sprintf(format, args...)
}

func (m *Model) label(videoID string) string {
	if title := m.titles[videoID]; title != "" {
		return title
	}
	return videoID
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("babytube"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.view {
	case AddView:
		b.WriteString(fmt.Sprintf("Add a video to %s\n\n", m.cache.Mode()))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.back}))
	default:
		if len(m.list.Items()) == 0 {
			b.WriteString(styles.help.Render("No videos in this mode. Press a to add one."))
			b.WriteString("\n")
		} else {
			b.WriteString(m.list.View())
			b.WriteString("\n")
		}
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}

	return b.String()
}

func (m *Model) renderTabs() string {
	active := m.cache.Mode()
	tabs := make([]string, len(models.Modes))
	for i, mode := range models.Modes {
		label := fmt.Sprintf("%d %s", i+1, mode)
		if mode == active {
			tabs[i] = styles.activeTab.Render(label)
		} else {
			tabs[i] = styles.tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderStatus() string {
	switch m.kind {
	case statusOK:
		return styles.ok.Render(m.status)
	case statusWarn:
		return styles.warn.Render(m.status)
	case statusErr:
		return styles.err.Render(m.status)
	default:
		return styles.help.Render(m.status)
	}
}

// shiftMode returns the mode delta positions after m, wrapping around.
func shiftMode(m models.Mode, delta int) models.Mode {
	n := len(models.Modes)
	for i, mode := range models.Modes {
		if mode == m {
			return models.Modes[((i+delta)%n+n)%n]
		}
	}
	return models.Modes[0]
}

func pluralVideos(n int) string {
	if n == 1 {
		return "1 video"
	}
	return fmt.Sprintf("%d videos", n)
}
