// Package tui provides the interactive collection picker: browse the
// cached collection, mark albums, and watch them synchronize.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/handiism/bcdl/internal/bandcamp"
	"github.com/handiism/bcdl/internal/collection"
	"github.com/handiism/bcdl/internal/config"
	"github.com/handiism/bcdl/internal/download"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StatePicking
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// eventBuffer collects progress events emitted from the sync goroutine
// so the update loop can drain them on its own schedule.
type eventBuffer struct {
	mu     sync.Mutex
	events []download.ProgressEvent
}

func (b *eventBuffer) add(event download.ProgressEvent) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

func (b *eventBuffer) drain() []download.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

// Model is the Bubble Tea model for the picker.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings

	items    []bandcamp.CollectionItem
	cursor   int
	selected map[int]bool

	logs    []LogEntry
	results []download.AlbumResult
	err     error

	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  *eventBuffer

	filesDone     int64
	filesTotal    int64
	bytesReceived int64

	width  int
	height int
}

// NewModel creates the picker model for the given settings.
func NewModel(settings *config.Settings) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		settings: settings,
		selected: make(map[int]bool),
		events:   new(eventBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadItems(), m.spinner.Tick)
}

// Message types
type (
	// ItemsLoadedMsg is sent when the cached collection has been read.
	ItemsLoadedMsg struct {
		Items []bandcamp.CollectionItem
		Err   error
	}

	// SyncDoneMsg is sent when all selected albums finished.
	SyncDoneMsg struct {
		Results []download.AlbumResult
	}

	// TickMsg drives progress and log updates while downloading.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StatePicking {
				return m, tea.Quit
			}
			if m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "up", "k":
			if m.state == StatePicking && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == StatePicking && m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case " ":
			if m.state == StatePicking {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}

		case "a":
			if m.state == StatePicking {
				for i := range m.items {
					m.selected[i] = true
				}
			}

		case "n":
			if m.state == StatePicking {
				m.selected = make(map[int]bool)
			}

		case "enter":
			if m.state == StatePicking && len(m.picked()) > 0 {
				m.state = StateDownloading
				return m, tea.Batch(m.startSync(), m.tickProgress(), m.spinner.Tick)
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ItemsLoadedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.items = msg.Items
			m.state = StatePicking
		}

	case SyncDoneMsg:
		m.results = msg.Results
		m.drainEvents()
		m.syncProgress()
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateDownloading {
			m.drainEvents()
			m.syncProgress()

			var percent float64
			if m.filesTotal > 0 {
				percent = float64(m.filesDone) / float64(m.filesTotal)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) drainEvents() {
	for _, event := range m.events.drain() {
		m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	}
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

func (m *Model) syncProgress() {
	if m.manager == nil {
		return
	}
	snapshot := m.manager.Progress()
	m.filesDone = snapshot.FilesDone
	m.filesTotal = snapshot.FilesTotal
	m.bytesReceived = snapshot.BytesReceived
}

func (m Model) picked() []bandcamp.CollectionItem {
	var items []bandcamp.CollectionItem
	for i, item := range m.items {
		if m.selected[i] {
			items = append(items, item)
		}
	}
	return items
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// loadItems reads the cached collection from disk.
func (m *Model) loadItems() tea.Cmd {
	return func() tea.Msg {
		store, err := collection.Open(m.settings.CachePath)
		if err != nil {
			return ItemsLoadedMsg{Err: fmt.Errorf("open collection cache: %w", err)}
		}
		defer store.Close()

		all, err := store.List()
		if err != nil {
			return ItemsLoadedMsg{Err: err}
		}

		items := make([]bandcamp.CollectionItem, 0, len(all))
		for _, item := range all {
			if item.Purchased {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return ItemsLoadedMsg{Err: fmt.Errorf("collection cache is empty, run `bcdl refresh` first")}
		}
		return ItemsLoadedMsg{Items: items}
	}
}

// startSync kicks off the download of the selected albums.
func (m *Model) startSync() tea.Cmd {
	picked := m.picked()
	manager := download.NewManager(m.settings, nil, m.events.add)
	m.manager = manager
	ctx := m.ctx

	return func() tea.Msg {
		reqs := make([]download.AlbumRequest, 0, len(picked))
		for _, item := range picked {
			reqs = append(reqs, download.AlbumRequest{URL: item.ItemURL, ArtURL: item.ItemArtURL})
		}
		return SyncDoneMsg{Results: manager.Sync(ctx, reqs)}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("bcdl"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Synchronize your collection"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.viewLoading())
	case StatePicking:
		b.WriteString(m.viewPicking())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewLoading() string {
	return m.spinner.View() + " " + subtitleStyle.Render("Loading collection...") + "\n"
}

func (m Model) viewPicking() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d albums in collection, %d selected:",
		len(m.items), len(m.picked()))))
	b.WriteString("\n\n")

	// Window the list around the cursor so long collections stay usable.
	visible := 15
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := start; i < end; i++ {
		item := m.items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s%s %s - %s", cursor, check, item.BandName, item.AlbumTitle)
		if i == m.cursor {
			b.WriteString(albumStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Downloading %d album(s)...", len(m.picked()))))
	b.WriteString("\n\n")

	var percent float64
	if m.filesTotal > 0 {
		percent = float64(m.filesDone) / float64(m.filesTotal)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Received: %s",
		m.filesDone,
		m.filesTotal,
		humanize.Bytes(uint64(m.bytesReceived)),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var succeeded, skipped, failed int
	var albumErrs int
	for _, result := range m.results {
		if result.Err != nil {
			albumErrs++
			continue
		}
		s, k, f := result.Report.Counts()
		succeeded += s
		skipped += k
		failed += f
	}

	body := fmt.Sprintf(
		"Done.\n\nAlbums: %d (%d failed)\nFiles: %d downloaded, %d skipped, %d failed\nReceived: %s",
		len(m.results), albumErrs,
		succeeded, skipped, failed,
		humanize.Bytes(uint64(m.bytesReceived)),
	)
	return boxStyle.Render(body)
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "*"
		switch log.Level {
		case download.ProgressError:
			style = errorStyle
			prefix = "x"
		case download.ProgressWarning:
			style = warningStyle
			prefix = "!"
		case download.ProgressSuccess:
			style = successStyle
			prefix = "+"
		case download.ProgressInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StatePicking:
		return "space: toggle | a: all | n: none | enter: download | esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// Run starts the picker for the given settings.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
