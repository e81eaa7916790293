package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brianlovin/hn-cli-sub000/internal/cache"
	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/coord"
	"github.com/brianlovin/hn-cli-sub000/internal/logging"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
	"github.com/brianlovin/hn-cli-sub000/internal/otel"
)

// AppConfig wires the App to the rest of the program. Every hook may be
// nil.
type AppConfig struct {
	// Refresh runs a ranking pass and yields coord.ItemsLoaded.
	Refresh func() tea.Cmd
	// LoadRead yields ReadLoaded for ids.
	LoadRead func(ids []int) tea.Cmd
	// MarkRead yields ItemMarkedRead.
	MarkRead func(id int) tea.Cmd

	Generator    *coord.Generator
	Cache        *cache.Store
	SettingsPath string

	// Session is restored when it has items.
	Session cache.SessionSnapshot

	Provider string
	Ring     *otel.Ring
	Now      func() time.Time
}

// App is the root Bubble Tea model.
// App does not do I/O itself; it receives results via messages.
type App struct {
	cfg AppConfig
	gen *coord.Generator

	items     []model.Item
	read      map[int]bool
	cursor    int
	root      int
	rootLines []int
	fetchedAt time.Time

	filter         config.FilterConfig
	showSettings   bool
	settingsCursor int
	showDebug      bool
	typing         bool

	input  textinput.Model
	detail viewport.Model

	err     error
	status  string
	width   int
	height  int
	ready   bool
	loading bool
}

// NewApp creates an App, restoring cfg.Session when it carries items.
func NewApp(cfg AppConfig) App {
	if cfg.Generator == nil {
		cfg.Generator = coord.NewGenerator(nil, coord.Options{})
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	in := textinput.New()
	in.Placeholder = "Ask about this story…"
	in.CharLimit = 2000
	in.Prompt = "› "

	a := App{
		cfg:    cfg,
		gen:    cfg.Generator,
		read:   map[int]bool{},
		filter: config.DefaultFilterConfig(),
		input:  in,
		detail: viewport.New(0, 0),
	}
	if cfg.SettingsPath != "" {
		f, err := config.LoadFilterConfig(cfg.SettingsPath)
		if err != nil {
			logging.Warn("ui: settings unreadable, using defaults", "error", err)
		}
		a.filter = f
	}

	s := cfg.Session
	if s.HasItems() {
		a.items = s.Items
		a.cursor = restoredCursor(s)
		a.root = max(s.RootCommentIndex, 0)
		a.fetchedAt = s.FetchedAt
		a.showSettings = s.ShowSettings
		if s.ChatMode {
			a.typing = true
			a.input.Focus()
		}
	} else {
		a.loading = cfg.Refresh != nil
	}
	return a
}

// restoredCursor prefers the saved item's current position over the saved
// index.
func restoredCursor(s cache.SessionSnapshot) int {
	if s.SelectedItem != nil {
		for i, it := range s.Items {
			if it.ID == s.SelectedItem.ID {
				return i
			}
		}
	}
	if s.SelectedIndex >= 0 && s.SelectedIndex < len(s.Items) {
		return s.SelectedIndex
	}
	return 0
}

// Init restores generation for the selected item or starts the first
// ranking pass.
func (a App) Init() tea.Cmd {
	if len(a.items) == 0 {
		if a.cfg.Refresh != nil {
			return a.cfg.Refresh()
		}
		return nil
	}
	return tea.Batch(a.selectCurrent(), a.loadRead(), textinput.Blink)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.gen.Handle(msg); ok {
		a.syncDetail()
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd := a.handleKeyMsg(msg)
		m.syncDetail()
		return m, cmd

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		a.syncDetail()
		return a, nil

	case coord.ItemsLoaded:
		a.loading = false
		if msg.Err != nil {
			// keep whatever list we had
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		prev, hadPrev := a.current()
		a.items = msg.Items
		a.fetchedAt = msg.FetchedAt
		a.cursor = 0
		if hadPrev {
			for i, it := range a.items {
				if it.ID == prev.ID {
					a.cursor = i
					break
				}
			}
		}
		if cur, ok := a.current(); !ok || !hadPrev || cur.ID != prev.ID {
			a.root = 0
			a.detail.GotoTop()
		}
		a.syncDetail()
		return a, tea.Batch(a.selectCurrent(), a.loadRead(), a.saveSession())

	case ReadLoaded:
		if msg.Err != nil {
			logging.Warn("ui: read history unavailable", "error", msg.Err)
		}
		for id, r := range msg.Read {
			if r {
				a.read[id] = true
			}
		}
		return a, nil

	case ItemMarkedRead:
		a.read[msg.ID] = true
		return a, nil

	case SettingsSaved:
		if msg.Err != nil {
			a.err = msg.Err
		} else {
			a.status = "settings saved · r to refresh"
		}
		return a, nil

	case CachesCleared:
		a.status = "caches cleared"
		return a, nil
	}

	if a.typing {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (App, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.typing {
		return a.handleInputKey(msg)
	}
	if a.showSettings {
		return a.handleSettingsKey(msg)
	}

	// any key dismisses the error and status line
	a.err = nil
	a.status = ""

	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "j", "down":
		return a.moveTo(a.cursor + 1)

	case "k", "up":
		return a.moveTo(a.cursor - 1)

	case "g", "home":
		return a.moveTo(0)

	case "G", "end":
		return a.moveTo(len(a.items) - 1)

	case "n":
		return a.moveRoot(a.root + 1)

	case "p":
		return a.moveRoot(a.root - 1)

	case "pgdown", "ctrl+d", " ":
		a.detail.HalfViewDown()
		return a, nil

	case "pgup", "ctrl+u":
		a.detail.HalfViewUp()
		return a, nil

	case "tab", "c":
		return a.toggleChat()

	case "enter", "i":
		if item, ok := a.current(); ok && a.gen.ViewMode(item.ID) == model.ViewChat {
			a.typing = true
			a.layout()
			return a, tea.Batch(a.input.Focus(), a.saveSession())
		}
		return a, nil

	case "1", "2", "3", "4", "5":
		item, ok := a.current()
		if !ok || a.gen.ViewMode(item.ID) != model.ViewChat {
			return a, nil
		}
		idx := int(msg.String()[0] - '1')
		return a, a.gen.ChooseSuggestion(item, idx)

	case "C":
		if item, ok := a.current(); ok && a.gen.ViewMode(item.ID) == model.ViewChat {
			return a, a.gen.ResetChat(item)
		}
		return a, nil

	case "esc":
		if item, ok := a.current(); ok {
			a.gen.CancelChat(item.ID)
		}
		return a, nil

	case "R":
		if item, ok := a.current(); ok {
			return a, a.gen.Regenerate(item)
		}
		return a, nil

	case "r":
		return a.refresh()

	case "s":
		a.showSettings = true
		return a, a.saveSession()

	case "D":
		a.showDebug = !a.showDebug
		return a, nil

	case "X":
		return a.clearCaches()
	}
	return a, nil
}

func (a App) handleInputKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.typing = false
		a.input.Blur()
		a.layout()
		return a, a.saveSession()

	case "enter":
		item, ok := a.current()
		text := strings.TrimSpace(a.input.Value())
		if !ok || text == "" {
			return a, nil
		}
		a.input.Reset()
		cmd := a.gen.SendChat(item, text)
		a.detail.GotoBottom()
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleSettingsKey(msg tea.KeyMsg) (App, tea.Cmd) {
	knobs := config.Knobs()
	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "s", "esc":
		a.showSettings = false
		return a, a.saveSession()

	case "j", "down":
		a.settingsCursor = min(a.settingsCursor+1, len(knobs)-1)

	case "k", "up":
		a.settingsCursor = max(a.settingsCursor-1, 0)

	case "+", "=", "l", "right":
		return a.stepKnob(knobs[a.settingsCursor].Key, 1)

	case "-", "h", "left":
		return a.stepKnob(knobs[a.settingsCursor].Key, -1)

	case "r":
		a.showSettings = false
		return a.refresh()
	}
	return a, nil
}

func (a App) stepKnob(key string, dir int) (App, tea.Cmd) {
	cfg := a.filter
	if !cfg.Step(key, dir) || cfg == a.filter {
		return a, nil
	}
	a.filter = cfg
	path := a.cfg.SettingsPath
	if path == "" {
		return a, nil
	}
	return a, func() tea.Msg {
		return SettingsSaved{Err: config.SaveFilterConfig(path, cfg)}
	}
}

func (a App) moveTo(i int) (App, tea.Cmd) {
	if len(a.items) == 0 {
		return a, nil
	}
	i = max(0, min(i, len(a.items)-1))
	if i == a.cursor {
		return a, nil
	}
	a.cursor = i
	a.root = 0
	a.typing = false
	a.input.Blur()
	a.layout()
	a.detail.GotoTop()
	return a, tea.Batch(a.selectCurrent(), a.saveSession())
}

func (a App) moveRoot(i int) (App, tea.Cmd) {
	item, ok := a.current()
	if !ok || a.gen.ViewMode(item.ID) == model.ViewChat || len(a.rootLines) == 0 {
		return a, nil
	}
	i = max(0, min(i, len(a.rootLines)-1))
	if i == a.root {
		return a, nil
	}
	a.root = i
	a.detail.SetYOffset(a.rootLines[i])
	return a, a.saveSession()
}

func (a App) toggleChat() (App, tea.Cmd) {
	item, ok := a.current()
	if !ok {
		return a, nil
	}
	if a.gen.ViewMode(item.ID) == model.ViewChat {
		a.gen.SetViewMode(item.ID, model.ViewDiscussion)
		a.typing = false
		a.input.Blur()
		a.layout()
		a.detail.GotoTop()
		return a, a.saveSession()
	}
	a.gen.SetViewMode(item.ID, model.ViewChat)
	a.typing = true
	a.layout()
	return a, tea.Batch(a.input.Focus(), a.gen.RequestSuggestions(item), a.saveSession())
}

func (a App) refresh() (App, tea.Cmd) {
	if a.loading || a.cfg.Refresh == nil {
		return a, nil
	}
	a.loading = true
	return a, a.cfg.Refresh()
}

func (a App) clearCaches() (App, tea.Cmd) {
	a.gen.ClearAll()
	a.typing = false
	a.input.Blur()
	a.layout()

	var wipe tea.Cmd
	if c := a.cfg.Cache; c != nil {
		wipe = func() tea.Msg {
			c.Clear()
			return CachesCleared{}
		}
	}
	return a, tea.Batch(wipe, a.selectCurrent())
}

// selectCurrent points the generator at the cursor item, asks for what the
// item's mode shows, and records the item as read.
func (a *App) selectCurrent() tea.Cmd {
	item, ok := a.current()
	if !ok {
		return nil
	}
	cmds := []tea.Cmd{a.gen.Select(item.ID), a.gen.RequestSummary(item)}
	if a.gen.ViewMode(item.ID) == model.ViewChat {
		cmds = append(cmds, a.gen.RequestSuggestions(item))
	}
	if !a.read[item.ID] && a.cfg.MarkRead != nil {
		cmds = append(cmds, a.cfg.MarkRead(item.ID))
	}
	return tea.Batch(cmds...)
}

func (a *App) loadRead() tea.Cmd {
	if a.cfg.LoadRead == nil || len(a.items) == 0 {
		return nil
	}
	ids := make([]int, len(a.items))
	for i, it := range a.items {
		ids[i] = it.ID
	}
	return a.cfg.LoadRead(ids)
}

func (a *App) current() (model.Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return model.Item{}, false
	}
	return a.items[a.cursor], true
}

// Snapshot captures the restorable UI state.
func (a App) Snapshot() cache.SessionSnapshot {
	s := cache.EmptySession()
	s.Items = a.items
	if item, ok := a.current(); ok {
		s.SelectedIndex = a.cursor
		s.SelectedItem = &item
	}
	s.RootCommentIndex = a.root
	s.ChatMode = a.typing
	s.ShowSettings = a.showSettings
	s.ChatSessions = a.gen.Chats()
	s.ViewModes = a.gen.ViewModes()
	s.FetchedAt = a.fetchedAt
	return s
}

func (a *App) saveSession() tea.Cmd {
	c := a.cfg.Cache
	if c == nil {
		return nil
	}
	snap := a.Snapshot()
	return func() tea.Msg {
		c.SaveSession(snap)
		return nil
	}
}

// layout sizes the panes for the current terminal.
func (a *App) layout() {
	if !a.ready {
		return
	}
	listW := a.listWidth()
	a.detail.Width = max(a.width-listW-3, 20)
	h := a.height - 1
	if a.typing {
		h--
	}
	a.detail.Height = max(h, 1)
	a.input.Width = max(a.detail.Width-4, 10)
}

func (a *App) listWidth() int {
	return max(min(a.width*2/5, 64), 30)
}

// syncDetail re-renders the detail pane content for the selected item.
func (a *App) syncDetail() {
	item, ok := a.current()
	if !ok || !a.ready {
		a.rootLines = nil
		a.detail.SetContent("")
		return
	}
	content, roots := renderDetail(item, a.gen.State(item.ID), a.filter, a.root, a.detail.Width, a.cfg.Now())
	a.rootLines = roots
	a.detail.SetContent(content)
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	now := a.cfg.Now()
	contentHeight := max(a.height-1, 1)
	listW := a.listWidth()

	list := lipgloss.NewStyle().Width(listW).Height(contentHeight).MaxHeight(contentHeight).
		Render(RenderList(a.items, a.read, a.cursor, listW, contentHeight, now))
	divider := PaneDivider.Render(strings.TrimSuffix(strings.Repeat("│\n", contentHeight), "\n"))

	var right string
	switch {
	case a.showDebug && a.cfg.Ring != nil:
		right = debugOverlay(a.cfg.Ring, a.detail.Width, contentHeight, now)
	case a.showSettings:
		right = renderSettings(a.filter, a.settingsCursor, a.detail.Width)
	default:
		right = a.detail.View()
		if a.typing {
			right += "\n" + a.input.View()
		}
	}
	right = lipgloss.NewStyle().PaddingLeft(1).MaxHeight(contentHeight).Render(right)

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, divider, right)
	return body + "\n" + RenderStatusBar(a.statusInfo(), a.width, now)
}

func (a App) statusInfo() StatusInfo {
	s := StatusInfo{
		Count:     len(a.items),
		Cursor:    a.cursor,
		FetchedAt: a.fetchedAt,
		Loading:   a.loading,
		Provider:  a.cfg.Provider,
		Message:   a.status,
		Err:       a.err,
	}
	item, ok := a.current()
	switch {
	case a.showSettings:
		s.Hints = [][2]string{{"+/-", "adjust"}, {"s", "close"}, {"r", "refresh"}}
	case a.typing:
		s.Hints = [][2]string{{"enter", "send"}, {"esc", "stop typing"}}
	case ok && a.gen.ViewMode(item.ID) == model.ViewChat:
		s.Hints = [][2]string{{"i", "type"}, {"1-3", "ask"}, {"C", "reset"}, {"tab", "comments"}}
	default:
		s.Hints = [][2]string{{"j/k", "move"}, {"n/p", "thread"}, {"tab", "chat"}, {"R", "resummarize"}, {"s", "settings"}, {"q", "quit"}}
	}
	return s
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the current items (for testing).
func (a App) Items() []model.Item {
	return a.items
}

// RootComment returns the focused root comment index (for testing).
func (a App) RootComment() int {
	return a.root
}
