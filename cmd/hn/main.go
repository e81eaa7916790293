package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"

	"github.com/brianlovin/hn-cli-sub000/internal/article"
	"github.com/brianlovin/hn-cli-sub000/internal/brain"
	"github.com/brianlovin/hn-cli-sub000/internal/cache"
	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/coord"
	"github.com/brianlovin/hn-cli-sub000/internal/fetch"
	"github.com/brianlovin/hn-cli-sub000/internal/logging"
	"github.com/brianlovin/hn-cli-sub000/internal/otel"
	"github.com/brianlovin/hn-cli-sub000/internal/ranking"
	"github.com/brianlovin/hn-cli-sub000/internal/store"
	"github.com/brianlovin/hn-cli-sub000/internal/ui"
)

// Opts with all CLI options
type Opts struct {
	Story      int    `long:"story" description:"show this story id first and skip session restore"`
	Provider   string `long:"provider" env:"HN_CLI_PROVIDER" choice:"anthropic" choice:"openai" description:"AI provider"`
	ClearCache bool   `long:"clear-cache" description:"remove cached session, summaries and chats before starting"`

	Debug   bool `long:"dbg" env:"DEBUG" description:"debug logging and event overlay (D)"`
	Version bool `short:"V" long:"version" description:"show version info"`
}

var revision = "unknown"

// historyRetention bounds the read/generation history kept in sqlite.
const historyRetention = 30 * 24 * time.Hour

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "hn: %v\n", err)
		os.Exit(1)
	}
}

func run(opts Opts) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return err
	}
	if err := paths.Ensure(); err != nil {
		return err
	}

	if err := logging.Init(paths.LogDir(), revision, opts.Debug); err != nil {
		return err
	}
	defer logging.Close()

	events, err := otel.OpenFile(paths.EventLog())
	if err != nil {
		logging.Warn("event log unavailable", "error", err)
		events = otel.NewNullLogger()
	}
	defer events.Close()
	var ring *otel.Ring
	if opts.Debug {
		ring = otel.NewRing(512)
		events.Mirror(ring)
	}
	events.Info(otel.KindStartup, "main", revision)

	creds, err := config.Load(paths.CredentialsFile())
	if err != nil {
		return err
	}
	if opts.Provider != "" {
		creds.Provider = opts.Provider
	}
	backend, err := brain.New(creds)
	if err != nil {
		// the UI still works; generation records ErrNoBackend per item
		logging.Warn("no AI backend", "error", err)
	}

	st, err := store.Open(paths.HistoryDB())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer st.Close()
	if n, err := st.Prune(time.Now().Add(-historyRetention)); err != nil {
		logging.Warn("history prune failed", "error", err)
	} else if n > 0 {
		logging.Debug("history pruned", "rows", n)
	}

	c := cache.New(paths.EphemeralDir, paths.DataDir, events)
	if opts.ClearCache {
		c.Clear()
	}

	filter, err := config.LoadFilterConfig(paths.SettingsFile())
	if err != nil {
		logging.Warn("settings unreadable, using defaults", "error", err)
	}
	session, fresh := c.LoadSession(time.Duration(filter.SessionCacheMinutes) * time.Minute)
	if opts.Story != 0 {
		// an explicit story bypasses the saved item list but keeps chats
		session.Items, session.SelectedIndex, session.SelectedItem, session.RootCommentIndex = nil, -1, nil, 0
	}
	logging.Debug("session loaded", "items", len(session.Items), "fresh", fresh)

	gen := coord.NewGenerator(backend, coord.Options{
		Articles: article.NewExtractor(15 * time.Second),
		Log:      st,
		Cache:    c,
		Events:   events,
	})
	gen.Restore(c.LoadSummaries(), cache.MergeChats(session.ChatSessions, c.LoadChats()), session.ViewModes)

	client := fetch.NewClient(20*time.Second, 20)
	var ranker coord.Ranker = ranking.NewEngine(client, paths.SettingsFile(), events)
	if opts.Story != 0 {
		ranker = coord.PinFirst(ranker, client, opts.Story)
	}

	provider := ""
	if backend != nil {
		provider = backend.Name()
	}

	app := ui.NewApp(ui.AppConfig{
		Refresh:      func() tea.Cmd { return coord.Refresh(ranker) },
		LoadRead:     func(ids []int) tea.Cmd { return loadRead(st, ids) },
		MarkRead:     func(id int) tea.Cmd { return markRead(st, id) },
		Generator:    gen,
		Cache:        c,
		SettingsPath: paths.SettingsFile(),
		Session:      session,
		Provider:     provider,
		Ring:         ring,
	})

	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	gen.Close()
	if m, ok := final.(ui.App); ok {
		c.SaveSession(m.Snapshot())
	}
	events.Info(otel.KindShutdown, "main", "")
	return err
}

func loadRead(st *store.Store, ids []int) tea.Cmd {
	return func() tea.Msg {
		read, err := st.ReadSet(ids)
		return ui.ReadLoaded{Read: read, Err: err}
	}
}

func markRead(st *store.Store, id int) tea.Cmd {
	return func() tea.Msg {
		if err := st.MarkRead(id, time.Now()); err != nil {
			logging.Warn("mark read failed", "id", id, "error", err)
			return nil
		}
		return ui.ItemMarkedRead{ID: id}
	}
}

// compile-time checks for the collaborators wired above
var (
	_ coord.ArticleSource = (*article.Extractor)(nil)
	_ coord.GenerationLog = (*store.Store)(nil)
	_ coord.ItemGetter    = (*fetch.Client)(nil)
	_ fetch.Source        = (*fetch.Client)(nil)
)
