// Package coord owns the asynchronous work behind the UI: ranking passes
// and per-item text generation.
//
// Generator state is only touched from the Bubble Tea event loop. Backend
// calls run inside tea.Cmd closures that capture immutable inputs and
// report back as messages; every message carries the Token its request
// was issued with, and Handle checks that token before anything visible
// changes.
package coord

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brianlovin/hn-cli-sub000/internal/brain"
	"github.com/brianlovin/hn-cli-sub000/internal/cache"
	"github.com/brianlovin/hn-cli-sub000/internal/logging"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
	"github.com/brianlovin/hn-cli-sub000/internal/otel"
	"github.com/brianlovin/hn-cli-sub000/internal/store"
)

// Kind is a type of generated artifact.
type Kind string

const (
	KindSummary     Kind = "summary"
	KindSuggestions Kind = "suggestions"
	KindFollowUps   Kind = "followups"
	KindChat        Kind = "chat"
)

// MaxFollowUpRounds bounds follow-up suggestion requests per chat session.
const MaxFollowUpRounds = 3

// requestTimeout bounds non-streaming backend calls.
const requestTimeout = 90 * time.Second

// loader is the animation used for every pending task.
var loader = spinner.Dot

// ErrNoBackend is recorded when generation is requested without a
// configured provider.
var ErrNoBackend = errors.New("no AI provider configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")

// Token identifies one request. Results are matched against the token
// still pending for (ItemID, Kind).
type Token struct {
	Seq    uint64
	ItemID int
	Kind   Kind
}

type key struct {
	item int
	kind Kind
}

func (t Token) key() key { return key{t.ItemID, t.Kind} }

// ArticleSource extracts readable text from a story URL.
type ArticleSource interface {
	Extract(ctx context.Context, url string) (string, error)
}

// GenerationLog records completed generations.
type GenerationLog interface {
	SaveGeneration(g store.Generation) error
}

// Generator tracks generation state for every item.
type Generator struct {
	backend  brain.Backend
	articles ArticleSource
	log      GenerationLog
	cache    *cache.Store
	events   *otel.Logger

	selected int
	closed   bool
	seq      uint64

	items     map[int]model.Item
	pending   map[key]Token
	frames    map[key]int
	tickGen   map[key]int
	errors    map[key]string
	summaries map[int]model.SummaryResult
	replaced  map[int]model.SummaryResult // persisted while regenerating
	article   map[int]string
	chats     map[int]model.ChatSession
	viewModes map[int]model.ViewMode
	streams   map[int]*brain.Stream
	replies   map[int]string
}

// Options wires optional collaborators. Any field may be nil.
type Options struct {
	Articles ArticleSource
	Log      GenerationLog
	Cache    *cache.Store
	Events   *otel.Logger
}

// NewGenerator creates a Generator. backend may be nil, in which case
// every request records ErrNoBackend.
func NewGenerator(backend brain.Backend, opts Options) *Generator {
	return &Generator{
		backend:   backend,
		articles:  opts.Articles,
		log:       opts.Log,
		cache:     opts.Cache,
		events:    opts.Events,
		items:     map[int]model.Item{},
		pending:   map[key]Token{},
		frames:    map[key]int{},
		tickGen:   map[key]int{},
		errors:    map[key]string{},
		summaries: map[int]model.SummaryResult{},
		replaced:  map[int]model.SummaryResult{},
		article:   map[int]string{},
		chats:     map[int]model.ChatSession{},
		viewModes: map[int]model.ViewMode{},
		streams:   map[int]*brain.Stream{},
		replies:   map[int]string{},
	}
}

// Restore seeds cached artifacts, typically from the cache layer at
// startup. Existing entries are replaced.
func (g *Generator) Restore(summaries map[int]model.SummaryResult, chats map[int]model.ChatSession, viewModes map[int]model.ViewMode) {
	for id, s := range summaries {
		g.summaries[id] = s
	}
	for id, c := range chats {
		g.chats[id] = c.Clone()
	}
	for id, m := range viewModes {
		g.viewModes[id] = m
	}
}

// Selected returns the currently selected item id (0 when none).
func (g *Generator) Selected() int { return g.selected }

// Select makes id the current item. Leaving an item cancels its chat
// stream; animations of id's pending tasks are restarted.
func (g *Generator) Select(id int) tea.Cmd {
	if g.closed {
		return nil
	}
	prev := g.selected
	if prev != 0 && prev != id {
		g.CancelChat(prev)
	}
	g.selected = id

	var cmds []tea.Cmd
	for k, tok := range g.pending {
		if k.item == id {
			cmds = append(cmds, g.startTick(tok))
		}
	}
	return tea.Batch(cmds...)
}

// Close stops all work. Later results are ignored.
func (g *Generator) Close() {
	if g.closed {
		return
	}
	for id := range g.streams {
		g.CancelChat(id)
	}
	g.closed = true
}

// ClearAll forgets every artifact, error and in-flight request.
func (g *Generator) ClearAll() {
	for id := range g.streams {
		g.CancelChat(id)
	}
	g.pending = map[key]Token{}
	g.frames = map[key]int{}
	g.errors = map[key]string{}
	g.summaries = map[int]model.SummaryResult{}
	g.replaced = map[int]model.SummaryResult{}
	g.article = map[int]string{}
	g.chats = map[int]model.ChatSession{}
	g.viewModes = map[int]model.ViewMode{}
	g.replies = map[int]string{}
}

// Handle applies a coordinator message. handled is false for messages
// that do not belong to the Generator.
func (g *Generator) Handle(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case SummaryDone:
		return g.handleSummary(msg), true
	case SuggestionsDone:
		return g.handleSuggestions(msg), true
	case ChatStarted:
		return g.handleChatStarted(msg), true
	case ChatDelta:
		return g.handleChatDelta(msg), true
	case ChatDone:
		return g.handleChatDone(msg), true
	case Tick:
		return g.handleTick(msg), true
	}
	return nil, false
}

// begin registers a new pending task, or returns false if one is
// already in flight for the same key.
func (g *Generator) begin(item model.Item, kind Kind) (Token, bool) {
	k := key{item.ID, kind}
	if g.closed {
		return Token{}, false
	}
	if _, busy := g.pending[k]; busy {
		return Token{}, false
	}
	g.seq++
	tok := Token{Seq: g.seq, ItemID: item.ID, Kind: kind}
	g.items[item.ID] = item
	g.pending[k] = tok
	g.frames[k] = 0

	g.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindGenStart, Comp: "coord", ItemID: item.ID, Task: string(kind), Seq: tok.Seq})
	return tok, true
}

// settle removes tok from the pending set if it is still the current
// request for its key, and reports how the result should be treated.
func (g *Generator) settle(tok Token) outcome {
	if g.closed {
		return outcomeDropped
	}
	k := tok.key()
	if cur, ok := g.pending[k]; !ok || cur != tok {
		g.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindGenRejected, Comp: "coord", ItemID: tok.ItemID, Task: string(tok.Kind), Seq: tok.Seq})
		return outcomeDropped
	}
	delete(g.pending, k)
	delete(g.frames, k)
	if g.selected != tok.ItemID {
		g.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindGenStale, Comp: "coord", ItemID: tok.ItemID, Task: string(tok.Kind), Seq: tok.Seq})
		return outcomeStale
	}
	return outcomeCurrent
}

type outcome int

const (
	outcomeCurrent outcome = iota // apply
	outcomeStale                  // user moved on; cache-only
	outcomeDropped                // superseded or closed
)

func (g *Generator) fail(tok Token, err error) {
	g.errors[tok.key()] = err.Error()
	logging.Warn("coord: generation failed", "item", tok.ItemID, "kind", tok.Kind, "error", err)
	g.events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindGenError, Comp: "coord", ItemID: tok.ItemID, Task: string(tok.Kind), Seq: tok.Seq, Err: err.Error()})
}

func (g *Generator) complete(tok Token) {
	g.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindGenComplete, Comp: "coord", ItemID: tok.ItemID, Task: string(tok.Kind), Seq: tok.Seq})
}

// startTick begins a fresh animation chain for tok. Older chains for the
// same key stop at their next tick.
func (g *Generator) startTick(tok Token) tea.Cmd {
	k := tok.key()
	g.tickGen[k]++
	return tickCmd(Tick{Token: tok, gen: g.tickGen[k]})
}

func tickCmd(t Tick) tea.Cmd {
	return tea.Tick(loader.FPS, func(time.Time) tea.Msg { return t })
}

func (g *Generator) handleTick(t Tick) tea.Cmd {
	k := t.Token.key()
	if g.closed || g.pending[k] != t.Token || g.selected != t.Token.ItemID || g.tickGen[k] != t.gen {
		return nil
	}
	g.frames[k]++
	return tickCmd(t)
}

// record appends a generation to the log off the event loop.
func (g *Generator) record(tok Token, content string, err error) tea.Cmd {
	if g.log == nil {
		return nil
	}
	rec := store.Generation{ItemID: tok.ItemID, Kind: string(tok.Kind), Content: content, CreatedAt: time.Now()}
	if g.backend != nil {
		rec.Provider = g.backend.Name()
		rec.Model = g.backend.Model(tierFor(tok.Kind))
	}
	if err != nil {
		rec.Error = err.Error()
	}
	log := g.log
	return func() tea.Msg {
		if err := log.SaveGeneration(rec); err != nil {
			logging.Warn("coord: generation log write failed", "error", err)
		}
		return nil
	}
}

func tierFor(kind Kind) brain.Tier {
	if kind == KindChat {
		return brain.TierPrimary
	}
	return brain.TierCheap
}

// persistSummaries writes a copy of the summary map off the event loop.
func (g *Generator) persistSummaries() tea.Cmd {
	if g.cache == nil {
		return nil
	}
	cp := make(map[int]model.SummaryResult, len(g.summaries)+len(g.replaced))
	for id, s := range g.replaced {
		cp[id] = s
	}
	for id, s := range g.summaries {
		cp[id] = s
	}
	c := g.cache
	return func() tea.Msg {
		c.SaveSummaries(cp)
		return nil
	}
}

// persistChats writes a copy of the chat map off the event loop.
func (g *Generator) persistChats() tea.Cmd {
	if g.cache == nil {
		return nil
	}
	cp := g.Chats()
	c := g.cache
	return func() tea.Msg {
		c.SaveChats(cp)
		return nil
	}
}

// Chats returns a deep copy of every chat session.
func (g *Generator) Chats() map[int]model.ChatSession {
	cp := make(map[int]model.ChatSession, len(g.chats))
	for id, c := range g.chats {
		cp[id] = c.Clone()
	}
	return cp
}

// ViewModes returns a copy of the per-item view modes.
func (g *Generator) ViewModes() map[int]model.ViewMode {
	cp := make(map[int]model.ViewMode, len(g.viewModes))
	for id, m := range g.viewModes {
		cp[id] = m
	}
	return cp
}

// ViewMode returns the item's mode, defaulting to discussion.
func (g *Generator) ViewMode(id int) model.ViewMode {
	if m, ok := g.viewModes[id]; ok {
		return m
	}
	return model.ViewDiscussion
}

// SetViewMode switches an item between discussion and chat. Leaving chat
// cancels any reply still streaming.
func (g *Generator) SetViewMode(id int, mode model.ViewMode) {
	if mode != model.ViewChat {
		g.CancelChat(id)
	}
	g.viewModes[id] = mode
}

// ItemState is a render-ready view of one item's generation state.
type ItemState struct {
	Summary  *model.SummaryResult
	Chat     model.ChatSession
	ViewMode model.ViewMode
	Reply    string // assistant reply streaming in
	Pending  map[Kind]bool
	Errors   map[Kind]string
	frames   map[Kind]int
}

// Loading reports whether kind is in flight.
func (s ItemState) Loading(kind Kind) bool { return s.Pending[kind] }

// Frame returns the spinner frame for kind.
func (s ItemState) Frame(kind Kind) string {
	return loader.Frames[s.frames[kind]%len(loader.Frames)]
}

// FollowUpsLeft is how many follow-up rounds remain.
func (s ItemState) FollowUpsLeft() int {
	return max(0, MaxFollowUpRounds-s.Chat.FollowUpCount)
}

// State returns a snapshot of the item's state.
func (g *Generator) State(id int) ItemState {
	st := ItemState{
		Chat:     g.chats[id].Clone(),
		ViewMode: g.ViewMode(id),
		Reply:    g.replies[id],
		Pending:  map[Kind]bool{},
		Errors:   map[Kind]string{},
		frames:   map[Kind]int{},
	}
	if s, ok := g.summaries[id]; ok {
		st.Summary = &s
	}
	for k := range g.pending {
		if k.item == id {
			st.Pending[k.kind] = true
			st.frames[k.kind] = g.frames[k]
		}
	}
	for k, e := range g.errors {
		if k.item == id {
			st.Errors[k.kind] = e
		}
	}
	return st
}
