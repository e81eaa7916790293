package coord

import (
	"context"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brianlovin/hn-cli-sub000/internal/brain"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
	"github.com/brianlovin/hn-cli-sub000/internal/otel"
)

// RequestSuggestions asks for opening questions when the item's chat has
// none yet.
func (g *Generator) RequestSuggestions(item model.Item) tea.Cmd {
	if len(g.chats[item.ID].OriginalSuggestions) > 0 {
		return nil
	}
	if _, failed := g.errors[key{item.ID, KindSuggestions}]; failed {
		return nil
	}
	tok, ok := g.begin(item, KindSuggestions)
	if !ok {
		return nil
	}
	return tea.Batch(g.suggestionsCmd(tok, brain.SuggestionsRequest(item, g.article[item.ID])), g.startTick(tok))
}

// RequestFollowUps asks for questions continuing the conversation. At
// most MaxFollowUpRounds rounds per chat session.
func (g *Generator) RequestFollowUps(item model.Item) tea.Cmd {
	chat := g.chats[item.ID]
	if chat.FollowUpCount >= MaxFollowUpRounds || len(chat.Messages) == 0 {
		return nil
	}
	if _, failed := g.errors[key{item.ID, KindFollowUps}]; failed {
		return nil
	}
	tok, ok := g.begin(item, KindFollowUps)
	if !ok {
		return nil
	}
	return tea.Batch(g.suggestionsCmd(tok, brain.FollowUpsRequest(item, chat.Messages)), g.startTick(tok))
}

func (g *Generator) suggestionsCmd(tok Token, req brain.Request) tea.Cmd {
	backend := g.backend
	return func() tea.Msg {
		if backend == nil {
			return SuggestionsDone{Token: tok, Err: ErrNoBackend}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		text, err := backend.Complete(ctx, req)
		if err != nil {
			return SuggestionsDone{Token: tok, Err: err}
		}
		return SuggestionsDone{Token: tok, Suggestions: brain.ParseSuggestions(text)}
	}
}

func (g *Generator) handleSuggestions(msg SuggestionsDone) tea.Cmd {
	tok := msg.Token
	out := g.settle(tok)
	if out == outcomeDropped {
		return nil
	}
	logCmd := g.record(tok, strings.Join(msg.Suggestions, "\n"), msg.Err)
	if msg.Err != nil {
		if out == outcomeCurrent {
			g.fail(tok, msg.Err)
		}
		return logCmd
	}

	chat := g.chats[tok.ItemID].Clone()
	chat.Suggestions = slices.Clone(msg.Suggestions)
	if tok.Kind == KindSuggestions {
		chat.OriginalSuggestions = slices.Clone(msg.Suggestions)
	} else {
		chat.FollowUpCount++
	}
	g.chats[tok.ItemID] = chat
	if out == outcomeCurrent {
		g.complete(tok)
	}
	return tea.Batch(logCmd, g.persistChats())
}

// SendChat appends a user message and streams the assistant's reply.
// Ignored while a reply is already streaming for the item.
func (g *Generator) SendChat(item model.Item, text string) tea.Cmd {
	if text == "" {
		return nil
	}
	if _, busy := g.pending[key{item.ID, KindChat}]; busy {
		return nil
	}
	chat := g.chats[item.ID].Clone()
	history := chat.Messages

	tok, ok := g.begin(item, KindChat)
	if !ok {
		return nil
	}
	delete(g.errors, key{item.ID, KindChat})

	chat.Messages = append(chat.Messages, model.Message{Role: model.RoleUser, Content: text})
	g.chats[item.ID] = chat
	g.replies[item.ID] = ""

	req := brain.ChatRequest(item, g.article[item.ID], history, text)
	backend := g.backend
	start := func() tea.Msg {
		if backend == nil {
			return ChatStarted{Token: tok, Err: ErrNoBackend}
		}
		s, err := backend.Stream(context.Background(), req)
		return ChatStarted{Token: tok, Stream: s, Err: err}
	}
	return tea.Batch(start, g.startTick(tok), g.persistChats())
}

// ChooseSuggestion sends a suggested question and removes it from the
// current list.
func (g *Generator) ChooseSuggestion(item model.Item, index int) tea.Cmd {
	chat := g.chats[item.ID]
	if index < 0 || index >= len(chat.Suggestions) {
		return nil
	}
	if _, busy := g.pending[key{item.ID, KindChat}]; busy {
		return nil
	}
	q := chat.Suggestions[index]
	chat = chat.Clone()
	chat.Suggestions = slices.Delete(chat.Suggestions, index, index+1)
	g.chats[item.ID] = chat
	return g.SendChat(item, q)
}

// ResetChat clears the conversation, restores the original suggestions
// and forgets chat-related errors. Follow-ups still in flight belong to
// the discarded conversation and are abandoned.
func (g *Generator) ResetChat(item model.Item) tea.Cmd {
	g.CancelChat(item.ID)
	g.abandon(key{item.ID, KindFollowUps})
	for _, kind := range []Kind{KindChat, KindSuggestions, KindFollowUps} {
		delete(g.errors, key{item.ID, kind})
	}
	orig := g.chats[item.ID].OriginalSuggestions
	g.chats[item.ID] = model.ChatSession{
		Suggestions:         slices.Clone(orig),
		OriginalSuggestions: slices.Clone(orig),
	}
	return tea.Batch(g.persistChats(), g.RequestSuggestions(item))
}

// CancelChat stops the item's streaming reply. Nothing from that stream
// reaches the item afterwards; the partial reply is discarded.
func (g *Generator) CancelChat(id int) {
	k := key{id, KindChat}
	_, pending := g.pending[k]
	if s, ok := g.streams[id]; ok {
		s.Cancel()
		delete(g.streams, id)
	}
	if !pending {
		return
	}
	delete(g.replies, id)
	g.abandon(k)
}

// abandon forgets the pending task for k so its result is rejected when
// it arrives.
func (g *Generator) abandon(k key) {
	tok, ok := g.pending[k]
	if !ok {
		return
	}
	delete(g.pending, k)
	delete(g.frames, k)
	g.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindGenCancel, Comp: "coord", ItemID: k.item, Task: string(k.kind), Seq: tok.Seq})
}

func (g *Generator) chatCurrent(tok Token) bool {
	return !g.closed && g.pending[tok.key()] == tok && g.selected == tok.ItemID
}

func (g *Generator) handleChatStarted(msg ChatStarted) tea.Cmd {
	tok := msg.Token
	if msg.Err != nil {
		return g.handleChatDone(ChatDone{Token: tok, Err: msg.Err})
	}
	if !g.chatCurrent(tok) {
		// cancelled before the stream opened
		msg.Stream.Cancel()
		return nil
	}
	g.streams[tok.ItemID] = msg.Stream
	return waitDelta(tok, msg.Stream)
}

// waitDelta blocks on the next stream event. A cancelled stream yields
// no message at all.
func waitDelta(tok Token, s *brain.Stream) tea.Cmd {
	return func() tea.Msg {
		d, ok, err := s.Recv()
		if !ok {
			if s.Canceled() {
				return nil
			}
			return ChatDone{Token: tok, Err: err}
		}
		return ChatDelta{Token: tok, Delta: d, stream: s}
	}
}

func (g *Generator) handleChatDelta(msg ChatDelta) tea.Cmd {
	tok := msg.Token
	if !g.chatCurrent(tok) || msg.stream == nil || g.streams[tok.ItemID] != msg.stream {
		if msg.stream != nil {
			msg.stream.Cancel()
		}
		return nil
	}
	g.replies[tok.ItemID] += msg.Delta
	return waitDelta(tok, msg.stream)
}

func (g *Generator) handleChatDone(msg ChatDone) tea.Cmd {
	tok := msg.Token
	if !g.chatCurrent(tok) {
		return nil
	}
	g.settle(tok)
	delete(g.streams, tok.ItemID)
	reply := g.replies[tok.ItemID]
	delete(g.replies, tok.ItemID)

	logCmd := g.record(tok, reply, msg.Err)
	if msg.Err != nil {
		g.fail(tok, msg.Err)
		return logCmd
	}

	chat := g.chats[tok.ItemID].Clone()
	chat.Messages = append(chat.Messages, model.Message{Role: model.RoleAssistant, Content: reply})
	g.chats[tok.ItemID] = chat
	g.complete(tok)

	return tea.Batch(logCmd, g.persistChats(), g.RequestFollowUps(g.items[tok.ItemID]))
}
