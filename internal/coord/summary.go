package coord

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brianlovin/hn-cli-sub000/internal/brain"
	"github.com/brianlovin/hn-cli-sub000/internal/logging"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// RequestSummary starts a summary for item unless one is cached, pending
// or failed. A failed summary stays failed until Regenerate.
func (g *Generator) RequestSummary(item model.Item) tea.Cmd {
	k := key{item.ID, KindSummary}
	if _, ok := g.summaries[item.ID]; ok {
		return nil
	}
	if _, failed := g.errors[k]; failed {
		return nil
	}
	tok, ok := g.begin(item, KindSummary)
	if !ok {
		return nil
	}
	return tea.Batch(g.summaryCmd(tok, item), g.startTick(tok))
}

// Regenerate drops the item's summary and summary error and asks again.
// Ignored while a summary is already pending.
func (g *Generator) Regenerate(item model.Item) tea.Cmd {
	if g.closed {
		return nil
	}
	k := key{item.ID, KindSummary}
	if _, busy := g.pending[k]; busy {
		return nil
	}
	// the old result stays persisted until a new one replaces it, so the
	// record keeps its cachedAt even if regeneration fails
	if s, ok := g.summaries[item.ID]; ok {
		g.replaced[item.ID] = s
	}
	delete(g.summaries, item.ID)
	delete(g.errors, k)
	return g.RequestSummary(item)
}

func (g *Generator) summaryCmd(tok Token, item model.Item) tea.Cmd {
	backend := g.backend
	articles := g.articles
	known, haveArticle := g.article[item.ID]

	return func() tea.Msg {
		if backend == nil {
			return SummaryDone{Token: tok, Err: ErrNoBackend}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		article := known
		if !haveArticle && articles != nil && item.URL != "" {
			text, err := articles.Extract(ctx, item.URL)
			if err != nil {
				logging.Debug("coord: article extraction failed", "item", item.ID, "error", err)
			}
			article = text
		}

		text, err := backend.Complete(ctx, brain.SummaryRequest(item, article))
		if err != nil {
			return SummaryDone{Token: tok, Article: article, Err: err}
		}
		res, err := brain.ParseSummary(text)
		return SummaryDone{Token: tok, Result: res, Article: article, Err: err}
	}
}

func (g *Generator) handleSummary(msg SummaryDone) tea.Cmd {
	tok := msg.Token
	out := g.settle(tok)
	if out == outcomeDropped {
		return nil
	}
	if msg.Article != "" {
		g.article[tok.ItemID] = msg.Article
	}

	logCmd := g.record(tok, summaryText(msg.Result), msg.Err)
	if msg.Err != nil {
		if out == outcomeCurrent {
			g.fail(tok, msg.Err)
		}
		// errors for an item the user has left are not kept: coming back
		// retries instead of showing a failure they never saw
		return logCmd
	}

	g.summaries[tok.ItemID] = msg.Result
	delete(g.replaced, tok.ItemID)
	if out == outcomeCurrent {
		g.complete(tok)
	}
	return tea.Batch(logCmd, g.persistSummaries())
}

func summaryText(r model.SummaryResult) string {
	if r.SubjectSummary == "" && r.DiscussionSummary == "" {
		return ""
	}
	return r.SubjectSummary + "\n\n" + r.DiscussionSummary
}
