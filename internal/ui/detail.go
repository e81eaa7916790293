package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/coord"
	"github.com/brianlovin/hn-cli-sub000/internal/filter"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// detailDoc accumulates rendered lines so callers can find where each
// root comment starts.
type detailDoc struct {
	lines []string
	width int
}

func (d *detailDoc) add(s string) {
	d.lines = append(d.lines, strings.Split(s, "\n")...)
}

// para wraps text to the pane width minus indent and adds it.
func (d *detailDoc) para(text string, indent int) {
	pad := strings.Repeat(" ", indent)
	wrapped := ansi.Wrap(text, max(d.width-indent, 10), "")
	for _, line := range strings.Split(wrapped, "\n") {
		d.lines = append(d.lines, pad+line)
	}
}

func (d *detailDoc) blank() { d.lines = append(d.lines, "") }

// renderDetail renders the selected item's pane. It returns the content and
// the line offset of every visible root comment.
func renderDetail(item model.Item, st coord.ItemState, cfg config.FilterConfig, root, width int, now time.Time) (string, []int) {
	d := &detailDoc{width: max(width, 20)}

	d.para(DetailTitle.Render(item.Title), 0)
	meta := fmt.Sprintf("%d points by %s %s · %d comments", item.Points(), item.Author, formatAgo(now.Sub(item.CreatedAt)), item.CommentCount)
	d.para(ItemMeta.Render(meta), 0)
	if item.URL != "" {
		d.add(ItemMeta.Render(ansi.Truncate(item.URL, d.width, "…")))
	}
	if item.Text != "" {
		d.blank()
		d.para(item.Text, 0)
	}

	renderSummary(d, st)

	var roots []int
	if st.ViewMode == model.ViewChat {
		renderChat(d, st)
	} else {
		roots = renderComments(d, filter.TrimComments(item.Comments, cfg), root)
	}
	return strings.Join(d.lines, "\n"), roots
}

func renderSummary(d *detailDoc, st coord.ItemState) {
	d.add(SectionHeader.Render("Summary"))
	switch {
	case st.Loading(coord.KindSummary):
		d.add(st.Frame(coord.KindSummary) + " summarizing…")
	case st.Errors[coord.KindSummary] != "":
		d.para(ErrorStyle.Render("Summary failed: "+st.Errors[coord.KindSummary]), 0)
		d.add(ItemMeta.Render("press R to retry"))
	case st.Summary != nil:
		d.para(st.Summary.SubjectSummary, 0)
		d.blank()
		d.para(st.Summary.DiscussionSummary, 0)
	default:
		d.add(ItemMeta.Render("no summary yet"))
	}
}

func renderComments(d *detailDoc, nodes []model.CommentNode, active int) []int {
	d.add(SectionHeader.Render("Discussion"))
	if len(nodes) == 0 {
		d.add(ItemMeta.Render("no comments"))
		return nil
	}
	roots := make([]int, 0, len(nodes))
	for i, n := range nodes {
		d.blank()
		roots = append(roots, len(d.lines))
		renderComment(d, n, i == active)
	}
	return roots
}

func renderComment(d *detailDoc, n model.CommentNode, active bool) {
	indent := 2 * n.Level
	author := n.Author
	if author == "" {
		author = "[deleted]"
	}
	byline := CommentAuthor.Render(author)
	if active {
		byline = ActiveRoot.Render("▍") + byline
	}
	d.add(strings.Repeat(" ", indent) + byline)
	if n.Text != "" {
		d.para(n.Text, indent+2)
	}
	for _, c := range n.Children {
		renderComment(d, c, false)
	}
}

func renderChat(d *detailDoc, st coord.ItemState) {
	d.add(SectionHeader.Render("Chat"))
	for _, m := range st.Chat.Messages {
		d.blank()
		if m.Role == model.RoleUser {
			d.add(UserMessage.Render("You"))
		} else {
			d.add(AssistantMessage.Render("AI"))
		}
		d.para(m.Content, 2)
	}

	if st.Loading(coord.KindChat) {
		d.blank()
		d.add(AssistantMessage.Render("AI") + " " + st.Frame(coord.KindChat))
		if st.Reply != "" {
			d.para(st.Reply, 2)
		}
	}
	if e := st.Errors[coord.KindChat]; e != "" {
		d.blank()
		d.para(ErrorStyle.Render("Reply failed: "+e), 0)
	}

	d.blank()
	switch {
	case st.Loading(coord.KindSuggestions), st.Loading(coord.KindFollowUps):
		kind := coord.KindSuggestions
		if st.Loading(coord.KindFollowUps) {
			kind = coord.KindFollowUps
		}
		d.add(st.Frame(kind) + " thinking of questions…")
	case st.Errors[coord.KindSuggestions] != "":
		d.para(ErrorStyle.Render("Suggestions failed: "+st.Errors[coord.KindSuggestions]), 0)
	case len(st.Chat.Suggestions) > 0:
		for i, q := range st.Chat.Suggestions {
			d.para(Suggestion.Render(fmt.Sprintf("%d. %s", i+1, q)), 0)
		}
	}
	if len(st.Chat.Messages) > 0 {
		d.add(ItemMeta.Render(fmt.Sprintf("%d follow-up rounds left · C to reset", st.FollowUpsLeft())))
	}
}
