package ui

import (
	"strings"
	"testing"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/coord"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

func TestRenderDetailRootOffsets(t *testing.T) {
	item := testItems()[0]
	g := coord.NewGenerator(nil, coord.Options{})

	content, roots := renderDetail(item, g.State(item.ID), config.DefaultFilterConfig(), 0, 80, testNow)
	if len(roots) != 3 {
		t.Fatalf("roots = %v", roots)
	}
	lines := strings.Split(content, "\n")
	for i, want := range []string{"a", "b", "c"} {
		if !strings.Contains(lines[roots[i]], want) {
			t.Errorf("root %d line %q should carry author %q", i, lines[roots[i]], want)
		}
	}
	if !strings.Contains(content, "reply") {
		t.Error("child comment should be rendered")
	}
}

func TestRenderDetailTrimsComments(t *testing.T) {
	item := testItems()[0]
	cfg := config.DefaultFilterConfig()
	cfg.MaxRootComments = 1
	cfg.MaxCommentLevel = 0

	content, roots := renderDetail(item, coord.ItemState{}, cfg, 0, 80, testNow)
	if len(roots) != 1 {
		t.Errorf("roots = %v, want one", roots)
	}
	if strings.Contains(content, "second") || strings.Contains(content, "reply") {
		t.Error("trimmed comments should not render")
	}
}

func TestRenderDetailSummaryStates(t *testing.T) {
	item := model.Item{ID: 1, Title: "t"}

	content, _ := renderDetail(item, coord.ItemState{
		Summary: &model.SummaryResult{SubjectSummary: "what it is", DiscussionSummary: "what they say"},
	}, config.DefaultFilterConfig(), 0, 80, testNow)
	if !strings.Contains(content, "what it is") || !strings.Contains(content, "what they say") {
		t.Errorf("summary missing: %q", content)
	}

	content, _ = renderDetail(item, coord.ItemState{
		Errors: map[coord.Kind]string{coord.KindSummary: "rate limited"},
	}, config.DefaultFilterConfig(), 0, 80, testNow)
	if !strings.Contains(content, "rate limited") || !strings.Contains(content, "R to retry") {
		t.Errorf("error missing: %q", content)
	}
}

func TestRenderDetailChat(t *testing.T) {
	item := testItems()[0]
	st := coord.ItemState{
		ViewMode: model.ViewChat,
		Chat: model.ChatSession{
			Messages: []model.Message{
				{Role: model.RoleUser, Content: "why?"},
				{Role: model.RoleAssistant, Content: "because"},
			},
			Suggestions:   []string{"and then?"},
			FollowUpCount: 1,
		},
	}

	content, roots := renderDetail(item, st, config.DefaultFilterConfig(), 0, 80, testNow)
	if roots != nil {
		t.Error("chat mode has no root comments")
	}
	for _, want := range []string{"why?", "because", "1. and then?", "2 follow-up rounds left"} {
		if !strings.Contains(content, want) {
			t.Errorf("chat missing %q", want)
		}
	}
	if strings.Contains(content, "Discussion") {
		t.Error("chat mode should not render comments")
	}
}

func TestRenderDetailWrapsLongText(t *testing.T) {
	item := model.Item{ID: 1, Title: "t", Text: strings.Repeat("word ", 60)}
	content, _ := renderDetail(item, coord.ItemState{}, config.DefaultFilterConfig(), 0, 40, testNow)
	for _, line := range strings.Split(content, "\n") {
		if len(line) > 40 && !strings.Contains(line, "\x1b") {
			t.Errorf("line wider than pane: %q", line)
		}
	}
}
