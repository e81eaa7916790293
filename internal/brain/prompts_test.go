package brain

import (
	"strings"
	"testing"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

func TestItemContextIncludesFullTree(t *testing.T) {
	item := model.Item{
		Title:        "Go 2",
		URL:          "https://go.dev",
		Score:        model.IntPtr(10),
		CommentCount: 2,
		Comments: []model.CommentNode{
			{Author: "a", Text: "root", Level: 0, Children: []model.CommentNode{
				{Author: "b", Text: "deep\nreply", Level: 1},
			}},
		},
	}

	ctx := ItemContext(item, "article body")

	for _, want := range []string{"Title: Go 2", "https://go.dev", "article body", "- a: root", "  - b: deep"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q:\n%s", want, ctx)
		}
	}
}

func TestItemContextKeepsRepliesOfDeletedComments(t *testing.T) {
	item := model.Item{
		Title: "Go 2",
		Comments: []model.CommentNode{
			{ID: 1, Level: 0, Children: []model.CommentNode{
				{Author: "b", Text: "survivor", Level: 1},
			}},
		},
	}

	ctx := ItemContext(item, "")

	if !strings.Contains(ctx, "  - b: survivor") {
		t.Errorf("reply of a deleted comment missing:\n%s", ctx)
	}
	if strings.Contains(ctx, "[deleted]:") {
		t.Errorf("empty placeholder should not be written:\n%s", ctx)
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	got := truncate("héllo", 2)
	if got != "h…" {
		t.Errorf("got %q", got)
	}
	if truncate("short", 10) != "short" {
		t.Error("short strings pass through")
	}
}

func TestParseSummary(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
		subject string
	}{
		{"plain", `{"subjectSummary":"s","discussionSummary":"d"}`, false, "s"},
		{"fenced", "```json\n{\"subjectSummary\":\"s\",\"discussionSummary\":\"d\"}\n```", false, "s"},
		{"no json", "I cannot do that", true, ""},
		{"empty object", `{}`, true, ""},
		{"broken", `{"subjectSummary": `, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSummary(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got.SubjectSummary != tt.subject {
				t.Errorf("subject = %q", got.SubjectSummary)
			}
		})
	}
}

func TestParseSuggestions(t *testing.T) {
	got := ParseSuggestions(`Sure: ["One?", "Two?", "", "Three?", "Four?"]`)
	if len(got) != 3 || got[0] != "One?" || got[2] != "Three?" {
		t.Errorf("json form: %v", got)
	}

	got = ParseSuggestions("1. Why?\n2) How?\n- What now?\n")
	if len(got) != 3 || got[0] != "Why?" || got[1] != "How?" || got[2] != "What now?" {
		t.Errorf("line form: %v", got)
	}
}

func TestRequestsUseTiers(t *testing.T) {
	item := model.Item{Title: "x"}
	if SummaryRequest(item, "").Tier != TierCheap {
		t.Error("summaries use the cheap tier")
	}
	if SuggestionsRequest(item, "").Tier != TierCheap {
		t.Error("suggestions use the cheap tier")
	}
	r := ChatRequest(item, "", []model.Message{{Role: model.RoleUser, Content: "a"}}, "b")
	if r.Tier != TierPrimary || len(r.Messages()) != 2 {
		t.Errorf("chat request: tier %v, %d messages", r.Tier, len(r.Messages()))
	}
	f := FollowUpsRequest(item, []model.Message{{Role: model.RoleUser, Content: "question one"}})
	if !strings.Contains(f.Prompt, "question one") {
		t.Error("follow-ups include the conversation")
	}
}
