package brain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// Context budgets, in bytes of prompt text.
const (
	maxArticleChars  = 4000
	maxCommentsChars = 12000
)

// SuggestionCount is how many questions a suggestions request asks for.
const SuggestionCount = 3

// ItemContext renders an item, its linked article text and the full
// comment tree as plain text for a prompt.
func ItemContext(item model.Item, article string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", item.Title)
	if item.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", item.URL)
	}
	if item.Author != "" {
		fmt.Fprintf(&b, "Posted by: %s\n", item.Author)
	}
	fmt.Fprintf(&b, "Points: %d, comments: %d\n", item.Points(), item.CommentCount)

	if item.Text != "" {
		fmt.Fprintf(&b, "\nPost text:\n%s\n", item.Text)
	}
	if article != "" {
		fmt.Fprintf(&b, "\nLinked article (excerpt):\n%s\n", truncate(article, maxArticleChars))
	}

	if len(item.Comments) > 0 {
		var c strings.Builder
		writeComments(&c, item.Comments)
		fmt.Fprintf(&b, "\nDiscussion:\n%s", truncate(c.String(), maxCommentsChars))
	}
	return b.String()
}

func writeComments(b *strings.Builder, nodes []model.CommentNode) {
	for _, n := range nodes {
		// an empty node still carries its replies
		if n.Text != "" {
			indent := strings.Repeat("  ", n.Level)
			author := n.Author
			if author == "" {
				author = "[deleted]"
			}
			text := strings.ReplaceAll(n.Text, "\n", "\n"+indent+"  ")
			fmt.Fprintf(b, "%s- %s: %s\n", indent, author, text)
		}
		writeComments(b, n.Children)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back off to a rune boundary
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n] + "…"
}

const summarySystem = `You summarize Hacker News posts for a terminal reader.
Respond with a single JSON object and nothing else:
{"subjectSummary": "...", "discussionSummary": "..."}
subjectSummary: 2-3 sentences on what the post or linked article is about.
discussionSummary: 2-4 sentences on the main viewpoints and disagreements in the comments. If there are no comments, say so briefly.
Write plainly. Do not start with "The article" or "This post".`

// SummaryRequest asks for a two-part summary on the cheap tier.
func SummaryRequest(item model.Item, article string) Request {
	return Request{
		System:    summarySystem,
		Prompt:    ItemContext(item, article),
		Tier:      TierCheap,
		MaxTokens: 800,
	}
}

// ParseSummary extracts the summary object from a response, tolerating
// surrounding prose or code fences.
func ParseSummary(text string) (model.SummaryResult, error) {
	var r model.SummaryResult
	raw, ok := extractJSON(text, '{', '}')
	if !ok {
		return r, errors.New("summary: no JSON object in response")
	}
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return r, fmt.Errorf("summary: %w", err)
	}
	if r.SubjectSummary == "" && r.DiscussionSummary == "" {
		return r, errors.New("summary: empty result")
	}
	return r, nil
}

const suggestionsSystem = `You suggest questions a curious reader might ask about a Hacker News post.
Respond with a JSON array of exactly 3 short questions (under 80 characters each) and nothing else.`

// SuggestionsRequest asks for opening questions about an item.
func SuggestionsRequest(item model.Item, article string) Request {
	return Request{
		System:    suggestionsSystem,
		Prompt:    ItemContext(item, article),
		Tier:      TierCheap,
		MaxTokens: 300,
	}
}

// FollowUpsRequest asks for questions that continue an existing chat.
func FollowUpsRequest(item model.Item, history []model.Message) Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Post title: %s\n\nConversation so far:\n", item.Title)
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n\n", m.Role, m.Content)
	}
	b.WriteString("Suggest 3 follow-up questions the reader could ask next.")
	return Request{
		System:    suggestionsSystem,
		Prompt:    b.String(),
		Tier:      TierCheap,
		MaxTokens: 300,
	}
}

// ParseSuggestions reads a JSON array of questions. Responses that are not
// JSON fall back to one question per non-empty line.
func ParseSuggestions(text string) []string {
	var out []string
	if raw, ok := extractJSON(text, '[', ']'); ok {
		var qs []string
		if json.Unmarshal([]byte(raw), &qs) == nil {
			out = qs
		}
	}
	if out == nil {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789.) "))
			if line != "" && !strings.HasPrefix(line, "```") {
				out = append(out, line)
			}
		}
	}

	clean := make([]string, 0, SuggestionCount)
	for _, q := range out {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		clean = append(clean, q)
		if len(clean) == SuggestionCount {
			break
		}
	}
	return clean
}

// ChatRequest builds a conversational turn on the primary tier. The item
// context rides in the system prompt so history stays user/assistant only.
func ChatRequest(item model.Item, article string, history []model.Message, question string) Request {
	return Request{
		System: "You are discussing a Hacker News post with a reader in a terminal. " +
			"Answer concisely in plain text (no markdown headings). " +
			"Ground answers in the post and its comments; say when something is not covered.\n\n" +
			ItemContext(item, article),
		History:   history,
		Prompt:    question,
		Tier:      TierPrimary,
		MaxTokens: 1500,
	}
}

// extractJSON returns the outermost left..right span in text.
func extractJSON(text string, left, right byte) (string, bool) {
	start := strings.IndexByte(text, left)
	end := strings.LastIndexByte(text, right)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
