package model

// ViewMode is the per-item detail pane mode.
type ViewMode string

const (
	ViewDiscussion ViewMode = "discussion"
	ViewChat       ViewMode = "chat"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation about an item.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is the saved conversation for one item.
type ChatSession struct {
	Messages            []Message `json:"messages"`
	Suggestions         []string  `json:"suggestions"`
	OriginalSuggestions []string  `json:"originalSuggestions"`
	FollowUpCount       int       `json:"followUpCount"`
}

// Clone returns a deep copy so snapshots never alias live state.
func (s ChatSession) Clone() ChatSession {
	return ChatSession{
		Messages:            append([]Message(nil), s.Messages...),
		Suggestions:         append([]string(nil), s.Suggestions...),
		OriginalSuggestions: append([]string(nil), s.OriginalSuggestions...),
		FollowUpCount:       s.FollowUpCount,
	}
}

// SummaryResult is the generated two-part summary of an item.
type SummaryResult struct {
	SubjectSummary    string `json:"subjectSummary"`
	DiscussionSummary string `json:"discussionSummary"`
}
