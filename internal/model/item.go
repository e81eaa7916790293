// Package model provides the data types shared across hn.
package model

import (
	"net/url"
	"strings"
	"time"
)

// StoryType is the only item type eligible for display.
const StoryType = "story"

// Item is a single feed entry with its discussion tree.
// Immutable once fetched.
type Item struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	Score        *int          `json:"score,omitempty"`
	Domain       string        `json:"domain,omitempty"`
	URL          string        `json:"url,omitempty"`
	Text         string        `json:"text,omitempty"`
	Author       string        `json:"author,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	Type         string        `json:"type"`
	CommentCount int           `json:"commentCount"`
	Comments     []CommentNode `json:"comments,omitempty"`
}

// CommentNode is one comment in a discussion tree. Level 0 is a root comment;
// a child is always one level deeper than its parent.
type CommentNode struct {
	ID       int           `json:"id"`
	Author   string        `json:"author,omitempty"`
	Text     string        `json:"text,omitempty"`
	Level    int           `json:"level"`
	Children []CommentNode `json:"children,omitempty"`
}

// Points returns the item's score, or 0 when the source did not report one.
func (i Item) Points() int {
	if i.Score == nil {
		return 0
	}
	return *i.Score
}

// Age returns how old the item is relative to now. Future-dated items have age 0.
func (i Item) Age(now time.Time) time.Duration {
	age := now.Sub(i.CreatedAt)
	if age < 0 {
		return 0
	}
	return age
}

// Deleted reports whether the node is a placeholder for a removed comment
// kept only to hold its replies.
func (c CommentNode) Deleted() bool { return c.Author == "" && c.Text == "" }

// CountComments returns the number of live comments in a forest.
// Deleted placeholders are not counted; their replies are.
func CountComments(nodes []CommentNode) int {
	n := 0
	for _, c := range nodes {
		if !c.Deleted() {
			n++
		}
		n += CountComments(c.Children)
	}
	return n
}

// DomainOf extracts the display domain from a story URL ("www." stripped).
// Returns "" for self posts or unparseable URLs.
func DomainOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// IntPtr is a convenience for optional scores.
func IntPtr(v int) *int { return &v }
