// Package fetch retrieves Hacker News items for the ranking engine.
//
// Candidate ids come from the Firebase API; item detail, including the full
// comment tree, comes from the Algolia items endpoint in a single request.
// HTML in story and comment text is reduced to plain text before it leaves
// this package.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"
)

const (
	DefaultFirebaseURL = "https://hacker-news.firebaseio.com"
	DefaultAlgoliaURL  = "https://hn.algolia.com"

	userAgent = "hn-cli (+https://github.com/brianlovin/hn-cli)"
)

// ErrNotFound is returned by GetItem when the item does not exist.
var ErrNotFound = errors.New("item not found")

// Source supplies candidate ids and item detail.
type Source interface {
	// ListCandidateIDs returns story ids, newest first.
	ListCandidateIDs(ctx context.Context) ([]int, error)
	// GetItem returns the item with its full comment tree.
	GetItem(ctx context.Context, id int) (model.Item, error)
}

// Client talks to the public HN APIs. Safe for concurrent use.
type Client struct {
	FirebaseURL string
	AlgoliaURL  string

	client  *http.Client
	limiter *rate.Limiter
	policy  *bluemonday.Policy
}

// NewClient creates a Client with the given request timeout. Requests are
// paced to rps per second with a small burst so a ranking pass does not
// hammer the API.
func NewClient(timeout time.Duration, rps float64) *Client {
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		FirebaseURL: DefaultFirebaseURL,
		AlgoliaURL:  DefaultAlgoliaURL,
		client:      &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(rps), 10),
		policy:      bluemonday.StrictPolicy(),
	}
}

// ListCandidateIDs fetches the top stories list and orders it by id
// descending (larger ids are newer).
func (c *Client) ListCandidateIDs(ctx context.Context) ([]int, error) {
	var ids []int
	url := fmt.Sprintf("%s/v0/topstories.json", strings.TrimRight(c.FirebaseURL, "/"))
	if err := c.getJSON(ctx, url, &ids); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	return ids, nil
}

// algoliaItem mirrors the /api/v1/items response. Stories and comments
// share the shape; nulls decode to zero values.
type algoliaItem struct {
	ID         int           `json:"id"`
	CreatedAtI int64         `json:"created_at_i"`
	Type       string        `json:"type"`
	Author     string        `json:"author"`
	Title      string        `json:"title"`
	URL        string        `json:"url"`
	Text       string        `json:"text"`
	Points     *int          `json:"points"`
	Children   []algoliaItem `json:"children"`
}

// GetItem fetches one item and converts its comment tree.
func (c *Client) GetItem(ctx context.Context, id int) (model.Item, error) {
	var raw algoliaItem
	url := fmt.Sprintf("%s/api/v1/items/%d", strings.TrimRight(c.AlgoliaURL, "/"), id)
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return model.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	if raw.ID == 0 {
		return model.Item{}, fmt.Errorf("get item %d: %w", id, ErrNotFound)
	}

	comments := c.convertComments(raw.Children, 0)
	return model.Item{
		ID:           raw.ID,
		Title:        html.UnescapeString(raw.Title),
		Score:        raw.Points,
		Domain:       model.DomainOf(raw.URL),
		URL:          raw.URL,
		Text:         c.plainText(raw.Text),
		Author:       raw.Author,
		CreatedAt:    time.Unix(raw.CreatedAtI, 0),
		Type:         raw.Type,
		CommentCount: model.CountComments(comments),
		Comments:     comments,
	}, nil
}

// convertComments walks the Algolia children. A deleted comment (no author
// and no text) is dropped unless it has live replies, in which case it
// stays as an empty placeholder holding them.
func (c *Client) convertComments(children []algoliaItem, level int) []model.CommentNode {
	if len(children) == 0 {
		return nil
	}
	out := make([]model.CommentNode, 0, len(children))
	for _, ch := range children {
		node := model.CommentNode{
			ID:       ch.ID,
			Author:   ch.Author,
			Text:     c.plainText(ch.Text),
			Level:    level,
			Children: c.convertComments(ch.Children, level+1),
		}
		if node.Deleted() && len(node.Children) == 0 {
			continue
		}
		out = append(out, node)
	}
	return out
}

var (
	paragraphTag = regexp.MustCompile(`(?i)<p\s*/?>`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// plainText strips markup from HN's HTML. Paragraph tags become blank
// lines; entities are decoded after sanitizing.
func (c *Client) plainText(s string) string {
	if s == "" {
		return ""
	}
	s = paragraphTag.ReplaceAllString(s, "\n\n")
	s = c.policy.Sanitize(s)
	s = html.UnescapeString(s)
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	// Firebase answers "null" for unknown resources
	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if string(body) == "null" {
		return ErrNotFound
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
