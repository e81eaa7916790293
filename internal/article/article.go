// Package article pulls readable text out of a story's linked page so
// summaries can cover the article and not just the title.
package article

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// MaxContentLength caps extracted text, in bytes.
const MaxContentLength = 4000

// Extractor fetches pages and extracts their main text.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an Extractor with the given HTTP timeout.
func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{client: &http.Client{Timeout: timeout}}
}

// NewExtractorWithClient uses a custom HTTP client (for testing).
func NewExtractorWithClient(client *http.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract returns up to MaxContentLength bytes of readable text from
// rawURL. Self posts (empty URL) return "" without a request.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url %s: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; hn-cli)")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s returned status %d", rawURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", fmt.Errorf("fetching %s: unsupported content type %s", rawURL, ct)
	}

	art, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extracting content from %s: %w", rawURL, err)
	}

	content := strings.TrimSpace(art.TextContent)
	if len(content) > MaxContentLength {
		content = content[:MaxContentLength]
	}
	return content, nil
}
