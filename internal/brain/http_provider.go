package brain

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/logging"
)

var _ Backend = (*HTTPProvider)(nil)

// DefaultAnthropicURL is the Messages API base.
const DefaultAnthropicURL = "https://api.anthropic.com"

// ProviderConfig defines how to communicate with an LLM API
type ProviderConfig struct {
	Name         string
	Endpoint     string
	APIKey       string
	Model        string
	CheapModel   string
	AuthHeader   string            // "x-api-key" or "Authorization"
	AuthPrefix   string            // "" or "Bearer "
	ExtraHeaders map[string]string // e.g. anthropic-version

	BuildBody       func(model string, req Request) map[string]any
	ParseResponse   func(body []byte) (content string, err error)
	ParseStreamLine func(line string) (content string, done bool, err error)
}

// AnthropicConfig builds the Messages API configuration.
func AnthropicConfig(s config.ModelSettings) *ProviderConfig {
	base := s.Endpoint
	if base == "" {
		base = DefaultAnthropicURL
	}
	return &ProviderConfig{
		Name:       config.ProviderAnthropic,
		Endpoint:   strings.TrimRight(base, "/") + "/v1/messages",
		APIKey:     s.APIKey,
		Model:      s.Model,
		CheapModel: s.CheapModel,
		AuthHeader: "x-api-key",
		ExtraHeaders: map[string]string{
			"anthropic-version": "2023-06-01",
		},
		BuildBody:       buildClaudeBody,
		ParseResponse:   parseClaudeResponse,
		ParseStreamLine: parseClaudeStream,
	}
}

// HTTPProvider is a config-driven HTTP LLM client.
type HTTPProvider struct {
	config *ProviderConfig
	client *http.Client
}

// NewHTTPProvider creates a provider from config
func NewHTTPProvider(cfg *ProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *HTTPProvider) Name() string { return p.config.Name }

func (p *HTTPProvider) Model(tier Tier) string {
	if tier == TierCheap && p.config.CheapModel != "" {
		return p.config.CheapModel
	}
	return p.config.Model
}

func (p *HTTPProvider) Complete(ctx context.Context, req Request) (string, error) {
	if p.config.APIKey == "" {
		return "", fmt.Errorf("%s: %w", p.config.Name, ErrNotConfigured)
	}

	model := p.Model(req.Tier)
	logging.Debug("HTTP provider request", "provider", p.config.Name, "model", model)

	resp, err := p.post(ctx, p.client, p.config.BuildBody(model, req))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	content, err := p.config.ParseResponse(respBody)
	if err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	logging.Debug("API response", "provider", p.config.Name, "model", model, "content_len", len(content))
	return content, nil
}

func (p *HTTPProvider) Stream(ctx context.Context, req Request) (*Stream, error) {
	if p.config.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", p.config.Name, ErrNotConfigured)
	}

	model := p.Model(req.Tier)
	body := p.config.BuildBody(model, req)
	body["stream"] = true

	logging.Debug("HTTP provider stream", "provider", p.config.Name, "model", model)

	return NewStream(ctx, func(ctx context.Context, emit func(string) bool) error {
		// No timeout for streaming; cancellation ends it
		resp, err := p.post(ctx, &http.Client{}, body)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			content, done, err := p.config.ParseStreamLine(line)
			if err != nil {
				return err
			}
			if content != "" && !emit(content) {
				return ctx.Err()
			}
			if done {
				return nil
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		return ctx.Err()
	}), nil
}

func (p *HTTPProvider) post(ctx context.Context, client *http.Client, body map[string]any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(httpReq)

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		logging.Error("API error", "provider", p.config.Name, "status", resp.StatusCode, "body", string(b))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp, nil
}

func (p *HTTPProvider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")

	if p.config.AuthHeader != "" && p.config.APIKey != "" {
		req.Header.Set(p.config.AuthHeader, p.config.AuthPrefix+p.config.APIKey)
	}

	for k, v := range p.config.ExtraHeaders {
		req.Header.Set(k, v)
	}
}

func buildClaudeBody(model string, req Request) map[string]any {
	msgs := req.Messages()
	messages := make([]map[string]string, 0, len(msgs))
	for _, m := range msgs {
		messages = append(messages, map[string]string{"role": m.Role, "content": m.Content})
	}
	body := map[string]any{
		"model":      model,
		"max_tokens": maxTokensOr(req.MaxTokens, 2048),
		"messages":   messages,
	}
	if req.System != "" {
		body["system"] = req.System
	}
	return body
}

func parseClaudeResponse(body []byte) (string, error) {
	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	var texts []string
	for _, c := range resp.Content {
		if c.Type == "text" {
			texts = append(texts, c.Text)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

func parseClaudeStream(line string) (string, bool, error) {
	data, ok := parseSSEData(line)
	if !ok || data == "" {
		return "", false, nil
	}

	var event struct {
		Type  string `json:"type"`
		Delta struct {
			Text       string `json:"text"`
			StopReason string `json:"stop_reason"`
		} `json:"delta"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return "", false, nil
	}

	switch event.Type {
	case "content_block_delta":
		return event.Delta.Text, false, nil
	case "message_delta":
		return "", event.Delta.StopReason != "", nil
	case "message_stop":
		return "", true, nil
	case "error":
		return "", true, fmt.Errorf("stream error: %s", event.Error.Message)
	}
	return "", false, nil
}

// parseSSEData extracts the payload of an SSE data line.
func parseSSEData(line string) (string, bool) {
	if strings.HasPrefix(line, "data: ") {
		return strings.TrimPrefix(line, "data: "), true
	}
	return "", false
}
