package brain

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/logging"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

var _ Backend = (*OpenAIProvider)(nil)

// OpenAIProvider calls any OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	client     *openai.Client
	apiKey     string
	model      string
	cheapModel string
}

// NewOpenAIProvider creates a provider from settings. A custom Endpoint
// points it at a compatible API or proxy.
func NewOpenAIProvider(s config.ModelSettings) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(s.APIKey)
	if s.Endpoint != "" {
		clientConfig.BaseURL = s.Endpoint
	}
	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientConfig),
		apiKey:     s.APIKey,
		model:      s.Model,
		cheapModel: s.CheapModel,
	}
}

func (o *OpenAIProvider) Name() string { return config.ProviderOpenAI }

func (o *OpenAIProvider) Model(tier Tier) string {
	if tier == TierCheap && o.cheapModel != "" {
		return o.cheapModel
	}
	return o.model
}

func (o *OpenAIProvider) chatRequest(req Request) openai.ChatCompletionRequest {
	msgs := req.Messages()
	messages := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == model.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:     o.Model(req.Tier),
		Messages:  messages,
		MaxTokens: maxTokensOr(req.MaxTokens, 2048),
	}
}

func (o *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("openai: %w", ErrNotConfigured)
	}

	chatReq := o.chatRequest(req)
	logging.Debug("OpenAI request", "model", chatReq.Model)

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Stream(ctx context.Context, req Request) (*Stream, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrNotConfigured)
	}

	chatReq := o.chatRequest(req)
	chatReq.Stream = true
	logging.Debug("OpenAI stream", "model", chatReq.Model)

	return NewStream(ctx, func(ctx context.Context, emit func(string) bool) error {
		stream, err := o.client.CreateChatCompletionStream(ctx, chatReq)
		if err != nil {
			return fmt.Errorf("openai stream: %w", err)
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("openai stream: %w", err)
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if d := resp.Choices[0].Delta.Content; d != "" && !emit(d) {
				return ctx.Err()
			}
		}
	}), nil
}
