// Package brain talks to the text-generation backends and builds the
// prompts hn sends them.
package brain

import (
	"context"
	"errors"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// Tier selects between the conversational model and a cheaper one used
// for auxiliary work (summaries, suggested questions).
type Tier int

const (
	TierPrimary Tier = iota
	TierCheap
)

func (t Tier) String() string {
	if t == TierCheap {
		return "cheap"
	}
	return "primary"
}

// ErrNotConfigured is returned when no provider has credentials.
var ErrNotConfigured = errors.New("no AI provider configured")

// Request is one generation call: a system prompt, prior turns and the
// new user message.
type Request struct {
	System    string
	History   []model.Message
	Prompt    string
	Tier      Tier
	MaxTokens int
}

// Messages returns History followed by Prompt as a user turn.
func (r Request) Messages() []model.Message {
	msgs := make([]model.Message, 0, len(r.History)+1)
	msgs = append(msgs, r.History...)
	if r.Prompt != "" {
		msgs = append(msgs, model.Message{Role: model.RoleUser, Content: r.Prompt})
	}
	return msgs
}

func maxTokensOr(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}

// Backend generates text. Implementations are safe for concurrent use.
type Backend interface {
	// Name returns the provider name (e.g. "anthropic", "openai").
	Name() string
	// Model returns the model used for tier.
	Model(tier Tier) string
	// Complete returns the full response.
	Complete(ctx context.Context, req Request) (string, error)
	// Stream starts an incremental response. Transport errors surface
	// through Recv.
	Stream(ctx context.Context, req Request) (*Stream, error)
}
