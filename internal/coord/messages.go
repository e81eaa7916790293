package coord

import (
	"time"

	"github.com/brianlovin/hn-cli-sub000/internal/brain"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// SummaryDone carries a finished summary request.
type SummaryDone struct {
	Token   Token
	Result  model.SummaryResult
	Article string
	Err     error
}

// SuggestionsDone carries initial or follow-up suggestions; Token.Kind
// tells which.
type SuggestionsDone struct {
	Token       Token
	Suggestions []string
	Err         error
}

// ChatStarted hands the opened stream back to the event loop.
type ChatStarted struct {
	Token  Token
	Stream *brain.Stream
	Err    error
}

// ChatDelta is one increment of a streamed reply.
type ChatDelta struct {
	Token Token
	Delta string

	stream *brain.Stream
}

// ChatDone ends a streamed reply. Err is nil on normal completion.
type ChatDone struct {
	Token Token
	Err   error
}

// Tick advances the loading animation of one task.
type Tick struct {
	Token Token
	gen   int
}

// ItemsLoaded is the result of a ranking pass.
type ItemsLoaded struct {
	Items     []model.Item
	FetchedAt time.Time
	Err       error
}
