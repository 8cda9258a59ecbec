package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Params carry the generation settings for a single completion request.
// They are read from the bot configuration at call time, not cached,
// so runtime settings changes apply to the next message.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message, p Params) (Response, error)
}
