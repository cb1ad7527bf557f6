package llm

import (
	"context"
)

// LLMClient generates a completion for a single user prompt. Clients are
// asked for JSON output where the provider supports it.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// maxTokens bounds a completion. Token listings for a few paragraphs run long.
const maxTokens = 4096
