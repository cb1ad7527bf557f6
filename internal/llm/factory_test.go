package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textrank/internal/config"
)

func TestNewClient_Providers(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, config.LLMConfig{Provider: "OpenAI", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)
	assert.Equal(t, "gpt-4o-mini", c.(*OpenAIClient).model)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "claude", APIKey: "k", Model: "claude-x"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, c)
	assert.Equal(t, "claude-x", c.(*ClaudeClient).model)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)
}

func TestNewClient_Unsupported(t *testing.T) {
	_, err := NewClient(context.Background(), config.LLMConfig{Provider: "watson"})
	assert.ErrorContains(t, err, "unsupported llm provider")
}

func TestOllamaBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", ollamaBaseURL(""))
	assert.Equal(t, "http://gpu:11434/v1", ollamaBaseURL("http://gpu:11434/"))
	assert.Equal(t, "http://gpu:11434/v1", ollamaBaseURL("http://gpu:11434/v1"))
}
