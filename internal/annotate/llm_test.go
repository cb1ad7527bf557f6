package annotate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textrank/internal/core/model"
)

func TestLLMAnnotator(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: "```json\n" + `{
		"tokens": [
			{"text": "Neural", "lemma": "neural", "pos": "ADJ", "sentence": 0},
			{"text": "networks", "lemma": "network", "pos": "NOUN", "sentence": 0},
			{"text": "learn", "lemma": "", "pos": "VERB", "sentence": 0},
			{"text": " ", "lemma": "", "pos": "SPACE", "sentence": 0},
			{"text": "Fast", "lemma": "fast", "pos": "ADJ", "sentence": 1}
		]
	}` + "\n```",
	}

	a, err := NewLLMAnnotator(mockLLM, "tag: %s")
	require.NoError(t, err)
	ann, err := a.Annotate(context.Background(), model.Document{ID: "d", Text: "Neural networks learn. Fast."})
	require.NoError(t, err)

	assert.Equal(t, "tag: Neural networks learn. Fast.", mockLLM.Prompt)

	require.Len(t, ann.Tokens, 4)
	assert.Equal(t, model.Token{Text: "networks", Lemma: "network", Category: "noun", SentenceID: "d:s0", DocumentID: "d", Position: 1}, ann.Tokens[1])
	assert.Equal(t, "learn", ann.Tokens[2].Lemma)
	assert.Equal(t, "d:s1", ann.Tokens[3].SentenceID)

	require.Len(t, ann.Sentences, 2)
	assert.Equal(t, "Neural networks learn", ann.Sentences[0].Text)
	assert.Equal(t, 1, ann.Sentences[1].Order)
}

func TestLLMAnnotator_DefaultPrompt(t *testing.T) {
	a, err := NewLLMAnnotator(&MockLLMClient{}, "  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompt, a.Prompt)
}

func TestLLMAnnotator_PromptPlaceholder(t *testing.T) {
	for _, prompt := range []string{"no placeholder", "%s then %s again"} {
		_, err := NewLLMAnnotator(&MockLLMClient{}, prompt)
		var invalid *model.InvalidConfigurationError
		require.ErrorAs(t, err, &invalid, prompt)
		assert.Equal(t, "annotation.prompt", invalid.Field)
	}

	mockLLM := &MockLLMClient{Response: `{"tokens": []}`}
	a, err := NewLLMAnnotator(mockLLM, "Keep 100% of the words: %s")
	require.NoError(t, err)
	_, err = a.Annotate(context.Background(), model.Document{Text: "50% off"})
	require.NoError(t, err)
	assert.Equal(t, "Keep 100% of the words: 50% off", mockLLM.Prompt)
}

func TestLLMAnnotator_BadResponse(t *testing.T) {
	a, err := NewLLMAnnotator(&MockLLMClient{Response: "I cannot help with that."}, "")
	require.NoError(t, err)
	_, err = a.Annotate(context.Background(), model.Document{Text: "x"})
	assert.ErrorContains(t, err, "failed to parse annotation")
}
