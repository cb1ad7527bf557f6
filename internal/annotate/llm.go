package annotate

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/textrank/internal/core/common"
	"github.com/agenthands/textrank/internal/core/model"
	"github.com/agenthands/textrank/internal/llm"
)

// TextPlaceholder marks where the document text goes in a prompt. It is
// substituted literally, so other % signs in the prompt are kept as written.
const TextPlaceholder = "%s"

// DefaultPrompt asks for one JSON token record per word.
const DefaultPrompt = `Tokenize the text below. Return JSON of the form
{"tokens": [{"text": "...", "lemma": "...", "pos": "...", "sentence": 0}]}
with one entry per word in reading order. Use lower-case lemmas and
Universal Dependencies POS tags in lower case (noun, propn, adj, verb, ...).
Number sentences from 0.

Text:
%s`

// LLMAnnotator asks a language model for lemmas and POS tags.
type LLMAnnotator struct {
	LLM    llm.LLMClient
	Prompt string
}

// NewLLMAnnotator uses DefaultPrompt when prompt is blank. A custom prompt
// must hold exactly one TextPlaceholder.
func NewLLMAnnotator(client llm.LLMClient, prompt string) (*LLMAnnotator, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	if n := strings.Count(prompt, TextPlaceholder); n != 1 {
		return nil, &model.InvalidConfigurationError{
			Field:  "annotation.prompt",
			Reason: fmt.Sprintf("must contain exactly one %s placeholder, found %d", TextPlaceholder, n),
		}
	}
	return &LLMAnnotator{
		LLM:    client,
		Prompt: prompt,
	}, nil
}

func (a *LLMAnnotator) Annotate(ctx context.Context, doc model.Document) (*Annotation, error) {
	prompt := strings.Replace(a.Prompt, TextPlaceholder, doc.Text, 1)

	response, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate annotation: %w", err)
	}

	result, err := common.ParseJSON[model.AnnotatedTokens](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse annotation: %w", err)
	}

	ann := &Annotation{}
	var words [][]string
	index := make(map[int]int)
	for _, at := range result.Tokens {
		text := strings.TrimSpace(at.Text)
		if text == "" {
			continue
		}
		s, ok := index[at.Sentence]
		if !ok {
			s = len(ann.Sentences)
			index[at.Sentence] = s
			ann.Sentences = append(ann.Sentences, model.Sentence{ID: sentenceID(doc.ID, s), Order: s})
			words = append(words, nil)
		}
		words[s] = append(words[s], text)

		lemma := strings.ToLower(strings.TrimSpace(at.Lemma))
		if lemma == "" {
			lemma = strings.ToLower(text)
		}
		ann.Tokens = append(ann.Tokens, model.Token{
			Text:       text,
			Lemma:      lemma,
			Category:   strings.ToLower(strings.TrimSpace(at.POS)),
			SentenceID: ann.Sentences[s].ID,
			DocumentID: doc.ID,
			Position:   len(ann.Tokens),
		})
	}
	for i := range ann.Sentences {
		ann.Sentences[i].Text = strings.Join(words[i], " ")
	}
	return ann, nil
}
