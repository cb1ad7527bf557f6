package annotate

import (
	"context"
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"

	"github.com/agenthands/textrank/internal/core/model"
)

const (
	CategoryNoun  = "noun"
	CategoryOther = "other"
)

// RegexAnnotator splits sentences on terminal punctuation and words on
// Unicode letter runs. Lemmas are Snowball stems. Stopwords are tagged
// "other", everything else "noun".
type RegexAnnotator struct {
	sentencePattern *regexp.Regexp
	tokenPattern    *regexp.Regexp
	stopwords       map[string]struct{}
}

func NewRegexAnnotator() *RegexAnnotator {
	return &RegexAnnotator{
		sentencePattern: regexp.MustCompile(`[^.!?]+[.!?]*`),
		tokenPattern:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:       defaultStopwords(),
	}
}

func (r *RegexAnnotator) Annotate(ctx context.Context, doc model.Document) (*Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ann := &Annotation{}
	for _, raw := range r.sentencePattern.FindAllString(doc.Text, -1) {
		text := strings.TrimSpace(raw)
		words := r.tokenPattern.FindAllString(text, -1)
		if len(words) == 0 {
			continue
		}

		id := sentenceID(doc.ID, len(ann.Sentences))
		ann.Sentences = append(ann.Sentences, model.Sentence{ID: id, Text: text, Order: len(ann.Sentences)})
		for _, w := range words {
			lower := strings.ToLower(w)
			category := CategoryNoun
			if _, ok := r.stopwords[lower]; ok {
				category = CategoryOther
			}
			lemma := english.Stem(lower, true)
			ann.Tokens = append(ann.Tokens, model.Token{
				Text:       w,
				Lemma:      lemma,
				Category:   category,
				SentenceID: id,
				DocumentID: doc.ID,
				Position:   len(ann.Tokens),
			})
		}
	}
	return ann, nil
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as",
		"is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these", "those", "from", "up", "down",
		"over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before",
		"after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"i", "we", "you", "he", "she", "they", "them", "his", "her", "their", "our", "my", "your", "not", "no", "do", "does",
		"did", "has", "have", "had", "which", "who", "whom", "what", "when", "where", "why", "how", "all", "any", "each",
		"also", "there", "here", "would", "could", "may", "might", "must",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
