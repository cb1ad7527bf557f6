// Package annotate turns raw text into the token and sentence tables the
// ranking engine consumes.
package annotate

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/textrank/internal/core/model"
)

// Annotation is the tokenised form of one or more documents.
type Annotation struct {
	Tokens    []model.Token
	Sentences []model.Sentence
}

// Memberships lists every (sentence, lemma, category) occurrence.
func (a *Annotation) Memberships() []model.Membership {
	out := make([]model.Membership, 0, len(a.Tokens))
	for _, t := range a.Tokens {
		out = append(out, model.Membership{
			SentenceID: t.SentenceID,
			Lemma:      t.Key(),
			Category:   t.Category,
		})
	}
	return out
}

type Annotator interface {
	Annotate(ctx context.Context, doc model.Document) (*Annotation, error)
}

// AnnotateAll annotates docs in order and concatenates the results.
// Positions and sentence order keep counting across documents.
func AnnotateAll(ctx context.Context, a Annotator, docs []model.Document) (*Annotation, error) {
	out := &Annotation{}
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("doc%d", i)
		}
		ann, err := a.Annotate(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("annotate %s: %w", doc.ID, err)
		}
		offset := len(out.Tokens)
		for _, t := range ann.Tokens {
			t.Position += offset
			out.Tokens = append(out.Tokens, t)
		}
		order := len(out.Sentences)
		for _, s := range ann.Sentences {
			s.Order += order
			out.Sentences = append(out.Sentences, s)
		}
	}
	return out, nil
}

// SentenceTables derives the sentence and membership tables from an
// annotated token stream. Sentence text is the space-joined surface forms.
func SentenceTables(tokens []model.Token) ([]model.Sentence, []model.Membership) {
	ann := &Annotation{Tokens: tokens}

	var words [][]string
	index := make(map[string]int)
	for _, t := range tokens {
		seg := t.Segment()
		i, ok := index[seg]
		if !ok {
			i = len(ann.Sentences)
			index[seg] = i
			id := t.SentenceID
			if t.DocumentID != "" {
				id = t.DocumentID + ":" + t.SentenceID
			}
			ann.Sentences = append(ann.Sentences, model.Sentence{ID: id, Order: i})
			words = append(words, nil)
		}
		words[i] = append(words[i], t.Text)
	}
	for i := range ann.Sentences {
		ann.Sentences[i].Text = strings.Join(words[i], " ")
	}

	memberships := ann.Memberships()
	for k, t := range tokens {
		memberships[k].SentenceID = ann.Sentences[index[t.Segment()]].ID
	}
	return ann.Sentences, memberships
}

func sentenceID(docID string, n int) string {
	return fmt.Sprintf("%s:s%d", docID, n)
}
