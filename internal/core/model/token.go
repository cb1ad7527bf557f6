package model

import "strings"

// Token is one annotated lexical unit from the preprocessing collaborator.
type Token struct {
	Text       string `json:"text"`
	Lemma      string `json:"lemma"`
	Category   string `json:"category"`
	SentenceID string `json:"sentence_id"`
	DocumentID string `json:"document_id,omitempty"`
	Position   int    `json:"position"`
}

// Key is the node identifier for the token: its lemma, or the lower-cased
// surface text when no lemma was supplied.
func (t Token) Key() string {
	if t.Lemma != "" {
		return t.Lemma
	}
	return strings.ToLower(t.Text)
}

// Segment identifies the sentence/document boundary a co-occurrence window
// may not cross.
func (t Token) Segment() string {
	return t.DocumentID + "\x00" + t.SentenceID
}

// Sentence is one row of the sentence table used in sentence mode.
type Sentence struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// Membership records that a lemma occurs in a sentence.
type Membership struct {
	SentenceID string `json:"sentence_id"`
	Lemma      string `json:"lemma"`
	Category   string `json:"category,omitempty"`
}

// Relevance decides whether a category tag makes a unit eligible as a node.
type Relevance func(category string) bool

// RelevantCategories returns a Relevance accepting the given tags
// (case-insensitive). With no tags every category is relevant.
func RelevantCategories(categories ...string) Relevance {
	if len(categories) == 0 {
		return AllRelevant
	}
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[strings.ToLower(c)] = struct{}{}
	}
	return func(category string) bool {
		_, ok := set[strings.ToLower(category)]
		return ok
	}
}

// AllRelevant accepts every category.
func AllRelevant(string) bool { return true }
