package model

// AnnotatedToken is the per-token shape requested from an LLM annotator.
type AnnotatedToken struct {
	Text     string `json:"text"`
	Lemma    string `json:"lemma"`
	POS      string `json:"pos"`
	Sentence int    `json:"sentence"`
}

// AnnotatedTokens wraps the annotator response.
type AnnotatedTokens struct {
	Tokens []AnnotatedToken `json:"tokens"`
}

// Document is raw text handed to an annotator.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
