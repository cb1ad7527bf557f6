package model

// RankedItem is one output row: a term, a merged phrase, or a sentence.
type RankedItem struct {
	ID        string   `json:"id"`
	Text      string   `json:"text,omitempty"`
	Terms     []string `json:"terms,omitempty"`
	Length    int      `json:"length,omitempty"`
	Score     float64  `json:"score"`
	Frequency int      `json:"frequency,omitempty"`
	Position  int      `json:"position"`
}

// RunInfo describes how the solver finished.
type RunInfo struct {
	Iterations int      `json:"iterations"`
	Converged  bool     `json:"converged"`
	MaxDelta   float64  `json:"max_delta"`
	Warnings   []string `json:"warnings,omitempty"`
}

// KeywordResult is the keyword-mode output.
type KeywordResult struct {
	Keywords []RankedItem `json:"keywords"`
	Nodes    int          `json:"nodes"`
	RunInfo
}

// SentenceResult is the sentence-mode output. Texts maps sentence id to
// the original sentence text.
type SentenceResult struct {
	Sentences []RankedItem      `json:"sentences"`
	Texts     map[string]string `json:"texts"`
	Nodes     int               `json:"nodes"`
	RunInfo
}
