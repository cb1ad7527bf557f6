// Package phrase merges adjacent ranked unigrams into keyword phrases.
package phrase

import (
	"strings"

	"github.com/agenthands/textrank/internal/core/model"
)

// Aggregate scans the token stream and returns one row per surviving
// unigram plus one row per distinct contiguous run of 2..maxLen surviving
// tokens inside a sentence segment. Every sub-run of a longer run is kept.
// A phrase scores the sum of its unigram scores; Frequency counts verbatim
// occurrences. Rows are unsorted; use the selector to order them.
func Aggregate(tokens []model.Token, survivors map[string]float64, maxLen int) []model.RankedItem {
	if len(survivors) == 0 {
		return nil
	}
	maxLen = max(maxLen, 1)

	rows := make(map[string]*model.RankedItem)
	var order []string
	record := func(run []model.Token) {
		keys := make([]string, len(run))
		texts := make([]string, len(run))
		score := 0.0
		for i, t := range run {
			keys[i] = t.Key()
			texts[i] = t.Text
			score += survivors[keys[i]]
		}
		id := strings.Join(keys, " ")
		if row, ok := rows[id]; ok {
			row.Frequency++
			return
		}
		rows[id] = &model.RankedItem{
			ID:        id,
			Text:      strings.Join(texts, " "),
			Terms:     keys,
			Length:    len(run),
			Score:     score,
			Frequency: 1,
			Position:  run[0].Position,
		}
		order = append(order, id)
	}

	flush := func(run []model.Token) {
		for start := range run {
			for l := 2; l <= maxLen && start+l <= len(run); l++ {
				record(run[start : start+l])
			}
		}
	}

	var run []model.Token
	lastSegment := ""
	for i, t := range tokens {
		if i > 0 && t.Segment() != lastSegment {
			flush(run)
			run = nil
		}
		lastSegment = t.Segment()
		if _, ok := survivors[t.Key()]; !ok {
			flush(run)
			run = nil
			continue
		}
		record([]model.Token{t})
		run = append(run, t)
	}
	flush(run)

	out := make([]model.RankedItem, len(order))
	for i, id := range order {
		out[i] = *rows[id]
	}
	return out
}
