// Package selector cuts ranked candidates down to the requested subset and
// orders them.
package selector

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/agenthands/textrank/internal/core/model"
)

// Select applies the selection policy to items and returns a new slice in
// the requested order. Fraction mode keeps floor(value * len) items, at
// least one; a zero value means one third.
func Select(items []model.RankedItem, sel model.Selection) []model.RankedItem {
	candidates := make([]model.RankedItem, 0, len(items))
	for _, it := range items {
		if sel.MinFrequency > 0 && it.Frequency < sel.MinFrequency {
			continue
		}
		candidates = append(candidates, it)
	}
	if len(candidates) == 0 {
		return candidates
	}

	slices.SortStableFunc(candidates, CompareRank)

	switch sel.EffectiveMode() {
	case model.SelectCount:
		candidates = candidates[:min(int(sel.Value), len(candidates))]
	case model.SelectThreshold:
		cut := len(candidates)
		for i, it := range candidates {
			if it.Score < sel.Value {
				cut = i
				break
			}
		}
		candidates = candidates[:cut]
	default:
		candidates = candidates[:FractionCount(len(candidates), sel.Value)]
	}

	Sort(candidates, sel.EffectiveOrder())
	return candidates
}

// FractionCount returns floor(fraction * n), clamped to [1, n].
func FractionCount(n int, fraction float64) int {
	if n == 0 {
		return 0
	}
	if fraction <= 0 {
		fraction = model.DefaultFraction
	}
	k := int(math.Floor(fraction * float64(n)))
	return min(max(k, 1), n)
}

// Sort orders items in place.
func Sort(items []model.RankedItem, order model.Order) {
	if order == model.ByOriginalPosition {
		slices.SortStableFunc(items, ComparePosition)
		return
	}
	slices.SortStableFunc(items, CompareRank)
}

// CompareRank orders by score descending, then position, then id.
func CompareRank(a, b model.RankedItem) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	return ComparePosition(a, b)
}

// ComparePosition orders by position, then shorter rows first, then id.
func ComparePosition(a, b model.RankedItem) int {
	if c := cmp.Compare(a.Position, b.Position); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Length, b.Length); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// FilterLength keeps rows whose Length is within [minLen, maxLen]. A zero
// bound is open. Rows without a Length count as length 1.
func FilterLength(items []model.RankedItem, minLen, maxLen int) []model.RankedItem {
	out := make([]model.RankedItem, 0, len(items))
	for _, it := range items {
		l := max(it.Length, 1)
		if minLen > 0 && l < minLen {
			continue
		}
		if maxLen > 0 && l > maxLen {
			continue
		}
		out = append(out, it)
	}
	return out
}
