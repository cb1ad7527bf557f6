package graph

import (
	"context"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/textrank/internal/core/model"
)

const (
	ModeKeyword  = "keyword"
	ModeSentence = "sentence"
)

type pair struct {
	a, b int
}

type weightedPair struct {
	pair
	weight float64
}

// BuildKeywordGraph builds the undirected co-occurrence graph. Within each
// sentence segment every relevant token is linked to the next window-1
// relevant tokens; irrelevant tokens are skipped without breaking the window.
// Segments are processed in workers contiguous shards and merged in order.
func BuildKeywordGraph(ctx context.Context, tokens []model.Token, relevant model.Relevance, window, workers int) (*Graph, error) {
	if window <= 0 {
		return nil, &model.InvalidConfigurationError{Field: "window_size", Reason: fmt.Sprintf("must be > 0, got %d", window)}
	}
	if relevant == nil {
		relevant = model.AllRelevant
	}

	b := NewBuilder(false)
	var segments [][]int
	var current []int
	lastSegment := ""
	for i, t := range tokens {
		seg := t.Segment()
		if i > 0 && seg != lastSegment && len(current) > 0 {
			segments = append(segments, current)
			current = nil
		}
		lastSegment = seg
		if !relevant(t.Category) || t.Key() == "" {
			continue
		}
		current = append(current, b.AddNode(t.Key(), t.Key(), t.Position))
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	if b.Len() == 0 {
		return nil, &model.EmptyInputError{Mode: ModeKeyword}
	}

	shards := partition(len(segments), workers)
	tables := make([]map[pair]float64, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	for s, bounds := range shards {
		g.Go(func() error {
			table := make(map[pair]float64)
			for _, seq := range segments[bounds[0]:bounds[1]] {
				if err := gctx.Err(); err != nil {
					return err
				}
				for i := range seq {
					end := min(i+window, len(seq))
					for j := i + 1; j < end; j++ {
						if seq[i] == seq[j] {
							continue
						}
						table[orderedPair(seq[i], seq[j])]++
					}
				}
			}
			tables[s] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build keyword graph: %w", err)
	}

	for _, table := range tables {
		for p, w := range table {
			b.add(p.a, p.b, w)
		}
	}
	return b.Build(), nil
}

// BuildSentenceGraph builds the undirected similarity graph. Two sentences
// are linked with weight |common| / (ln|Si| + ln|Sj|) where |S| counts
// distinct relevant lemmas. Sentences with fewer than two relevant lemmas
// and pairs with nothing in common get no edge.
func BuildSentenceGraph(ctx context.Context, sentences []model.Sentence, memberships []model.Membership, relevant model.Relevance, workers int) (*Graph, error) {
	if len(sentences) == 0 {
		return nil, &model.EmptyInputError{Mode: ModeSentence}
	}
	if relevant == nil {
		relevant = model.AllRelevant
	}

	ordered := slices.Clone(sentences)
	slices.SortStableFunc(ordered, func(a, b model.Sentence) int {
		return a.Order - b.Order
	})

	b := NewBuilder(false)
	for _, s := range ordered {
		if _, dup := b.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate sentence id %q", s.ID)
		}
		b.AddNode(s.ID, s.Text, s.Order)
	}

	terms := make([]map[string]struct{}, b.Len())
	for i := range terms {
		terms[i] = make(map[string]struct{})
	}
	relevantCount := 0
	for _, m := range memberships {
		idx, ok := b.index[m.SentenceID]
		if !ok {
			return nil, fmt.Errorf("membership references unknown sentence %q", m.SentenceID)
		}
		if m.Lemma == "" || (m.Category != "" && !relevant(m.Category)) {
			continue
		}
		terms[idx][m.Lemma] = struct{}{}
		relevantCount++
	}
	if relevantCount == 0 {
		return nil, &model.EmptyInputError{Mode: ModeSentence}
	}

	n := b.Len()
	shards := partition(n, workers)
	found := make([][]weightedPair, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	for s, bounds := range shards {
		g.Go(func() error {
			var local []weightedPair
			for i := bounds[0]; i < bounds[1]; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if len(terms[i]) < 2 {
					continue
				}
				for j := i + 1; j < n; j++ {
					if w := similarity(terms[i], terms[j]); w > 0 {
						local = append(local, weightedPair{pair: pair{i, j}, weight: w})
					}
				}
			}
			found[s] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build sentence graph: %w", err)
	}

	for _, local := range found {
		for _, p := range local {
			b.add(p.a, p.b, p.weight)
		}
	}
	return b.Build(), nil
}

func similarity(a, b map[string]struct{}) float64 {
	if len(a) < 2 || len(b) < 2 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	common := 0
	for t := range small {
		if _, ok := large[t]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	denom := math.Log(float64(len(a))) + math.Log(float64(len(b)))
	if denom <= 0 {
		return 0
	}
	return float64(common) / denom
}

func orderedPair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// partition splits [0,n) into at most workers contiguous [lo,hi) ranges.
func partition(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if n == 0 {
		return nil
	}
	workers = min(workers, n)
	size := (n + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}
