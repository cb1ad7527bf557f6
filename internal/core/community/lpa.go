package community

import (
	"sort"

	"github.com/agenthands/textrank/internal/core/graph"
)

// LabelPropagationDetector groups nodes with the Label Propagation Algorithm.
// Each node adopts the label carrying the most edge weight among its
// neighbours until no label changes or MaxIterations is reached.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(g *graph.Graph) []string {
	n := g.Len()
	if n == 0 {
		return nil
	}

	labels := make([]string, n)
	for i := range labels {
		labels[i] = g.ID(i)
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for u := range n {
			neighbors := g.Out(u)
			if len(neighbors) == 0 {
				continue
			}

			labelWeights := make(map[string]float64)
			maxWeight := 0.0
			for _, e := range neighbors {
				label := labels[e.To]
				labelWeights[label] += e.Weight
				if labelWeights[label] > maxWeight {
					maxWeight = labelWeights[label]
				}
			}

			if labelWeights[labels[u]] == maxWeight {
				continue
			}

			// Tie-break on the lexicographically largest label for stability.
			var candidates []string
			for label, w := range labelWeights {
				if w == maxWeight {
					candidates = append(candidates, label)
				}
			}
			sort.Strings(candidates)
			labels[u] = candidates[len(candidates)-1]
			changeCount++
		}

		if changeCount == 0 {
			break
		}
	}

	return dropSingletons(labels)
}
