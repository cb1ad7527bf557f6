// Package community tags graph nodes with a community label so external
// renderers can colour related keywords together.
package community

import (
	"github.com/agenthands/textrank/internal/core/graph"
)

const (
	MethodLabelPropagation = "lpa"
	MethodComponents       = "components"
	MethodNone             = "none"
)

// Detector assigns a label to every node index. Nodes that end up alone in
// their group get the empty label.
type Detector interface {
	Detect(g *graph.Graph) []string
}

// New returns the detector for method, or nil for "none".
func New(method string) Detector {
	switch method {
	case MethodComponents:
		return &ComponentDetector{}
	case MethodNone:
		return nil
	default:
		return NewLabelPropagationDetector()
	}
}

// ComponentDetector labels each connected component with the id of its
// first node.
type ComponentDetector struct{}

func (d *ComponentDetector) Detect(g *graph.Graph) []string {
	labels := make([]string, g.Len())
	visited := make([]bool, g.Len())

	for i := range g.Len() {
		if !visited[i] {
			d.dfs(g, i, g.ID(i), visited, labels)
		}
	}

	return dropSingletons(labels)
}

func (d *ComponentDetector) dfs(g *graph.Graph, u int, label string, visited []bool, labels []string) {
	visited[u] = true
	labels[u] = label
	for _, e := range g.Out(u) {
		if !visited[e.To] {
			d.dfs(g, e.To, label, visited, labels)
		}
	}
}

func dropSingletons(labels []string) []string {
	size := make(map[string]int)
	for _, l := range labels {
		size[l]++
	}
	for i, l := range labels {
		if size[l] < 2 {
			labels[i] = ""
		}
	}
	return labels
}
