// Package graph holds the weighted graph the ranking solver walks and the
// builders that derive it from annotated text.
package graph

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidWeight is returned for negative, NaN or infinite edge weights.
var ErrInvalidWeight = errors.New("edge weight must be finite and non-negative")

// Edge is a neighbour index + weight pair. Neighbour lists are sorted by To
// so every walk over them is deterministic.
type Edge struct {
	To     int
	Weight float64
}

// Graph is an immutable weighted graph. Nodes keep their insertion order.
type Graph struct {
	directed  bool
	ids       []string
	labels    []string
	positions []int
	index     map[string]int
	out       [][]Edge
	outWeight []float64
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.ids) }

// Directed reports whether edges were added as arcs rather than pairs.
func (g *Graph) Directed() bool { return g.directed }

func (g *Graph) ID(i int) string    { return g.ids[i] }
func (g *Graph) Label(i int) string { return g.labels[i] }
func (g *Graph) Position(i int) int { return g.positions[i] }

// Index returns the node index for id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Out returns the outgoing edges of node i. Callers must not modify it.
func (g *Graph) Out(i int) []Edge { return g.out[i] }

// OutWeight returns the total outgoing weight of node i.
func (g *Graph) OutWeight(i int) float64 { return g.outWeight[i] }

// Weight returns the weight of the arc from -> to, or 0.
func (g *Graph) Weight(from, to string) float64 {
	i, ok := g.index[from]
	if !ok {
		return 0
	}
	j, ok := g.index[to]
	if !ok {
		return 0
	}
	k, found := slices.BinarySearchFunc(g.out[i], j, func(e Edge, target int) int {
		return e.To - target
	})
	if !found {
		return 0
	}
	return g.out[i][k].Weight
}

// EdgeCount returns the number of arcs, or pairs for an undirected graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for i, edges := range g.out {
		for _, e := range edges {
			if g.directed || i < e.To {
				n++
			}
		}
	}
	return n
}

// Builder accumulates nodes and edge weights, then freezes them into a Graph.
type Builder struct {
	directed  bool
	ids       []string
	labels    []string
	positions []int
	index     map[string]int
	adj       []map[int]float64
}

// NewBuilder creates an empty builder. Undirected builders store every edge
// in both directions.
func NewBuilder(directed bool) *Builder {
	return &Builder{
		directed: directed,
		index:    make(map[string]int),
	}
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int { return len(b.ids) }

// AddNode registers id and returns its index. The first label and position
// seen for an id are kept.
func (b *Builder) AddNode(id, label string, position int) int {
	if i, ok := b.index[id]; ok {
		return i
	}
	i := len(b.ids)
	b.index[id] = i
	b.ids = append(b.ids, id)
	b.labels = append(b.labels, label)
	b.positions = append(b.positions, position)
	b.adj = append(b.adj, make(map[int]float64))
	return i
}

// AddEdge adds weight to the edge between from and to, creating missing
// nodes. Self-loops and zero weights are dropped.
func (b *Builder) AddEdge(from, to string, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return fmt.Errorf("edge %s -> %s: %w", from, to, err)
	}
	i := b.AddNode(from, from, len(b.ids))
	j := b.AddNode(to, to, len(b.ids))
	b.add(i, j, weight)
	return nil
}

func (b *Builder) add(i, j int, weight float64) {
	if i == j || weight == 0 {
		return
	}
	b.adj[i][j] += weight
	if !b.directed {
		b.adj[j][i] += weight
	}
}

// Build freezes the accumulated state. The builder must not be reused.
func (b *Builder) Build() *Graph {
	g := &Graph{
		directed:  b.directed,
		ids:       b.ids,
		labels:    b.labels,
		positions: b.positions,
		index:     b.index,
		out:       make([][]Edge, len(b.ids)),
		outWeight: make([]float64, len(b.ids)),
	}
	for i, m := range b.adj {
		edges := make([]Edge, 0, len(m))
		for to, w := range m {
			edges = append(edges, Edge{To: to, Weight: w})
		}
		slices.SortFunc(edges, func(a, b Edge) int {
			return a.To - b.To
		})
		sum := 0.0
		for _, e := range edges {
			sum += e.Weight
		}
		g.out[i] = edges
		g.outWeight[i] = sum
	}
	b.adj = nil
	return g
}

func checkWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return ErrInvalidWeight
	}
	return nil
}
