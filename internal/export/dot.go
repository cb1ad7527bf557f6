// Package export renders graph exports for external viewers.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/agenthands/textrank/internal/core/model"
)

var palette = []string{
	"red", "blue", "darkgreen", "orange", "purple",
	"brown", "deeppink", "cyan4", "gold3", "slategray",
}

// DOT renders export in Graphviz DOT. Nodes are labelled with their score
// and coloured by community; edges carry their weight.
func DOT(ctx context.Context, export *model.GraphExport) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", err
	}
	defer gv.Close()

	desc := cgraph.UnDirected
	if export.Directed {
		desc = cgraph.Directed
	}
	graph, err := gv.Graph(graphviz.WithName(export.Mode), graphviz.WithDirectedType(desc))
	if err != nil {
		return "", err
	}
	defer graph.Close()

	colors := make(map[string]string)
	nodes := make(map[string]*cgraph.Node, len(export.Nodes))
	for _, n := range export.Nodes {
		node, err := graph.CreateNodeByName(n.ID)
		if err != nil {
			return "", fmt.Errorf("node %s: %w", n.ID, err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%.4f", n.Label, n.Score))
		if n.Community != "" {
			c, ok := colors[n.Community]
			if !ok {
				c = palette[len(colors)%len(palette)]
				colors[n.Community] = c
			}
			node.SetColor(c)
		}
		nodes[n.ID] = node
	}

	for i, e := range export.Edges {
		src, dst := nodes[e.Source], nodes[e.Target]
		if src == nil || dst == nil {
			return "", fmt.Errorf("edge %s -> %s references an unknown node", e.Source, e.Target)
		}
		edge, err := graph.CreateEdgeByName(fmt.Sprintf("e%d", i), src, dst)
		if err != nil {
			return "", fmt.Errorf("edge %s -> %s: %w", e.Source, e.Target, err)
		}
		edge.SetLabel(fmt.Sprintf("%g", e.Weight))
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
