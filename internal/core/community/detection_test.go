package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textrank/internal/core/graph"
)

func TestComponentDetector_Detect(t *testing.T) {
	b := graph.NewBuilder(false)
	require.NoError(t, b.AddEdge("A", "B", 1))
	require.NoError(t, b.AddEdge("B", "C", 1))
	require.NoError(t, b.AddEdge("D", "E", 1))
	b.AddNode("F", "F", 5)
	g := b.Build()

	labels := (&ComponentDetector{}).Detect(g)
	require.Len(t, labels, 6)

	idx := func(id string) int {
		i, ok := g.Index(id)
		require.True(t, ok)
		return i
	}
	assert.Equal(t, "A", labels[idx("A")])
	assert.Equal(t, "A", labels[idx("B")])
	assert.Equal(t, "A", labels[idx("C")])
	assert.Equal(t, "D", labels[idx("D")])
	assert.Equal(t, "D", labels[idx("E")])
	assert.Empty(t, labels[idx("F")])
}

func TestNew(t *testing.T) {
	assert.IsType(t, &LabelPropagationDetector{}, New(""))
	assert.IsType(t, &LabelPropagationDetector{}, New(MethodLabelPropagation))
	assert.IsType(t, &ComponentDetector{}, New(MethodComponents))
	assert.Nil(t, New(MethodNone))
}
