package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/aio-keywords/pkg/graph"
)

// chain builds a - b - c - d with RELATED_TO edges and a CO_OCCURS edge a - d.
func chain() *graph.KeywordGraph {
	nodes := []graph.Node{
		{ID: "1", Label: "a"}, {ID: "2", Label: "b"}, {ID: "3", Label: "c"}, {ID: "4", Label: "d"},
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "1", Target: "2", Type: graph.EdgeRelatedTo},
		{ID: "e2", Source: "2", Target: "3", Type: graph.EdgeRelatedTo},
		{ID: "e3", Source: "3", Target: "4", Type: graph.EdgeRelatedTo},
		{ID: "e4", Source: "1", Target: "4", Type: graph.EdgeCoOccurs},
	}
	return &graph.KeywordGraph{Nodes: nodes, Edges: edges}
}

func labels(nodes []graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func TestBFS(t *testing.T) {
	tr := NewGraphTraversal(chain())

	nodes, err := tr.Traverse("A", 1, BFS)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, labels(nodes))

	nodes, err = tr.Traverse("a", 0, BFS)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, labels(nodes))
}

func TestBFSWithEdgeType(t *testing.T) {
	tr := NewGraphTraversal(chain()).WithEdgeType(graph.EdgeRelatedTo)

	nodes, err := tr.Traverse("a", 2, BFS)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, labels(nodes))
}

func TestDFS(t *testing.T) {
	tr := NewGraphTraversal(chain()).WithEdgeType(graph.EdgeRelatedTo)

	nodes, err := tr.Traverse("a", 10, DFS)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, labels(nodes))
}

func TestTraverseErrors(t *testing.T) {
	tr := NewGraphTraversal(chain())

	_, err := tr.Traverse("missing", 1, BFS)
	assert.Error(t, err)

	_, err = tr.Traverse("a", 1, TraversalType("random"))
	assert.Error(t, err)
}
