// Package algorithms explores keyword graphs.
package algorithms

import (
	"github.com/pkg/errors"

	"github.com/athapong/aio-keywords/pkg/graph"
)

type TraversalType string

const (
	BFS TraversalType = "BFS"
	DFS TraversalType = "DFS"
)

// GraphTraversal walks a keyword graph, optionally restricted to one edge type.
type GraphTraversal struct {
	graph    *graph.KeywordGraph
	edgeType string
}

func NewGraphTraversal(g *graph.KeywordGraph) *GraphTraversal {
	return &GraphTraversal{graph: g}
}

// WithEdgeType restricts the traversal to edges of edgeType.
func (t *GraphTraversal) WithEdgeType(edgeType string) *GraphTraversal {
	t.edgeType = edgeType
	return t
}

// Traverse returns the nodes reachable from the node labelled start within
// maxDepth hops, start included.
func (t *GraphTraversal) Traverse(start string, maxDepth int, traversalType TraversalType) ([]graph.Node, error) {
	node, ok := t.graph.NodeByLabel(start)
	if !ok {
		return nil, errors.Errorf("keyword not found: %s", start)
	}
	visited := make(map[string]bool)

	switch traversalType {
	case BFS:
		return t.bfs(node.ID, maxDepth, visited), nil
	case DFS:
		result := make([]graph.Node, 0)
		t.dfs(node.ID, maxDepth, visited, &result)
		return result, nil
	default:
		return nil, errors.Errorf("unsupported traversal type: %s", traversalType)
	}
}

func (t *GraphTraversal) bfs(startID string, maxDepth int, visited map[string]bool) []graph.Node {
	queue := []string{startID}
	result := make([]graph.Node, 0)

	for depth := 0; len(queue) > 0 && depth <= maxDepth; depth++ {
		levelSize := len(queue)
		for i := 0; i < levelSize; i++ {
			current := queue[0]
			queue = queue[1:]

			if visited[current] {
				continue
			}
			visited[current] = true
			if n, ok := t.graph.NodeByID(current); ok {
				result = append(result, n)
			}

			for _, r := range t.graph.Neighbors(current, t.edgeType) {
				if !visited[r.ID] {
					queue = append(queue, r.ID)
				}
			}
		}
	}

	return result
}

func (t *GraphTraversal) dfs(currentID string, maxDepth int, visited map[string]bool, result *[]graph.Node) {
	if maxDepth < 0 || visited[currentID] {
		return
	}

	visited[currentID] = true
	if n, ok := t.graph.NodeByID(currentID); ok {
		*result = append(*result, n)
	}

	for _, r := range t.graph.Neighbors(currentID, t.edgeType) {
		if !visited[r.ID] {
			t.dfs(r.ID, maxDepth-1, visited, result)
		}
	}
}
