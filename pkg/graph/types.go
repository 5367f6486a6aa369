// Package graph merges per-document keyword reports into a keyword graph.
package graph

import (
	"strings"
	"time"
)

// Edge types.
const (
	// EdgeRelatedTo links a keyword to one of its related terms.
	EdgeRelatedTo = "RELATED_TO"
	// EdgeCoOccurs links two entities that appear in the same sentences.
	EdgeCoOccurs = "CO_OCCURS"
)

// Node is a keyword or entity. Nodes are unique by lower-cased label.
type Node struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Sources    []string               `json:"sources,omitempty"` // Document IDs where this node was found
}

// Key returns the node's identity key.
func (n Node) Key() string {
	return NodeKey(n.Label)
}

// NodeKey returns the identity key for a label.
func NodeKey(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// Edge is an undirected relationship between two nodes. Source holds the
// node whose key sorts first.
type Edge struct {
	ID         string                 `json:"id"`
	Source     string                 `json:"source"` // Source node ID
	Target     string                 `json:"target"` // Target node ID
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Weight     float64                `json:"weight"`
}

// KeywordGraph is a graph of keywords merged from many documents.
type KeywordGraph struct {
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	Documents   []string  `json:"documents"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NodeByID returns the node with the given id.
func (g *KeywordGraph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeByLabel returns the node whose label matches label case-insensitively.
func (g *KeywordGraph) NodeByLabel(label string) (Node, bool) {
	key := NodeKey(label)
	for _, n := range g.Nodes {
		if n.Key() == key {
			return n, true
		}
	}
	return Node{}, false
}

// Neighbors returns the nodes sharing an edge with id, optionally filtered by
// edge type, in edge order.
func (g *KeywordGraph) Neighbors(id, edgeType string) []Node {
	related := make([]Node, 0)
	for _, e := range g.Edges {
		if edgeType != "" && e.Type != edgeType {
			continue
		}
		var other string
		switch id {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}
		if n, ok := g.NodeByID(other); ok {
			related = append(related, n)
		}
	}
	return related
}
