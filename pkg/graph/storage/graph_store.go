// Package storage persists keyword graphs.
package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/athapong/aio-keywords/pkg/graph"
)

// GraphStore defines an interface for storing keyword graphs
type GraphStore interface {
	// StoreGraph persists a keyword graph
	StoreGraph(ctx context.Context, g *graph.KeywordGraph) error

	// LoadGraph loads a keyword graph from storage
	LoadGraph(ctx context.Context) (*graph.KeywordGraph, error)
}

// JSONGraphStore implements GraphStore using a JSON file
type JSONGraphStore struct {
	filePath string
}

// NewJSONGraphStore creates a new JSON graph store
func NewJSONGraphStore(filePath string) *JSONGraphStore {
	return &JSONGraphStore{
		filePath: filePath,
	}
}

// StoreGraph writes the graph as indented JSON, replacing the file.
func (s *JSONGraphStore) StoreGraph(ctx context.Context, g *graph.KeywordGraph) error {
	if g == nil {
		return errors.New("cannot store nil graph")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return errors.Wrap(err, "failed to create graph directory")
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode graph")
	}

	return errors.Wrapf(os.WriteFile(s.filePath, data, 0644), "failed to write graph to %s", s.filePath)
}

// LoadGraph loads a keyword graph from the JSON file
func (s *JSONGraphStore) LoadGraph(ctx context.Context) (*graph.KeywordGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read graph from %s", s.filePath)
	}

	var g graph.KeywordGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(err, "failed to decode graph")
	}
	normalizeJSONNumbers(&g)

	return &g, nil
}

// normalizeJSONNumbers restores integer properties that encoding/json
// decodes as float64.
func normalizeJSONNumbers(g *graph.KeywordGraph) {
	fix := func(props map[string]interface{}) {
		for k, v := range props {
			if f, ok := v.(float64); ok && isCountProperty(k) {
				props[k] = int(f)
			}
		}
	}
	for i := range g.Nodes {
		fix(g.Nodes[i].Properties)
	}
	for i := range g.Edges {
		fix(g.Edges[i].Properties)
	}
}

func isCountProperty(name string) bool {
	switch name {
	case "frequency", "mentions", "contexts", "documents":
		return true
	}
	return false
}
