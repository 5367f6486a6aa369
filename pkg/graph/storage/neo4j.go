package storage

import (
	"context"
	"sort"
	"time"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-keywords/pkg/graph"
)

// Neo4jGraphStore implements GraphStore using Neo4j. Nodes are merged on
// their lower-cased label, so storing graphs from several runs accumulates
// into one graph.
type Neo4jGraphStore struct {
	driver neo4j.Driver
	uri    string
	logger *logrus.Logger
}

// NewNeo4jGraphStore creates a new Neo4j graph store
func NewNeo4jGraphStore(uri, username, password string) (*Neo4jGraphStore, error) {
	auth := neo4j.BasicAuth(username, password, "")
	driver, err := neo4j.NewDriver(uri, auth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Neo4j driver")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &Neo4jGraphStore{
		driver: driver,
		uri:    uri,
		logger: logger,
	}, nil
}

// Connect checks that the server is reachable.
func (s *Neo4jGraphStore) Connect(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(); err != nil {
		return errors.Wrapf(err, "failed to connect to Neo4j at %s", s.uri)
	}
	return nil
}

// Close closes the driver
func (s *Neo4jGraphStore) Close() error {
	if s.driver != nil {
		return s.driver.Close()
	}
	return nil
}

const mergeNodeQuery = `
	MERGE (k:Keyword {key: $key})
	ON CREATE SET k.id = $id, k.created_at = datetime()
	SET k.label = $label,
		k.type = $type,
		k.sources = $sources,
		k.updated_at = datetime()
	SET k += $properties
`

// relationship types cannot be parameters in Cypher
var mergeEdgeQueries = map[string]string{
	graph.EdgeRelatedTo: mergeEdgeQuery(graph.EdgeRelatedTo),
	graph.EdgeCoOccurs:  mergeEdgeQuery(graph.EdgeCoOccurs),
}

func mergeEdgeQuery(edgeType string) string {
	return `
	MATCH (a:Keyword {key: $source})
	MATCH (b:Keyword {key: $target})
	MERGE (a)-[r:` + edgeType + `]->(b)
	ON CREATE SET r.id = $id, r.created_at = datetime()
	SET r.weight = $weight,
		r.updated_at = datetime()
	SET r += $properties
`
}

// StoreGraph merges the graph's nodes and edges in one write transaction.
func (s *Neo4jGraphStore) StoreGraph(ctx context.Context, g *graph.KeywordGraph) error {
	if g == nil {
		return errors.New("cannot store nil graph")
	}
	start := time.Now()

	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		keys := make(map[string]string, len(g.Nodes))
		for _, n := range g.Nodes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			keys[n.ID] = n.Key()
			if _, err := tx.Run(mergeNodeQuery, nodeParams(n)); err != nil {
				return nil, errors.Wrapf(err, "failed to store node %q", n.Label)
			}
		}

		for _, e := range g.Edges {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			query, ok := mergeEdgeQueries[e.Type]
			if !ok {
				return nil, errors.Errorf("unsupported edge type %q", e.Type)
			}
			params, err := edgeParams(e, keys)
			if err != nil {
				return nil, err
			}
			if _, err := tx.Run(query, params); err != nil {
				return nil, errors.Wrapf(err, "failed to store edge %s", e.ID)
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"nodes":    len(g.Nodes),
		"edges":    len(g.Edges),
		"duration": time.Since(start).String(),
	}).Info("Stored keyword graph in Neo4j")
	return nil
}

// LoadGraph reads every keyword node and relationship in a read transaction.
func (s *Neo4jGraphStore) LoadGraph(ctx context.Context) (*graph.KeywordGraph, error) {
	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	loaded, err := session.ReadTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		g := &graph.KeywordGraph{
			Nodes:       make([]graph.Node, 0),
			Edges:       make([]graph.Edge, 0),
			GeneratedAt: time.Now(),
		}

		result, err := tx.Run(`MATCH (k:Keyword) RETURN k ORDER BY k.key`, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to query nodes")
		}
		docs := make(map[string]bool)
		for result.Next() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			node, ok := result.Record().Values[0].(neo4j.Node)
			if !ok {
				continue
			}
			n := nodeFromProps(node.Props)
			for _, src := range n.Sources {
				docs[src] = true
			}
			g.Nodes = append(g.Nodes, n)
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		result, err = tx.Run(`
			MATCH (a:Keyword)-[r]->(b:Keyword)
			RETURN a.id, type(r), b.id, r
			ORDER BY type(r), a.key, b.key`, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to query edges")
		}
		for result.Next() {
			values := result.Record().Values
			rel, ok := values[3].(neo4j.Relationship)
			if !ok {
				continue
			}
			g.Edges = append(g.Edges, edgeFromProps(
				asString(values[0]), asString(values[1]), asString(values[2]), rel.Props))
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		for id := range docs {
			g.Documents = append(g.Documents, id)
		}
		sort.Strings(g.Documents)
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return loaded.(*graph.KeywordGraph), nil
}

// reserved node properties are stored as top-level fields
var reservedNodeProps = map[string]bool{
	"key": true, "id": true, "label": true, "type": true, "sources": true,
	"created_at": true, "updated_at": true,
}

var reservedEdgeProps = map[string]bool{
	"id": true, "weight": true, "created_at": true, "updated_at": true,
}

func nodeParams(n graph.Node) map[string]interface{} {
	props := make(map[string]interface{}, len(n.Properties))
	for k, v := range n.Properties {
		if !reservedNodeProps[k] {
			props[k] = v
		}
	}
	sources := n.Sources
	if sources == nil {
		sources = []string{}
	}
	return map[string]interface{}{
		"key":        n.Key(),
		"id":         n.ID,
		"label":      n.Label,
		"type":       n.Type,
		"sources":    sources,
		"properties": props,
	}
}

func edgeParams(e graph.Edge, keys map[string]string) (map[string]interface{}, error) {
	source, ok := keys[e.Source]
	if !ok {
		return nil, errors.Errorf("edge %s references unknown node %s", e.ID, e.Source)
	}
	target, ok := keys[e.Target]
	if !ok {
		return nil, errors.Errorf("edge %s references unknown node %s", e.ID, e.Target)
	}
	props := make(map[string]interface{}, len(e.Properties))
	for k, v := range e.Properties {
		if !reservedEdgeProps[k] {
			props[k] = v
		}
	}
	return map[string]interface{}{
		"source":     source,
		"target":     target,
		"id":         e.ID,
		"weight":     e.Weight,
		"properties": props,
	}, nil
}

func nodeFromProps(props map[string]interface{}) graph.Node {
	n := graph.Node{
		ID:         asString(props["id"]),
		Label:      asString(props["label"]),
		Type:       asString(props["type"]),
		Properties: make(map[string]interface{}),
	}
	if list, ok := props["sources"].([]interface{}); ok {
		for _, v := range list {
			n.Sources = append(n.Sources, asString(v))
		}
	}
	for k, v := range props {
		if !reservedNodeProps[k] {
			n.Properties[k] = fromNeo4jValue(v)
		}
	}
	return n
}

func edgeFromProps(source, edgeType, target string, props map[string]interface{}) graph.Edge {
	e := graph.Edge{
		ID:         asString(props["id"]),
		Source:     source,
		Target:     target,
		Type:       edgeType,
		Properties: make(map[string]interface{}),
	}
	if w, ok := props["weight"].(float64); ok {
		e.Weight = w
	}
	for k, v := range props {
		if !reservedEdgeProps[k] {
			e.Properties[k] = fromNeo4jValue(v)
		}
	}
	return e
}

// fromNeo4jValue converts driver integers back to int.
func fromNeo4jValue(v interface{}) interface{} {
	if n, ok := v.(int64); ok {
		return int(n)
	}
	return v
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
