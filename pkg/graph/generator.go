package graph

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-keywords/pkg/keywords"
	"github.com/athapong/aio-keywords/pkg/metrics"
)

// NodeTypeEntity is the type of nodes created from recognized entities.
const NodeTypeEntity = string(keywords.TypeEntity)

// Generator builds a keyword graph from per-document reports.
type Generator struct {
	nodes       map[string]*Node // node key -> node
	edges       map[string]*Edge // edge ID -> edge
	edgeDocs    map[string]mapset.Set[string]
	documentMap map[string]bool // tracking processed document IDs
	mutex       sync.RWMutex
	logger      *logrus.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates an empty generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	g := &Generator{
		nodes:       make(map[string]*Node),
		edges:       make(map[string]*Edge),
		edgeDocs:    make(map[string]mapset.Set[string]),
		documentMap: make(map[string]bool),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddDocument merges a document's report into the graph. A document that
// was already added is ignored.
func (g *Generator) AddDocument(docID string, report *keywords.Report) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if report == nil {
		return errors.Errorf("cannot add nil report for document %q", docID)
	}
	if docID == "" {
		return errors.New("document id is required")
	}

	// Skip if document was already processed
	if g.documentMap[docID] {
		return nil
	}
	g.documentMap[docID] = true

	for _, kw := range report.Keywords {
		node := g.upsertNode(kw.Keyword, string(kw.Type), docID)
		node.Properties["score"] = maxFloat(node.Properties["score"], kw.Score)
		node.Properties["frequency"] = addInt(node.Properties["frequency"], kw.Frequency)
	}

	for _, ent := range report.Entities {
		node := g.upsertNode(ent.Text, NodeTypeEntity, docID)
		node.Type = NodeTypeEntity
		node.Properties["category"] = ent.Category
		node.Properties["mentions"] = addInt(node.Properties["mentions"], ent.Mentions)
		node.Properties["confidence"] = maxFloat(node.Properties["confidence"], ent.Confidence)
	}

	for _, kw := range report.Keywords {
		for _, related := range kw.RelatedTerms {
			edge, ok := g.upsertEdge(kw.Keyword, related, EdgeRelatedTo, docID)
			if !ok {
				g.logger.WithFields(logrus.Fields{
					"keyword": kw.Keyword,
					"related": related,
					"doc_id":  docID,
				}).Debug("Skipping relation with unknown keyword")
				continue
			}
			edge.Weight = float64(g.edgeDocs[edge.ID].Cardinality())
		}
	}

	for _, ev := range report.Relationships {
		edge, ok := g.upsertEdge(ev.TermA, ev.TermB, EdgeCoOccurs, docID)
		if !ok {
			g.logger.WithFields(logrus.Fields{
				"term_a": ev.TermA,
				"term_b": ev.TermB,
				"doc_id": docID,
			}).Warn("Skipping relationship with unknown entities")
			continue
		}
		edge.Weight = math.Max(edge.Weight, ev.Confidence)
		edge.Properties["confidence"] = edge.Weight
		edge.Properties["contexts"] = addInt(edge.Properties["contexts"], len(ev.Contexts))
	}

	return nil
}

func (g *Generator) upsertNode(label, nodeType, docID string) *Node {
	key := NodeKey(label)
	node, exists := g.nodes[key]
	if !exists {
		node = &Node{
			ID:         uuid.New().String(),
			Label:      label,
			Type:       nodeType,
			Properties: make(map[string]interface{}),
		}
		g.nodes[key] = node
	}
	if len(node.Sources) == 0 || node.Sources[len(node.Sources)-1] != docID {
		node.Sources = append(node.Sources, docID)
	}
	return node
}

func (g *Generator) upsertEdge(labelA, labelB, edgeType, docID string) (*Edge, bool) {
	a, aok := g.nodes[NodeKey(labelA)]
	b, bok := g.nodes[NodeKey(labelB)]
	if !aok || !bok || a == b {
		return nil, false
	}
	if b.Key() < a.Key() {
		a, b = b, a
	}

	edgeID := fmt.Sprintf("%s-%s-%s", a.ID, edgeType, b.ID)
	edge, exists := g.edges[edgeID]
	if !exists {
		edge = &Edge{
			ID:         edgeID,
			Source:     a.ID,
			Target:     b.ID,
			Type:       edgeType,
			Properties: make(map[string]interface{}),
		}
		g.edges[edgeID] = edge
		g.edgeDocs[edgeID] = mapset.NewThreadUnsafeSet[string]()
	}
	g.edgeDocs[edgeID].Add(docID)
	edge.Properties["documents"] = g.edgeDocs[edgeID].Cardinality()
	return edge, true
}

// Generate returns a snapshot of the graph. Nodes are ordered by label and
// edges by type and endpoint labels.
func (g *Generator) Generate() *KeywordGraph {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	nodes := make([]Node, 0, len(g.nodes))
	labels := make(map[string]string, len(g.nodes))
	nodeCounts := make(map[string]int)
	for _, node := range g.nodes {
		n := *node
		n.Sources = append([]string(nil), node.Sources...)
		n.Properties = copyProperties(node.Properties)
		nodes = append(nodes, n)
		labels[n.ID] = n.Key()
		nodeCounts[n.Type]++
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Key() < nodes[j].Key()
	})

	edges := make([]Edge, 0, len(g.edges))
	edgeCounts := make(map[string]int)
	for _, edge := range g.edges {
		e := *edge
		e.Properties = copyProperties(edge.Properties)
		edges = append(edges, e)
		edgeCounts[e.Type]++
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Type != edges[j].Type {
			return edges[i].Type < edges[j].Type
		}
		if labels[edges[i].Source] != labels[edges[j].Source] {
			return labels[edges[i].Source] < labels[edges[j].Source]
		}
		return labels[edges[i].Target] < labels[edges[j].Target]
	})

	docs := make([]string, 0, len(g.documentMap))
	for id := range g.documentMap {
		docs = append(docs, id)
	}
	sort.Strings(docs)

	for nodeType, n := range nodeCounts {
		metrics.GraphNodeCount.WithLabelValues(nodeType).Set(float64(n))
	}
	for edgeType, n := range edgeCounts {
		metrics.GraphEdgeCount.WithLabelValues(edgeType).Set(float64(n))
	}

	return &KeywordGraph{
		Nodes:       nodes,
		Edges:       edges,
		Documents:   docs,
		GeneratedAt: time.Now(),
	}
}

func copyProperties(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

func maxFloat(current interface{}, v float64) interface{} {
	if f, ok := current.(float64); ok && f > v {
		return f
	}
	return v
}

func addInt(current interface{}, v int) interface{} {
	if n, ok := current.(int); ok {
		return n + v
	}
	return v
}
