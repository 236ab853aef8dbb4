// Package graph builds a directed dependency graph over bounded contexts
// from inferred relationships, for cycle analysis and visualization.
package graph

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/suren2787/contextmap/pkg/model"
)

// ContextGraph is the context-level dependency graph. Nodes are context ids;
// an edge runs from the downstream (consumer) to the upstream (provider)
// context, following the direction of the dependency.
type ContextGraph struct {
	graph  *simple.DirectedGraph
	ids    map[string]int64 // context id -> graph node id
	byID   map[int64]string // graph node id -> context id
	nextID int64
}

// NewContextGraph creates an empty context dependency graph
func NewContextGraph() *ContextGraph {
	return &ContextGraph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		byID:  make(map[int64]string),
	}
}

// AddContext adds a context node to the graph
func (cg *ContextGraph) AddContext(contextID string) {
	if _, exists := cg.ids[contextID]; exists {
		return
	}

	cg.ids[contextID] = cg.nextID
	cg.byID[cg.nextID] = contextID
	cg.graph.AddNode(simple.Node(cg.nextID))
	cg.nextID++
}

// AddDependency adds a dependency edge from the consumer to the provider
// context. Both nodes are created if missing; self-edges are ignored since
// the underlying graph rejects them.
func (cg *ContextGraph) AddDependency(downstream, upstream string) {
	if downstream == upstream {
		return
	}
	cg.AddContext(downstream)
	cg.AddContext(upstream)

	from := cg.ids[downstream]
	to := cg.ids[upstream]
	if !cg.graph.HasEdgeFromTo(from, to) {
		cg.graph.SetEdge(cg.graph.NewEdge(cg.graph.Node(from), cg.graph.Node(to)))
	}
}

// ContextID returns the context id for a graph node id
func (cg *ContextGraph) ContextID(id int64) string {
	return cg.byID[id]
}

// Graph returns the underlying directed graph
func (cg *ContextGraph) Graph() *simple.DirectedGraph {
	return cg.graph
}

// Contexts returns all context ids in the graph
func (cg *ContextGraph) Contexts() []string {
	contexts := make([]string, 0, len(cg.ids))
	for id := range cg.ids {
		contexts = append(contexts, id)
	}
	return contexts
}

// Dependencies returns the ids of contexts the given context depends on
func (cg *ContextGraph) Dependencies(contextID string) []string {
	id, exists := cg.ids[contextID]
	if !exists {
		return nil
	}

	var deps []string
	iter := cg.graph.From(id)
	for iter.Next() {
		deps = append(deps, cg.byID[iter.Node().ID()])
	}
	return deps
}

// Build constructs the context graph for an assembled context map. All
// contexts appear as nodes, including isolated ones.
func Build(contextMap *model.ContextMap) *ContextGraph {
	cg := NewContextGraph()

	for _, c := range contextMap.Contexts {
		cg.AddContext(c.ID)
	}
	for _, rel := range contextMap.Relationships {
		cg.AddDependency(rel.Downstream, rel.Upstream)
	}

	return cg
}
