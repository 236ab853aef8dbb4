// Package cycles detects circular dependencies between bounded contexts.
// Cycles are reported as advisories; they never fail an analysis.
package cycles

import (
	"github.com/suren2787/contextmap/pkg/graph"
)

// ContextCycle represents a circular dependency between bounded contexts
type ContextCycle struct {
	Contexts []string `json:"contexts"` // Context ids participating in the cycle
}

// FindContextCycles finds all circular dependencies in the context graph
func FindContextCycles(cg *graph.ContextGraph) []ContextCycle {
	tarjan := NewTarjanSCC(cg.Graph())
	sccs := tarjan.FindSCCs()

	result := make([]ContextCycle, 0)
	for _, scc := range sccs {
		contexts := make([]string, 0, len(scc))
		for _, nodeID := range scc {
			if id := cg.ContextID(nodeID); id != "" {
				contexts = append(contexts, id)
			}
		}
		if len(contexts) > 1 {
			result = append(result, ContextCycle{Contexts: contexts})
		}
	}

	return result
}
