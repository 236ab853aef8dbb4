// Package diff compares two context map snapshots and reports what changed.
// The watch loop uses it to skip publishing rebuilds that produced an
// identical map and to log a change summary when they did not.
package diff

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/suren2787/contextmap/pkg/model"
)

// MapDiff is the structural difference between two context maps. Generation
// metadata is ignored; only contexts and relationships count.
type MapDiff struct {
	AddedContexts        []model.BoundedContext      `json:"addedContexts"`
	RemovedContexts      []string                    `json:"removedContexts"` // Context ids
	ModifiedContexts     []model.BoundedContext      `json:"modifiedContexts"`
	AddedRelationships   []model.ContextRelationship `json:"addedRelationships"`
	RemovedRelationships []string                    `json:"removedRelationships"` // upstream|downstream|type keys
	FullMap              bool                        `json:"fullMap"`              // True when there was no previous snapshot
}

// Empty reports whether the diff carries no changes
func (d *MapDiff) Empty() bool {
	return !d.FullMap &&
		len(d.AddedContexts) == 0 &&
		len(d.RemovedContexts) == 0 &&
		len(d.ModifiedContexts) == 0 &&
		len(d.AddedRelationships) == 0 &&
		len(d.RemovedRelationships) == 0
}

// MapSnapshot is an indexed view of one context map kept for diffing
type MapSnapshot struct {
	Hash          string
	Contexts      map[string]model.BoundedContext      // context id -> context
	Relationships map[string]model.ContextRelationship // relationship key -> edge
}

// Snapshot indexes a context map for diffing. Relationship ids are counter
// values that restart every build, so edges are keyed by their endpoints and
// type instead.
func Snapshot(contextMap *model.ContextMap) *MapSnapshot {
	snapshot := &MapSnapshot{
		Contexts:      make(map[string]model.BoundedContext, len(contextMap.Contexts)),
		Relationships: make(map[string]model.ContextRelationship, len(contextMap.Relationships)),
	}

	for _, c := range contextMap.Contexts {
		snapshot.Contexts[c.ID] = c
	}
	for _, rel := range contextMap.Relationships {
		snapshot.Relationships[relationshipKey(rel)] = rel
	}

	data, _ := json.Marshal(struct {
		Contexts      []model.BoundedContext
		Relationships []model.ContextRelationship
	}{contextMap.Contexts, contextMap.Relationships})
	snapshot.Hash = fmt.Sprintf("%x", sha256.Sum256(data))

	return snapshot
}

// Compute diffs a new context map against a previous snapshot. A nil previous
// snapshot yields a full-map diff.
func Compute(previous *MapSnapshot, contextMap *model.ContextMap) *MapDiff {
	if previous == nil {
		return &MapDiff{
			AddedContexts:      contextMap.Contexts,
			AddedRelationships: contextMap.Relationships,
			FullMap:            true,
		}
	}

	current := Snapshot(contextMap)
	result := &MapDiff{
		AddedContexts:        make([]model.BoundedContext, 0),
		RemovedContexts:      make([]string, 0),
		ModifiedContexts:     make([]model.BoundedContext, 0),
		AddedRelationships:   make([]model.ContextRelationship, 0),
		RemovedRelationships: make([]string, 0),
	}

	// Iterate the slices, not the maps, so output order is deterministic
	for _, c := range contextMap.Contexts {
		old, exists := previous.Contexts[c.ID]
		switch {
		case !exists:
			result.AddedContexts = append(result.AddedContexts, c)
		case !contextsEqual(old, c):
			result.ModifiedContexts = append(result.ModifiedContexts, c)
		}
	}
	for id := range previous.Contexts {
		if _, exists := current.Contexts[id]; !exists {
			result.RemovedContexts = append(result.RemovedContexts, id)
		}
	}

	for _, rel := range contextMap.Relationships {
		if _, exists := previous.Relationships[relationshipKey(rel)]; !exists {
			result.AddedRelationships = append(result.AddedRelationships, rel)
		}
	}
	for key := range previous.Relationships {
		if _, exists := current.Relationships[key]; !exists {
			result.RemovedRelationships = append(result.RemovedRelationships, key)
		}
	}

	return result
}

// relationshipKey identifies an edge by its endpoints and classification
func relationshipKey(rel model.ContextRelationship) string {
	return fmt.Sprintf("%s|%s|%s", rel.Upstream, rel.Downstream, rel.Type)
}

// contextsEqual compares the fields that describe a context's shape: identity,
// attribution and the size of its component and API sets.
func contextsEqual(a, b model.BoundedContext) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Domain == b.Domain &&
		a.Owner == b.Owner &&
		len(a.Components) == len(b.Components) &&
		len(a.ProvidedAPIs) == len(b.ProvidedAPIs) &&
		len(a.ConsumedAPIs) == len(b.ConsumedAPIs)
}
