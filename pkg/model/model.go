package model

import "time"

// RelationshipType classifies an inferred context relationship using
// Domain-Driven-Design context-mapping patterns
type RelationshipType string

const (
	// RelationshipSharedKernel: both contexts knowingly share a common domain model
	RelationshipSharedKernel RelationshipType = "SHARED_KERNEL"
	// RelationshipOpenHostService: the upstream exposes a schema-described protocol
	RelationshipOpenHostService RelationshipType = "OPEN_HOST_SERVICE"
	// RelationshipCustomerSupplier: plain consumer/provider dependency (default)
	RelationshipCustomerSupplier RelationshipType = "CUSTOMER_SUPPLIER"
)

// StrengthMedium is the fixed strength assigned to every inferred relationship
// until richer signals (traffic, contract tests) are available.
const StrengthMedium = "MEDIUM"

// DefaultContextID collects components that carry neither a system nor a
// domain grouping key.
const DefaultContextID = "default"

// ComponentRecord represents one service/application entity from the catalog
type ComponentRecord struct {
	ID             string   `json:"id" validate:"required"`    // Unique within one catalog snapshot
	Name           string   `json:"displayName"`               // Human-readable name
	Type           string   `json:"type,omitempty"`            // e.g. "service", "library", "website"
	System         string   `json:"groupingKey,omitempty"`     // Bounded-context key this component belongs to
	Domain         string   `json:"domain,omitempty"`          // Optional higher-level grouping
	Owner          string   `json:"owningTeam,omitempty"`      // Owning team
	ProvidesAPIs   []string `json:"providedApiIds,omitempty"`  // API ids, possibly path-qualified
	ConsumesAPIs   []string `json:"consumedApiIds,omitempty"`  // API ids, possibly path-qualified
	ProjectSlug    string   `json:"projectSlug,omitempty"`     // e.g. "acme/payment-core"
	SourceLocation string   `json:"sourceReference,omitempty"` // e.g. "url:https://github.com/acme/payment-core"
}

// ApiRecord represents one published interface entity from the catalog
type ApiRecord struct {
	ID     string `json:"id" validate:"required"` // Unique within one catalog snapshot
	Type   string `json:"protocolKind"`           // e.g. "openapi", "grpc", "messaging"
	System string `json:"groupingKey,omitempty"`  // Context that nominally owns this API
	Owner  string `json:"owningTeam,omitempty"`
}

// ComponentSummary is the per-component entry carried inside a BoundedContext
type ComponentSummary struct {
	Name      string `json:"name"`
	Ref       string `json:"ref"`                 // Qualified entity reference (e.g. "component:default/payment-service")
	Type      string `json:"type,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"` // Resolved source-code URL
}

// ApiSummary is the deduplicated per-API entry carried inside a BoundedContext
type ApiSummary struct {
	Name string `json:"name"`           // Bare API id
	Type string `json:"type,omitempty"` // Protocol kind
	Ref  string `json:"ref,omitempty"`  // Original (possibly qualified) reference as written in the catalog
}

// BoundedContext is a cohesive cluster of components treated as one unit of
// ownership and API surface. Constructed fresh on every discovery call and
// never mutated afterwards.
type BoundedContext struct {
	ID           string             `json:"id"`                   // The grouping key
	Name         string             `json:"displayName"`          // Derived from ID by word-splitting
	Domain       string             `json:"domain,omitempty"`     // From first component carrying a domain
	Owner        string             `json:"owningTeam,omitempty"` // From first component carrying an owner
	Components   []ComponentSummary `json:"components"`
	ProvidedAPIs []ApiSummary       `json:"providedApis"`
	ConsumedAPIs []ApiSummary       `json:"consumedApis"`
	SourceURL    string             `json:"sourceUrl,omitempty"` // First resolvable source reference
}

// ProvidesAPI reports whether the context's provided set contains the bare API id
func (c *BoundedContext) ProvidesAPI(name string) bool {
	for _, api := range c.ProvidedAPIs {
		if api.Name == name {
			return true
		}
	}
	return false
}

// ContextRelationship is one inferred directed edge between two contexts.
// Upstream is the API provider, downstream the consumer.
type ContextRelationship struct {
	ID         string           `json:"id"`                  // "rel-1", "rel-2", ... stable within one build
	Upstream   string           `json:"upstreamContextId"`   // Provider context id
	Downstream string           `json:"downstreamContextId"` // Consumer context id
	Type       RelationshipType `json:"relationshipType"`
	ViaAPIs    []string         `json:"viaApiReferences"` // Qualified API reference(s) justifying the edge
	Strength   string           `json:"strength"`
}

// MapMetadata carries generation info for one assembled context map
type MapMetadata struct {
	GeneratedAt       time.Time `json:"generatedAt"`
	Version           string    `json:"version"`
	ContextCount      int       `json:"contextCount"`
	RelationshipCount int       `json:"relationshipCount"`
}

// ContextMap is the assembled snapshot of all contexts and inferred
// relationships. Built on demand, immutable once returned.
type ContextMap struct {
	Contexts      []BoundedContext      `json:"contexts"`
	Relationships []ContextRelationship `json:"relationships"`
	Metadata      MapMetadata           `json:"metadata"`
}

// FindContext returns the context with the given id, or nil if absent
func (m *ContextMap) FindContext(id string) *BoundedContext {
	for i := range m.Contexts {
		if m.Contexts[i].ID == id {
			return &m.Contexts[i]
		}
	}
	return nil
}

// UpstreamOf returns all relationships where the given context is the
// downstream endpoint, i.e. the edges supplying it.
func (m *ContextMap) UpstreamOf(id string) []ContextRelationship {
	result := make([]ContextRelationship, 0)
	for _, rel := range m.Relationships {
		if rel.Downstream == id {
			result = append(result, rel)
		}
	}
	return result
}

// DownstreamOf returns all relationships where the given context is the
// upstream endpoint, i.e. the edges it supplies to others.
func (m *ContextMap) DownstreamOf(id string) []ContextRelationship {
	result := make([]ContextRelationship, 0)
	for _, rel := range m.Relationships {
		if rel.Upstream == id {
			result = append(result, rel)
		}
	}
	return result
}

// ContextAnalysis is the point-query result for a single context
type ContextAnalysis struct {
	Context    BoundedContext        `json:"context"`
	Upstream   []ContextRelationship `json:"upstream"`
	Downstream []ContextRelationship `json:"downstream"`
}

// RelationshipsByType groups the map's relationships by classification
func (m *ContextMap) RelationshipsByType() map[RelationshipType][]ContextRelationship {
	result := make(map[RelationshipType][]ContextRelationship)
	for _, rel := range m.Relationships {
		result[rel.Type] = append(result[rel.Type], rel)
	}
	return result
}
