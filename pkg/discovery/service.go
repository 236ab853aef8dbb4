// Package discovery implements the context discovery and relationship
// inference engine: it partitions catalog components into bounded contexts,
// infers typed relationships between them, and assembles versioned context
// map snapshots.
package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/suren2787/contextmap/pkg/catalog"
	"github.com/suren2787/contextmap/pkg/logging"
	"github.com/suren2787/contextmap/pkg/model"
)

// SchemaVersion tags every assembled context map
const SchemaVersion = "1.0.0"

// ErrContextNotFound is returned by AnalyzeContext for an unknown context id
var ErrContextNotFound = errors.New("context not found")

// Service assembles context maps from a catalog source. It is purely
// functional per call: every build re-reads the source snapshot and
// recomputes from scratch, so concurrent callers never observe partial
// state. Construct one at startup and pass it to whatever consumes it.
type Service struct {
	source catalog.Source
}

// NewService creates a discovery service over the given catalog source
func NewService(source catalog.Source) *Service {
	return &Service{source: source}
}

// DiscoverContexts groups the current catalog snapshot into bounded contexts
func (s *Service) DiscoverContexts(ctx context.Context) ([]model.BoundedContext, error) {
	components, err := s.source.Components(ctx)
	if err != nil {
		return nil, err
	}
	apis, err := s.source.Apis(ctx)
	if err != nil {
		return nil, err
	}

	contexts := GroupIntoContexts(components, apis)
	logging.Debug("grouped components into contexts",
		"source", s.source.Name(),
		"components", len(components),
		"contexts", len(contexts),
	)
	return contexts, nil
}

// BuildContextMap discovers contexts, infers their relationships and wraps
// both in a fresh snapshot with generation metadata. Nothing is cached; two
// calls in quick succession legitimately differ in generation timestamp.
func (s *Service) BuildContextMap(ctx context.Context) (*model.ContextMap, error) {
	contexts, err := s.DiscoverContexts(ctx)
	if err != nil {
		return nil, err
	}

	relationships := InferRelationships(contexts)
	logging.Info("context map assembled",
		"contexts", len(contexts),
		"relationships", len(relationships),
	)

	return &model.ContextMap{
		Contexts:      contexts,
		Relationships: relationships,
		Metadata: model.MapMetadata{
			GeneratedAt:       time.Now().UTC(),
			Version:           SchemaVersion,
			ContextCount:      len(contexts),
			RelationshipCount: len(relationships),
		},
	}, nil
}

// AnalyzeContext builds the full map and answers the point query for one
// context: the context itself, the relationships supplying it (upstream) and
// the relationships it supplies to others (downstream). Returns
// ErrContextNotFound for an unknown id.
func (s *Service) AnalyzeContext(ctx context.Context, contextID string) (*model.ContextAnalysis, error) {
	contextMap, err := s.BuildContextMap(ctx)
	if err != nil {
		return nil, err
	}

	found := contextMap.FindContext(contextID)
	if found == nil {
		return nil, ErrContextNotFound
	}

	return &model.ContextAnalysis{
		Context:    *found,
		Upstream:   contextMap.UpstreamOf(contextID),
		Downstream: contextMap.DownstreamOf(contextID),
	}, nil
}
