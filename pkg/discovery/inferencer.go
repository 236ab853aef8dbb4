package discovery

import (
	"fmt"

	"github.com/suren2787/contextmap/pkg/model"
)

// openHostProtocols are the machine-verifiable contract types that mark an
// upstream as an Open Host Service.
var openHostProtocols = map[string]bool{
	"openapi":  true,
	"grpc":     true,
	"graphql":  true,
	"asyncapi": true,
}

// InferRelationships derives the directed dependency edges between contexts.
// For every context (as downstream) and every API it consumes, the providing
// context is looked up across all contexts; consumed APIs with no provider
// anywhere are external dependencies and produce no edge. Self-loops are
// suppressed.
//
// Edge ids are assigned rel-1, rel-2, ... in emission order, which follows
// the contexts' input order (outer) and each context's consumed-API order
// (inner), so repeated calls over the same snapshot produce identical output.
func InferRelationships(contexts []model.BoundedContext) []model.ContextRelationship {
	relationships := make([]model.ContextRelationship, 0)
	counter := 0

	for _, downstream := range contexts {
		for _, consumed := range downstream.ConsumedAPIs {
			upstream := findProvider(contexts, consumed.Name)
			if upstream == nil || upstream.ID == downstream.ID {
				continue
			}

			counter++
			relationships = append(relationships, model.ContextRelationship{
				ID:         fmt.Sprintf("rel-%d", counter),
				Upstream:   upstream.ID,
				Downstream: downstream.ID,
				Type:       classify(upstream, &downstream, consumed),
				ViaAPIs:    []string{consumed.Ref},
				Strength:   model.StrengthMedium,
			})
		}
	}

	return relationships
}

// findProvider returns the first context whose provided set contains the
// bare API id, or nil when the API is provided by no known context.
func findProvider(contexts []model.BoundedContext, apiName string) *model.BoundedContext {
	for i := range contexts {
		if contexts[i].ProvidesAPI(apiName) {
			return &contexts[i]
		}
	}
	return nil
}

// classify labels one edge with a DDD context-mapping pattern. The chain is
// strictly ordered: a shared domain beats an open protocol, and
// customer/supplier is the fallback.
func classify(upstream, downstream *model.BoundedContext, api model.ApiSummary) model.RelationshipType {
	if upstream.Domain != "" && upstream.Domain == downstream.Domain {
		return model.RelationshipSharedKernel
	}
	if openHostProtocols[api.Type] {
		return model.RelationshipOpenHostService
	}
	return model.RelationshipCustomerSupplier
}
