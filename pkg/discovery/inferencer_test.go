package discovery

import (
	"testing"

	"github.com/suren2787/contextmap/pkg/model"
)

func makeContext(id, domain string, provides, consumes []model.ApiSummary) model.BoundedContext {
	return model.BoundedContext{
		ID:           id,
		Domain:       domain,
		ProvidedAPIs: provides,
		ConsumedAPIs: consumes,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		upstreamDomain string
		downstream     string
		apiType        string
		want           model.RelationshipType
	}{
		{"shared domain", "payments", "payments", "openapi", model.RelationshipSharedKernel},
		{"shared domain beats protocol", "payments", "payments", "grpc", model.RelationshipSharedKernel},
		{"open host openapi", "payments", "lending", "openapi", model.RelationshipOpenHostService},
		{"open host grpc", "payments", "lending", "grpc", model.RelationshipOpenHostService},
		{"open host graphql", "payments", "lending", "graphql", model.RelationshipOpenHostService},
		{"open host asyncapi", "payments", "lending", "asyncapi", model.RelationshipOpenHostService},
		{"fallback soap", "payments", "lending", "soap", model.RelationshipCustomerSupplier},
		{"fallback messaging", "payments", "lending", "messaging", model.RelationshipCustomerSupplier},
		{"empty domains never shared", "", "", "soap", model.RelationshipCustomerSupplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := makeContext("up", tt.upstreamDomain, nil, nil)
			down := makeContext("down", tt.downstream, nil, nil)
			got := classify(&up, &down, model.ApiSummary{Type: tt.apiType})
			if got != tt.want {
				t.Errorf("classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInferRelationshipsDirection(t *testing.T) {
	contexts := []model.BoundedContext{
		makeContext("consumer", "a", nil, []model.ApiSummary{{Name: "orders-api", Type: "openapi", Ref: "orders-api"}}),
		makeContext("provider", "b", []model.ApiSummary{{Name: "orders-api", Type: "openapi"}}, nil),
	}

	rels := InferRelationships(contexts)

	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(rels))
	}
	rel := rels[0]
	if rel.Upstream != "provider" || rel.Downstream != "consumer" {
		t.Errorf("edge %s -> %s, want provider -> consumer", rel.Upstream, rel.Downstream)
	}
	if rel.ID != "rel-1" {
		t.Errorf("ID = %q, want rel-1", rel.ID)
	}
	if rel.Strength != model.StrengthMedium {
		t.Errorf("Strength = %q, want %q", rel.Strength, model.StrengthMedium)
	}
	if len(rel.ViaAPIs) != 1 || rel.ViaAPIs[0] != "orders-api" {
		t.Errorf("ViaAPIs = %v, want the consumed reference", rel.ViaAPIs)
	}
}

func TestInferRelationshipsSelfLoopSuppressed(t *testing.T) {
	contexts := []model.BoundedContext{
		makeContext("solo", "a",
			[]model.ApiSummary{{Name: "internal-api", Type: "grpc"}},
			[]model.ApiSummary{{Name: "internal-api", Type: "grpc", Ref: "internal-api"}}),
	}

	rels := InferRelationships(contexts)

	if len(rels) != 0 {
		t.Errorf("self-consumption must not produce an edge, got %d", len(rels))
	}
}

func TestInferRelationshipsUnresolvedProviderSkipped(t *testing.T) {
	contexts := []model.BoundedContext{
		makeContext("consumer", "a", nil, []model.ApiSummary{
			{Name: "external-api", Type: "openapi", Ref: "external-api"},
			{Name: "orders-api", Type: "openapi", Ref: "orders-api"},
		}),
		makeContext("provider", "b", []model.ApiSummary{{Name: "orders-api", Type: "openapi"}}, nil),
	}

	rels := InferRelationships(contexts)

	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(rels))
	}
	// Skipped lookups must not consume ids
	if rels[0].ID != "rel-1" {
		t.Errorf("ID = %q, want rel-1", rels[0].ID)
	}
	if rels[0].Upstream != "provider" {
		t.Errorf("Upstream = %q, want provider", rels[0].Upstream)
	}
}

func TestInferRelationshipsFirstProviderWins(t *testing.T) {
	contexts := []model.BoundedContext{
		makeContext("first", "a", []model.ApiSummary{{Name: "dup-api", Type: "openapi"}}, nil),
		makeContext("second", "b", []model.ApiSummary{{Name: "dup-api", Type: "openapi"}}, nil),
		makeContext("consumer", "c", nil, []model.ApiSummary{{Name: "dup-api", Type: "openapi", Ref: "dup-api"}}),
	}

	rels := InferRelationships(contexts)

	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(rels))
	}
	if rels[0].Upstream != "first" {
		t.Errorf("Upstream = %q, want first declared provider", rels[0].Upstream)
	}
}

func TestInferRelationshipsDeterministicIDs(t *testing.T) {
	contexts := []model.BoundedContext{
		makeContext("c1", "a", nil, []model.ApiSummary{
			{Name: "x-api", Type: "openapi", Ref: "x-api"},
			{Name: "y-api", Type: "openapi", Ref: "y-api"},
		}),
		makeContext("c2", "b", []model.ApiSummary{{Name: "x-api", Type: "openapi"}}, nil),
		makeContext("c3", "c", []model.ApiSummary{{Name: "y-api", Type: "openapi"}}, nil),
	}

	first := InferRelationships(contexts)
	second := InferRelationships(contexts)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 relationships per call, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Upstream != second[i].Upstream {
			t.Errorf("call results diverge at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].ID != "rel-1" || first[1].ID != "rel-2" {
		t.Errorf("ids = [%s, %s], want [rel-1, rel-2]", first[0].ID, first[1].ID)
	}
}
