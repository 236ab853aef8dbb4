package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/suren2787/contextmap/pkg/catalog"
	"github.com/suren2787/contextmap/pkg/cycles"
	"github.com/suren2787/contextmap/pkg/discovery"
	"github.com/suren2787/contextmap/pkg/model"
)

func newTestServer() *httptest.Server {
	service := discovery.NewService(catalog.NewDemoSource())
	return httptest.NewServer(NewServer(service).Router())
}

func getJSON(t *testing.T, server *httptest.Server, path string, v interface{}) {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("GET %s: Content-Type = %q", path, ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s: decoding body: %v", path, err)
	}
}

func TestContextsEndpoint(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var contexts []model.BoundedContext
	getJSON(t, server, "/api/contexts", &contexts)

	if len(contexts) != 5 {
		t.Fatalf("expected 5 contexts, got %d", len(contexts))
	}
	if contexts[0].ID != "payment-core" {
		t.Errorf("contexts[0].ID = %q", contexts[0].ID)
	}
}

func TestContextEndpoint(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var context model.BoundedContext
	getJSON(t, server, "/api/contexts/loan-origination", &context)

	if context.ID != "loan-origination" {
		t.Errorf("ID = %q", context.ID)
	}
	if context.Name != "Loan Origination" {
		t.Errorf("Name = %q", context.Name)
	}
}

func TestContextEndpointNotFound(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/contexts/no-such-context")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestContextAnalysisEndpoint(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var analysis model.ContextAnalysis
	getJSON(t, server, "/api/contexts/account-management/analysis", &analysis)

	if analysis.Context.ID != "account-management" {
		t.Errorf("Context.ID = %q", analysis.Context.ID)
	}
	if len(analysis.Upstream) != 2 {
		t.Errorf("upstream edges = %d, want 2", len(analysis.Upstream))
	}
	if len(analysis.Downstream) != 3 {
		t.Errorf("downstream edges = %d, want 3", len(analysis.Downstream))
	}
}

func TestContextMapEndpoint(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var contextMap model.ContextMap
	getJSON(t, server, "/api/context-map", &contextMap)

	if contextMap.Metadata.Version != discovery.SchemaVersion {
		t.Errorf("metadata version = %q", contextMap.Metadata.Version)
	}
	if contextMap.Metadata.ContextCount != 5 || contextMap.Metadata.RelationshipCount != 8 {
		t.Errorf("counts = %d/%d, want 5/8",
			contextMap.Metadata.ContextCount, contextMap.Metadata.RelationshipCount)
	}
	if contextMap.Relationships[0].Upstream != "account-management" {
		t.Errorf("relationships[0].Upstream = %q", contextMap.Relationships[0].Upstream)
	}
}

func TestContextMapFieldNames(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var raw map[string]json.RawMessage
	getJSON(t, server, "/api/context-map", &raw)

	for _, field := range []string{"contexts", "relationships", "metadata"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("response missing %q", field)
		}
	}

	var rels []map[string]json.RawMessage
	if err := json.Unmarshal(raw["relationships"], &rels); err != nil {
		t.Fatal(err)
	}
	if len(rels) == 0 {
		t.Fatal("no relationships in response")
	}
	for _, field := range []string{"id", "upstreamContextId", "downstreamContextId", "relationshipType", "viaApiReferences", "strength"} {
		if _, ok := rels[0][field]; !ok {
			t.Errorf("relationship missing %q", field)
		}
	}
}

func TestContextMapGraphEndpoint(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var graphData GraphData
	getJSON(t, server, "/api/context-map/graph", &graphData)

	if len(graphData.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(graphData.Nodes))
	}
	if len(graphData.Edges) != 8 {
		t.Errorf("edges = %d, want 8", len(graphData.Edges))
	}
	edge := graphData.Edges[0]
	if edge.Source != "account-management" || edge.Target != "payment-core" {
		t.Errorf("edges[0] = %s -> %s", edge.Source, edge.Target)
	}
	if edge.Via != "account-api" {
		t.Errorf("edges[0].Via = %q", edge.Via)
	}
}

func TestContextMapCyclesEndpoint(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var found []cycles.ContextCycle
	getJSON(t, server, "/api/context-map/cycles", &found)

	// The banking catalog's context graph is acyclic
	if len(found) != 0 {
		t.Errorf("cycles = %v, want none", found)
	}
}
