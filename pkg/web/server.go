package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/suren2787/contextmap/pkg/cycles"
	"github.com/suren2787/contextmap/pkg/discovery"
	"github.com/suren2787/contextmap/pkg/graph"
	"github.com/suren2787/contextmap/pkg/logging"
	"github.com/suren2787/contextmap/pkg/model"
	"github.com/suren2787/contextmap/pkg/pubsub"
)

//go:embed static/*
var staticFiles embed.FS

// GraphNode represents a context node in the visualization graph
type GraphNode struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Domain string `json:"domain,omitempty"`
	Owner  string `json:"owner,omitempty"`
}

// GraphEdge represents a relationship edge in the visualization graph
type GraphEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"` // Upstream (provider) context id
	Target string `json:"target"` // Downstream (consumer) context id
	Type   string `json:"type"`   // Relationship classification
	Via    string `json:"via"`    // API reference justifying the edge
}

// GraphData holds the context map in node/edge form for visualization
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Server serves the context map API and SSE event streams
type Server struct {
	router    *mux.Router
	service   *discovery.Service
	publisher pubsub.Publisher
}

// NewServer creates a web server over a discovery service
func NewServer(service *discovery.Service) *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// New subscribers get the current state, not the full history
	ssePublisher.ConfigureTopic(pubsub.TopicCatalogStatus, pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})
	ssePublisher.ConfigureTopic(pubsub.TopicContextMap, pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		service:   service,
		publisher: ssePublisher,
	}
	s.setupRoutes()
	return s
}

// PublishCatalogStatus publishes a catalog sync status event
func (s *Server) PublishCatalogStatus(state, message string, step, total int) error {
	return s.publisher.Publish(pubsub.TopicCatalogStatus, state, pubsub.CatalogStatus{
		State:   state,
		Message: message,
		Step:    step,
		Total:   total,
	})
}

// PublishContextMap publishes a context map rebuild event
func (s *Server) PublishContextMap(eventType string, contextMap *model.ContextMap) error {
	data := pubsub.ContextMapData{Complete: true}
	if contextMap != nil {
		data.ContextCount = contextMap.Metadata.ContextCount
		data.RelationshipCount = contextMap.Metadata.RelationshipCount
	}
	return s.publisher.Publish(pubsub.TopicContextMap, eventType, data)
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/catalog_status", s.handleSubscribe(pubsub.TopicCatalogStatus)).Methods("GET")
	s.router.HandleFunc("/api/subscribe/context_map", s.handleSubscribe(pubsub.TopicContextMap)).Methods("GET")

	// API routes - more specific routes must come first
	s.router.HandleFunc("/api/context-map/graph", s.handleContextMapGraph).Methods("GET")
	s.router.HandleFunc("/api/context-map/cycles", s.handleContextMapCycles).Methods("GET")
	s.router.HandleFunc("/api/context-map", s.handleContextMap).Methods("GET")
	s.router.HandleFunc("/api/contexts/{id}/analysis", s.handleContextAnalysis).Methods("GET")
	s.router.HandleFunc("/api/contexts/{id}", s.handleContext).Methods("GET")
	s.router.HandleFunc("/api/contexts", s.handleContexts).Methods("GET")

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("failed to load embedded static files", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// handleSubscribe returns an SSE streaming handler for one topic
func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		// Initial comment establishes the connection (Safari compatibility)
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.WarnContext(r.Context(), "error writing SSE event", "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

func (s *Server) handleContexts(w http.ResponseWriter, r *http.Request) {
	contexts, err := s.service.DiscoverContexts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, contexts)
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	contextID := mux.Vars(r)["id"]

	analysis, err := s.service.AnalyzeContext(r.Context(), contextID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, analysis.Context)
}

func (s *Server) handleContextAnalysis(w http.ResponseWriter, r *http.Request) {
	contextID := mux.Vars(r)["id"]

	analysis, err := s.service.AnalyzeContext(r.Context(), contextID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, analysis)
}

func (s *Server) handleContextMap(w http.ResponseWriter, r *http.Request) {
	contextMap, err := s.service.BuildContextMap(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, contextMap)
}

func (s *Server) handleContextMapGraph(w http.ResponseWriter, r *http.Request) {
	contextMap, err := s.service.BuildContextMap(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, buildGraphData(contextMap))
}

func (s *Server) handleContextMapCycles(w http.ResponseWriter, r *http.Request) {
	contextMap, err := s.service.BuildContextMap(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	found := cycles.FindContextCycles(graph.Build(contextMap))
	s.writeJSON(w, found)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, discovery.ErrContextNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	logging.ErrorContext(r.Context(), "request handling failed", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// buildGraphData converts a context map into node/edge form
func buildGraphData(contextMap *model.ContextMap) *GraphData {
	graphData := &GraphData{
		Nodes: make([]GraphNode, 0, len(contextMap.Contexts)),
		Edges: make([]GraphEdge, 0, len(contextMap.Relationships)),
	}

	for _, c := range contextMap.Contexts {
		graphData.Nodes = append(graphData.Nodes, GraphNode{
			ID:     c.ID,
			Label:  c.Name,
			Domain: c.Domain,
			Owner:  c.Owner,
		})
	}

	for _, rel := range contextMap.Relationships {
		via := ""
		if len(rel.ViaAPIs) > 0 {
			via = rel.ViaAPIs[0]
		}
		graphData.Edges = append(graphData.Edges, GraphEdge{
			ID:     rel.ID,
			Source: rel.Upstream,
			Target: rel.Downstream,
			Type:   string(rel.Type),
			Via:    via,
		})
	}

	return graphData
}

// Rebuild recomputes the context map from the current catalog snapshot.
// Used by the watch loop; the HTTP handlers always compute on demand.
func (s *Server) Rebuild(ctx context.Context) (*model.ContextMap, error) {
	return s.service.BuildContextMap(ctx)
}

// Router returns the HTTP handler with logging middleware applied
func (s *Server) Router() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.Router())
}
