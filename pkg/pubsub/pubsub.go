package pubsub

import (
	"context"
	"encoding/json"
)

// Topics published by the analyzer
const (
	TopicCatalogStatus = "catalog_status" // Catalog sync / rebuild progress
	TopicContextMap    = "context_map"    // Context map rebuild results
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic
	Type    string          `json:"type"`    // Event type (e.g., "syncing", "ready", "rebuilt")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// CatalogStatus reports catalog sync state to UI clients
type CatalogStatus struct {
	State   string `json:"state"`   // syncing, ready, error
	Message string `json:"message"` // Human-readable status message
	Step    int    `json:"step"`    // Current step number (1-based)
	Total   int    `json:"total"`   // Total number of steps
}

// ContextMapData reports the outcome of a context map rebuild
type ContextMapData struct {
	ContextCount      int  `json:"contextCount"`
	RelationshipCount int  `json:"relationshipCount"`
	Complete          bool `json:"complete"`
}
