// Package catalog supplies component and API records to the discovery engine.
// A Source produces one immutable snapshot of the catalog per call; the engine
// never caches across calls.
package catalog

import (
	"context"

	"github.com/suren2787/contextmap/pkg/model"
)

// Source represents a provider of catalog entity records.
// Implementations encapsulate where the records come from (local YAML files,
// a remote catalog API, a built-in fixture) and return already-validated,
// well-typed records.
type Source interface {
	// Name returns the unique name of the source (e.g., "File", "Rest").
	Name() string

	// Components returns all component records in the current snapshot.
	Components(ctx context.Context) ([]model.ComponentRecord, error)

	// Apis returns all API records in the current snapshot.
	Apis(ctx context.Context) ([]model.ApiRecord, error)
}
