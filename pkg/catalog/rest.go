package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suren2787/contextmap/pkg/model"
)

// restEntity is the wire shape of one entity from the catalog REST API
type restEntity struct {
	Kind     string `json:"kind"`
	Metadata struct {
		Name        string            `json:"name"`
		Title       string            `json:"title"`
		Annotations map[string]string `json:"annotations"`
	} `json:"metadata"`
	Spec struct {
		Type         string   `json:"type"`
		System       string   `json:"system"`
		Domain       string   `json:"domain"`
		Owner        string   `json:"owner"`
		ProvidesApis []string `json:"providesApis"`
		ConsumesApis []string `json:"consumesApis"`
	} `json:"spec"`
}

// RestSource fetches catalog entities from a running catalog service
// (GET <baseURL>/api/catalog/entities?filter=kind=<kind>). Each call performs
// a fresh fetch; any transport or decode failure propagates to the caller.
type RestSource struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRestSource creates a catalog source backed by a remote catalog API.
// token may be empty for unauthenticated instances.
func NewRestSource(baseURL, token string) *RestSource {
	return &RestSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *RestSource) Name() string {
	return "Rest"
}

func (s *RestSource) Components(ctx context.Context) ([]model.ComponentRecord, error) {
	entities, err := s.fetchEntities(ctx, "component")
	if err != nil {
		return nil, err
	}

	components := make([]model.ComponentRecord, 0, len(entities))
	for _, e := range entities {
		name := e.Metadata.Title
		if name == "" {
			name = e.Metadata.Name
		}
		components = append(components, model.ComponentRecord{
			ID:             e.Metadata.Name,
			Name:           name,
			Type:           e.Spec.Type,
			System:         e.Spec.System,
			Domain:         e.Spec.Domain,
			Owner:          e.Spec.Owner,
			ProvidesAPIs:   e.Spec.ProvidesApis,
			ConsumesAPIs:   e.Spec.ConsumesApis,
			ProjectSlug:    e.Metadata.Annotations[annotationProjectSlug],
			SourceLocation: e.Metadata.Annotations[annotationSourceLocation],
		})
	}

	if err := ValidateComponents(components); err != nil {
		return nil, err
	}
	return components, nil
}

func (s *RestSource) Apis(ctx context.Context) ([]model.ApiRecord, error) {
	entities, err := s.fetchEntities(ctx, "api")
	if err != nil {
		return nil, err
	}

	apis := make([]model.ApiRecord, 0, len(entities))
	for _, e := range entities {
		apis = append(apis, model.ApiRecord{
			ID:     e.Metadata.Name,
			Type:   e.Spec.Type,
			System: e.Spec.System,
			Owner:  e.Spec.Owner,
		})
	}

	if err := ValidateApis(apis); err != nil {
		return nil, err
	}
	return apis, nil
}

func (s *RestSource) fetchEntities(ctx context.Context, kind string) ([]restEntity, error) {
	endpoint := fmt.Sprintf("%s/api/catalog/entities?filter=%s",
		s.baseURL, url.QueryEscape("kind="+kind))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s entities: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for kind %s", resp.StatusCode, kind)
	}

	var entities []restEntity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("decoding %s entities: %w", kind, err)
	}

	return entities, nil
}
