package discovery

import (
	"github.com/suren2787/contextmap/pkg/model"
	"github.com/suren2787/contextmap/pkg/refs"
)

// GroupIntoContexts partitions component records into bounded contexts keyed
// by their grouping attribute. Key precedence per component: explicit system,
// then domain, then the default context. Contexts are returned in first-seen
// order of their grouping key.
//
// API references that match no API record are dropped from the context's API
// sets; they are data entry errors or internal-only interfaces, not failures.
func GroupIntoContexts(components []model.ComponentRecord, apis []model.ApiRecord) []model.BoundedContext {
	apiByID := make(map[string]model.ApiRecord, len(apis))
	for _, api := range apis {
		apiByID[api.ID] = api
	}

	byKey := make(map[string]*contextBuilder)
	order := make([]string, 0)

	for _, component := range components {
		key := groupingKey(component)

		builder, exists := byKey[key]
		if !exists {
			builder = newContextBuilder(key)
			byKey[key] = builder
			order = append(order, key)
		}

		builder.addComponent(component, apiByID)
	}

	contexts := make([]model.BoundedContext, 0, len(order))
	for _, key := range order {
		contexts = append(contexts, byKey[key].build())
	}
	return contexts
}

// groupingKey resolves the context key for one component:
// system, then domain, then the default context.
func groupingKey(component model.ComponentRecord) string {
	if component.System != "" {
		return component.System
	}
	if component.Domain != "" {
		return component.Domain
	}
	return model.DefaultContextID
}

// contextBuilder accumulates one bounded context while components are scanned
type contextBuilder struct {
	context  model.BoundedContext
	provided map[string]bool // bare API ids already in the provided set
	consumed map[string]bool // bare API ids already in the consumed set
}

func newContextBuilder(key string) *contextBuilder {
	return &contextBuilder{
		context: model.BoundedContext{
			ID:           key,
			Name:         refs.DisplayName(key),
			Components:   make([]model.ComponentSummary, 0),
			ProvidedAPIs: make([]model.ApiSummary, 0),
			ConsumedAPIs: make([]model.ApiSummary, 0),
		},
		provided: make(map[string]bool),
		consumed: make(map[string]bool),
	}
}

func (b *contextBuilder) addComponent(component model.ComponentRecord, apiByID map[string]model.ApiRecord) {
	// First component to supply a value wins; later components never overwrite
	if b.context.Domain == "" {
		b.context.Domain = component.Domain
	}
	if b.context.Owner == "" {
		b.context.Owner = component.Owner
	}

	sourceURL := refs.SourceURL(component.ProjectSlug, component.SourceLocation)
	if b.context.SourceURL == "" {
		b.context.SourceURL = sourceURL
	}

	name := component.Name
	if name == "" {
		name = refs.DisplayName(component.ID)
	}
	b.context.Components = append(b.context.Components, model.ComponentSummary{
		Name:      name,
		Ref:       refs.ComponentRef(component.ID),
		Type:      component.Type,
		SourceURL: sourceURL,
	})

	for _, ref := range component.ProvidesAPIs {
		b.addAPI(&b.context.ProvidedAPIs, b.provided, ref, apiByID)
	}
	for _, ref := range component.ConsumesAPIs {
		b.addAPI(&b.context.ConsumedAPIs, b.consumed, ref, apiByID)
	}
}

// addAPI resolves one API reference against the record set and appends it to
// the target set unless the bare id is already present or unknown.
func (b *contextBuilder) addAPI(set *[]model.ApiSummary, seen map[string]bool, ref string, apiByID map[string]model.ApiRecord) {
	bare := refs.BareID(ref)
	api, ok := apiByID[bare]
	if !ok || seen[bare] {
		return
	}
	seen[bare] = true
	*set = append(*set, model.ApiSummary{
		Name: api.ID,
		Type: api.Type,
		Ref:  ref,
	})
}

func (b *contextBuilder) build() model.BoundedContext {
	return b.context
}
