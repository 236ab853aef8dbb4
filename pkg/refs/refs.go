// Package refs normalizes catalog entity references and identifiers.
//
// A qualified entity reference has the grammar
//
//	[kind:][namespace/]name
//
// e.g. "api:default/payment-api", "default/payment-api" or "payment-api".
// The bare identifier is always the last path segment after the final '/'
// with any leading "kind:" qualifier removed.
package refs

import "strings"

// DefaultNamespace is assumed when a reference carries no namespace segment
const DefaultNamespace = "default"

// BareID extracts the bare identifier from a possibly qualified entity
// reference. Unparseable input degrades to returning the input unchanged.
func BareID(ref string) string {
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		ref = ref[idx+1:]
	}
	if idx := strings.Index(ref, ":"); idx >= 0 {
		ref = ref[idx+1:]
	}
	return ref
}

// EntityRef is a parsed qualified entity reference
type EntityRef struct {
	Kind      string
	Namespace string
	Name      string
}

// Parse splits a qualified reference into kind, namespace and name.
// Missing segments fall back to an empty kind and the default namespace.
func Parse(ref string) EntityRef {
	parsed := EntityRef{Namespace: DefaultNamespace}

	if idx := strings.Index(ref, ":"); idx >= 0 {
		parsed.Kind = ref[:idx]
		ref = ref[idx+1:]
	}
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		if ref[:idx] != "" {
			parsed.Namespace = ref[:idx]
		}
		ref = ref[idx+1:]
	}
	parsed.Name = ref
	return parsed
}

// String renders the reference back into its qualified form
func (r EntityRef) String() string {
	namespace := r.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if r.Kind == "" {
		return namespace + "/" + r.Name
	}
	return r.Kind + ":" + namespace + "/" + r.Name
}

// ComponentRef builds the qualified reference for a component id
func ComponentRef(id string) string {
	return EntityRef{Kind: "component", Namespace: DefaultNamespace, Name: id}.String()
}

// DisplayName derives a human-readable name from a machine identifier by
// splitting on '-' and '_' and capitalizing each word.
// "payment-core" becomes "Payment Core".
func DisplayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// SourceURL resolves a source-code URL from the two annotation shapes the
// catalog carries. Precedence: a project slug ("org/repo") rendered as a
// GitHub URL, then a source-location annotation mentioning github.com
// ("url:https://github.com/org/repo" - everything after the first colon).
// Returns "" when neither resolves.
func SourceURL(projectSlug, sourceLocation string) string {
	if projectSlug != "" {
		return "https://github.com/" + projectSlug
	}
	if strings.Contains(sourceLocation, "github.com") {
		if idx := strings.Index(sourceLocation, ":"); idx >= 0 {
			return sourceLocation[idx+1:]
		}
	}
	return ""
}
