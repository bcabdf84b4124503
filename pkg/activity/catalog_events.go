package activity

import "strings"

// Verbs emitted for catalog mutations.
const (
	VerbProductCreated = "product.created"
	VerbProductUpdated = "product.updated"
	VerbProductDeleted = "product.deleted"
	VerbVariantCreated = "variant.created"
	VerbVariantUpdated = "variant.updated"
	VerbVariantDeleted = "variant.deleted"
)

// Object types carried on catalog events.
const (
	ObjectProduct = "product"
	ObjectVariant = "variant"
)

// EntityEventInput describes the fields shared by catalog lifecycle events.
type EntityEventInput struct {
	ActorID  string
	ID       string
	Name     string
	Channel  string
	Metadata map[string]any
	// Affected lists ids of other entities touched by the same mutation, such
	// as the products a removed variant was detached from.
	Affected []string
}

// BuildProductEvent constructs an event for a product lifecycle verb.
func BuildProductEvent(verb string, input EntityEventInput) Event {
	return buildEntityEvent(verb, ObjectProduct, input)
}

// BuildVariantEvent constructs an event for a variant lifecycle verb.
func BuildVariantEvent(verb string, input EntityEventInput) Event {
	return buildEntityEvent(verb, ObjectVariant, input)
}

func buildEntityEvent(verb, objectType string, input EntityEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Name != "" {
		metadata = ensureMetadata(metadata)
		metadata["name"] = input.Name
	}
	if len(input.Affected) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["affected"] = append([]string{}, input.Affected...)
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		ObjectType: objectType,
		ObjectID:   strings.TrimSpace(input.ID),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
