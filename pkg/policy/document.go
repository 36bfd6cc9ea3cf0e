package policy

import (
	"github.com/openplat/openplat/pkg/metadata"
)

// ComponentDocument is the JSON-friendly form of a component descriptor
// handed to Rego policies as input.component.
type ComponentDocument struct {
	// Name is the component name.
	Name string `json:"name"`

	// Kind is "service", "aggregate", or "unknown".
	Kind string `json:"kind"`

	// DockerImage is the service's docker image, empty for aggregates.
	DockerImage string `json:"docker_image,omitempty"`

	// Resources is the component's full resource set, declared and
	// transitively nested, in dependency order.
	Resources []ResourceDocument `json:"resources"`
}

// ResourceDocument is the JSON-friendly form of a resource descriptor.
type ResourceDocument struct {
	// ID is the resource id.
	ID string `json:"id"`

	// Type is the resource type tag.
	Type string `json:"type"`

	// Initialization is the initialization tag name.
	Initialization string `json:"initialization"`

	// Creatable reports whether the descriptor may drive creation.
	Creatable bool `json:"creatable"`
}

// NewComponentDocument converts a component descriptor to its document form.
func NewComponentDocument(c metadata.ComponentDescriptor) *ComponentDocument {
	doc := &ComponentDocument{
		Name: c.Name(),
		Kind: componentKind(c),
	}
	if service, ok := c.(metadata.ServiceDescriptor); ok {
		doc.DockerImage = service.DockerImage()
	}

	resources := metadata.CollectComponentResources(c)
	doc.Resources = make([]ResourceDocument, 0, len(resources))
	for _, r := range resources {
		doc.Resources = append(doc.Resources, ResourceDocument{
			ID:             r.ID(),
			Type:           r.Type(),
			Initialization: r.Initialization().String(),
			Creatable:      r.Initialization().Creatable(),
		})
	}
	return doc
}

func componentKind(c metadata.ComponentDescriptor) string {
	_, isAggregate := c.(metadata.AggregateDescriptor)
	_, isService := c.(metadata.ServiceDescriptor)
	switch {
	case isAggregate && !isService:
		return "aggregate"
	case isService && !isAggregate:
		return "service"
	default:
		return "unknown"
	}
}
