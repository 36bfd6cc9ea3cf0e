package metadata

// ComponentDescriptor describes a platform component: its name and the
// resources it takes as inputs, uses internally and exposes as outputs.
//
// Every component is either a service (implements ServiceDescriptor) or an
// aggregate (implements AggregateDescriptor), never both. The component
// validator enforces this.
type ComponentDescriptor interface {
	// Name returns the unique component name.
	Name() string

	// Inputs returns the resources the component consumes.
	Inputs() []ResourceDescriptor

	// Internals returns the resources the component uses internally.
	Internals() []ResourceDescriptor

	// Outputs returns the resources the component exposes to others.
	Outputs() []ResourceDescriptor
}

// ServiceDescriptor describes a single deployable service.
type ServiceDescriptor interface {
	ComponentDescriptor

	// DockerImage returns the service's docker image name, without a
	// version tag.
	DockerImage() string

	// TestEnvironment returns environment variables to set when the
	// service runs in a test environment. Never nil for a well-formed
	// descriptor; may be empty.
	TestEnvironment() map[string]string
}

// AggregateDescriptor describes an aggregate: a logical component grouping
// one or more services behind a public interface. Aggregates declare no
// internals and own every resource they expose.
type AggregateDescriptor interface {
	ComponentDescriptor

	// AggregateDescriptor is a marker method with no behavior.
	AggregateDescriptor()
}

// ComponentResources returns the component's declared resources: inputs,
// then internals, then outputs. This is the only way a component's resource
// set is derived; components cannot customize it.
func ComponentResources(c ComponentDescriptor) []ResourceDescriptor {
	inputs, internals, outputs := c.Inputs(), c.Internals(), c.Outputs()
	out := make([]ResourceDescriptor, 0, len(inputs)+len(internals)+len(outputs))
	out = append(out, inputs...)
	out = append(out, internals...)
	return append(out, outputs...)
}

// componentCollection adapts a component to a ResourceCollection so its full
// resource graph can be collected.
type componentCollection struct {
	component ComponentDescriptor
}

func (c componentCollection) Resources() []ResourceDescriptor {
	return ComponentResources(c.component)
}

// CollectComponentResources collects the component's declared resources plus
// every transitively nested resource, in dependency order. See
// CollectResources.
func CollectComponentResources(c ComponentDescriptor) []ResourceDescriptor {
	return CollectResources(componentCollection{component: c})
}
