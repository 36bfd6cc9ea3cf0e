package config

import (
	"fmt"

	"github.com/openplat/openplat/pkg/metadata"
)

// Resource is a manifest-backed resource descriptor. Resources are created
// once per inline declaration and shared by reference, so a manifest can
// express cyclic dependency graphs.
type Resource struct {
	id             string
	resourceType   string
	initialization metadata.Initialization
	dependencies   []metadata.ResourceDescriptor
}

// ID returns the resource id.
func (r *Resource) ID() string { return r.id }

// Type returns the resource type tag.
func (r *Resource) Type() string { return r.resourceType }

// Initialization returns the resource's initialization tag.
func (r *Resource) Initialization() metadata.Initialization { return r.initialization }

// Resources returns the declared dependencies.
func (r *Resource) Resources() []metadata.ResourceDescriptor { return r.dependencies }

func (r *Resource) String() string {
	return fmt.Sprintf("%s[%s, %s]", r.resourceType, r.id, r.initialization)
}

// component carries the fields shared by services and aggregates.
type component struct {
	name      string
	inputs    []metadata.ResourceDescriptor
	internals []metadata.ResourceDescriptor
	outputs   []metadata.ResourceDescriptor
}

func (c *component) Name() string                             { return c.name }
func (c *component) Inputs() []metadata.ResourceDescriptor    { return c.inputs }
func (c *component) Internals() []metadata.ResourceDescriptor { return c.internals }
func (c *component) Outputs() []metadata.ResourceDescriptor   { return c.outputs }

// Service is a manifest-backed service descriptor.
type Service struct {
	component
	dockerImage     string
	testEnvironment map[string]string
}

// DockerImage returns the service's docker image name.
func (s *Service) DockerImage() string { return s.dockerImage }

// TestEnvironment returns the service's test environment variables.
func (s *Service) TestEnvironment() map[string]string { return s.testEnvironment }

func (s *Service) String() string {
	return fmt.Sprintf("service[%s]", s.name)
}

// Aggregate is a manifest-backed aggregate descriptor.
type Aggregate struct {
	component
}

// AggregateDescriptor marks the type as an aggregate.
func (a *Aggregate) AggregateDescriptor() {}

func (a *Aggregate) String() string {
	return fmt.Sprintf("aggregate[%s]", a.name)
}
