package metadata

import (
	"fmt"
)

// testResource is a mutable descriptor for building dependency graphs in
// tests, including cyclic ones.
type testResource struct {
	id   string
	typ  string
	init Initialization
	deps []ResourceDescriptor
}

func newTestResource(id string, init Initialization, deps ...ResourceDescriptor) *testResource {
	return &testResource{id: id, typ: "test.resource", init: init, deps: deps}
}

func (r *testResource) ID() string                     { return r.id }
func (r *testResource) Type() string                   { return r.typ }
func (r *testResource) Initialization() Initialization { return r.init }
func (r *testResource) Resources() []ResourceDescriptor {
	return r.deps
}

func (r *testResource) String() string {
	return fmt.Sprintf("testResource{id: %s}", r.id)
}

// testCollection is a bare resource collection.
type testCollection struct {
	resources []ResourceDescriptor
}

func (c *testCollection) Resources() []ResourceDescriptor { return c.resources }

// testComponent implements ComponentDescriptor.
type testComponent struct {
	name      string
	inputs    []ResourceDescriptor
	internals []ResourceDescriptor
	outputs   []ResourceDescriptor
}

func (c *testComponent) Name() string                    { return c.name }
func (c *testComponent) Inputs() []ResourceDescriptor    { return c.inputs }
func (c *testComponent) Internals() []ResourceDescriptor { return c.internals }
func (c *testComponent) Outputs() []ResourceDescriptor   { return c.outputs }
