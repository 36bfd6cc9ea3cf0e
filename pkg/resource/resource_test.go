package resource

import (
	"fmt"

	"github.com/openplat/openplat/pkg/metadata"
)

// testResource is a mutable descriptor for building dependency graphs in
// tests, including cyclic ones.
type testResource struct {
	id   string
	typ  string
	init metadata.Initialization
	deps []metadata.ResourceDescriptor
}

func newTestResource(id, typ string, init metadata.Initialization, deps ...metadata.ResourceDescriptor) *testResource {
	return &testResource{id: id, typ: typ, init: init, deps: deps}
}

func (r *testResource) ID() string                              { return r.id }
func (r *testResource) Type() string                            { return r.typ }
func (r *testResource) Initialization() metadata.Initialization { return r.init }
func (r *testResource) Resources() []metadata.ResourceDescriptor {
	return r.deps
}

func (r *testResource) String() string {
	return fmt.Sprintf("testResource{id: %s}", r.id)
}

// creatableResource additionally carries the creatable marker.
type creatableResource struct {
	testResource
}

func newCreatableResource(id, typ string, init metadata.Initialization) *creatableResource {
	return &creatableResource{testResource{id: id, typ: typ, init: init}}
}

func (r *creatableResource) CreatableResource() {}

// testService implements metadata.ServiceDescriptor.
type testService struct {
	name        string
	dockerImage string
	testEnv     map[string]string
	inputs      []metadata.ResourceDescriptor
	internals   []metadata.ResourceDescriptor
	outputs     []metadata.ResourceDescriptor
}

func newTestService(name string) *testService {
	return &testService{
		name:        name,
		dockerImage: "acme/" + name,
		testEnv:     map[string]string{},
	}
}

func (s *testService) Name() string                              { return s.name }
func (s *testService) Inputs() []metadata.ResourceDescriptor     { return s.inputs }
func (s *testService) Internals() []metadata.ResourceDescriptor  { return s.internals }
func (s *testService) Outputs() []metadata.ResourceDescriptor    { return s.outputs }
func (s *testService) DockerImage() string                       { return s.dockerImage }
func (s *testService) TestEnvironment() map[string]string        { return s.testEnv }

func (s *testService) String() string {
	return fmt.Sprintf("testService{name: %s}", s.name)
}

// testAggregate implements metadata.AggregateDescriptor.
type testAggregate struct {
	name      string
	inputs    []metadata.ResourceDescriptor
	internals []metadata.ResourceDescriptor
	outputs   []metadata.ResourceDescriptor
}

func newTestAggregate(name string) *testAggregate {
	return &testAggregate{name: name}
}

func (a *testAggregate) Name() string                             { return a.name }
func (a *testAggregate) Inputs() []metadata.ResourceDescriptor    { return a.inputs }
func (a *testAggregate) Internals() []metadata.ResourceDescriptor { return a.internals }
func (a *testAggregate) Outputs() []metadata.ResourceDescriptor   { return a.outputs }
func (a *testAggregate) AggregateDescriptor()                     {}

// bothKinds implements service and aggregate at once.
type bothKinds struct {
	testService
}

func (b *bothKinds) AggregateDescriptor() {}

// neitherKind implements only the base ComponentDescriptor.
type neitherKind struct {
	name string
}

func (n *neitherKind) Name() string                             { return n.name }
func (n *neitherKind) Inputs() []metadata.ResourceDescriptor    { return nil }
func (n *neitherKind) Internals() []metadata.ResourceDescriptor { return nil }
func (n *neitherKind) Outputs() []metadata.ResourceDescriptor   { return nil }
