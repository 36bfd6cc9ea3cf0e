package resource

import (
	"errors"
	"strings"
	"testing"

	"github.com/openplat/openplat/pkg/metadata"
)

func TestValidateAcceptsWellFormedService(t *testing.T) {
	service := newTestService("order-service")
	service.inputs = []metadata.ResourceDescriptor{
		newTestResource("kafka-topic://orders", "kafka.topic", metadata.Unowned),
	}
	service.outputs = []metadata.ResourceDescriptor{
		newTestResource("kafka-topic://shipments", "kafka.topic", metadata.Owned),
	}

	if err := NewComponentValidator().Validate(service); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestValidateAcceptsWellFormedAggregate(t *testing.T) {
	aggregate := newTestAggregate("order-aggregate")
	aggregate.outputs = []metadata.ResourceDescriptor{
		newTestResource("kafka-topic://orders", "kafka.topic", metadata.Owned),
	}

	if err := NewComponentValidator().Validate(aggregate); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestValidateStopsAtFirstInvalidComponent(t *testing.T) {
	good := newTestService("good")
	bad := newTestService("")

	err := NewComponentValidator().Validate(good, bad)
	assertInvalidDescriptor(t, err, "name can not be null or blank")
}

func TestValidateNilComponent(t *testing.T) {
	err := NewComponentValidator().Validate(nil)
	assertInvalidDescriptor(t, err, "component can not be nil")
}

func TestValidateBlankName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		err := NewComponentValidator().Validate(newTestService(name))
		assertInvalidDescriptor(t, err, "name can not be null or blank")
	}
}

func TestValidateControlCharactersInName(t *testing.T) {
	err := NewComponentValidator().Validate(newTestService("order\x00service"))
	assertInvalidDescriptor(t, err, "name can not contain control characters")
}

func TestValidateBothServiceAndAggregate(t *testing.T) {
	both := &bothKinds{*newTestService("confused")}

	err := NewComponentValidator().Validate(both)
	assertInvalidDescriptor(t, err, "descriptor is both aggregate and service descriptor")
}

func TestValidateNeitherServiceNorAggregate(t *testing.T) {
	err := NewComponentValidator().Validate(&neitherKind{name: "plain"})
	assertInvalidDescriptor(t, err, "descriptor is neither aggregate and service descriptor")
}

func TestValidateNilResource(t *testing.T) {
	service := newTestService("order-service")
	service.inputs = []metadata.ResourceDescriptor{nil}

	err := NewComponentValidator().Validate(service)
	assertInvalidDescriptor(t, err, "contains null resource")
}

func TestValidateBlankResourceID(t *testing.T) {
	service := newTestService("order-service")
	service.inputs = []metadata.ResourceDescriptor{
		newTestResource("  ", "kafka.topic", metadata.Unowned),
	}

	err := NewComponentValidator().Validate(service)
	assertInvalidDescriptor(t, err, "null resource id")
}

func TestValidateNestedResources(t *testing.T) {
	// The bad descriptor is only reachable through a nested dependency.
	bad := newTestResource("", "kafka.topic", metadata.Owned)
	parent := newTestResource("kafka-topic://parent", "kafka.topic", metadata.Owned, bad)

	service := newTestService("order-service")
	service.outputs = []metadata.ResourceDescriptor{parent}

	err := NewComponentValidator().Validate(service)
	assertInvalidDescriptor(t, err, "null resource id")
}

func TestValidateCyclicResourcesTerminate(t *testing.T) {
	a := newTestResource("res://a", "test.resource", metadata.Owned)
	b := newTestResource("res://b", "test.resource", metadata.Owned, a)
	a.deps = []metadata.ResourceDescriptor{b}

	service := newTestService("order-service")
	service.outputs = []metadata.ResourceDescriptor{a}

	if err := NewComponentValidator().Validate(service); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestValidateMultipleInitializationTags(t *testing.T) {
	service := newTestService("order-service")
	service.inputs = []metadata.ResourceDescriptor{
		newTestResource("res://conflicted", "test.resource", metadata.Owned|metadata.Shared),
	}

	err := NewComponentValidator().Validate(service)
	assertInvalidDescriptor(t, err,
		"resource can implement at-most one resource initialization marker, but was: [owned, shared]")
}

func TestValidateCreatableMustBeOwnedOrShared(t *testing.T) {
	service := newTestService("order-service")
	service.inputs = []metadata.ResourceDescriptor{
		newCreatableResource("res://contradiction", "test.resource", metadata.Unowned),
	}

	err := NewComponentValidator().Validate(service)
	assertInvalidDescriptor(t, err, "creatable resource must be marked owned or shared")
}

func TestValidateCreatableOwnedAccepted(t *testing.T) {
	service := newTestService("order-service")
	service.outputs = []metadata.ResourceDescriptor{
		newCreatableResource("res://fine", "test.resource", metadata.Owned),
	}

	if err := NewComponentValidator().Validate(service); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestValidateAggregateWithInternals(t *testing.T) {
	aggregate := newTestAggregate("order-aggregate")
	aggregate.internals = []metadata.ResourceDescriptor{
		newTestResource("res://hidden", "test.resource", metadata.Owned),
	}

	err := NewComponentValidator().Validate(aggregate)
	assertInvalidDescriptor(t, err,
		"aggregate descriptors can not declare internal resources, internals: [res://hidden]")
}

func TestValidateAggregateWithUnownedResources(t *testing.T) {
	aggregate := newTestAggregate("order-aggregate")
	aggregate.outputs = []metadata.ResourceDescriptor{
		newTestResource("res://owned", "test.resource", metadata.Owned),
		newTestResource("res://leaked", "test.resource", metadata.Unowned),
	}

	err := NewComponentValidator().Validate(aggregate)
	assertInvalidDescriptor(t, err,
		"aggregate descriptors can only expose owned resources, but found: [res://leaked]")
}

func TestValidateServiceBlankDockerImage(t *testing.T) {
	service := newTestService("order-service")
	service.dockerImage = "  "

	err := NewComponentValidator().Validate(service)
	assertInvalidDescriptor(t, err, "docker image can not be null or blank")
}

func TestValidateServiceNilTestEnvironment(t *testing.T) {
	service := newTestService("order-service")
	service.testEnv = nil

	err := NewComponentValidator().Validate(service)
	assertInvalidDescriptor(t, err, "test environment can not be null")
}

func TestValidateErrorIncludesComponentAndOrigin(t *testing.T) {
	service := newTestService("order-service")
	service.dockerImage = ""

	err := NewComponentValidator().Validate(service)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "component: order-service") {
		t.Errorf("Expected component name in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "pkg/resource.testService") {
		t.Errorf("Expected code origin in error, got: %v", err)
	}
}

func assertInvalidDescriptor(t *testing.T, err error, message string) {
	t.Helper()

	if err == nil {
		t.Fatalf("Expected error containing %q, got nil", message)
	}
	var invalid *InvalidDescriptorError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected *InvalidDescriptorError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), message) {
		t.Errorf("Expected error containing %q, got: %v", message, err)
	}
}
