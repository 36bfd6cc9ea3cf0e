package resource

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/openplat/openplat/pkg/metadata"
)

// ComponentValidator checks component descriptors against the metadata model
// rules before any resource work is done with them. Validation stops at the
// first violation.
type ComponentValidator struct{}

// NewComponentValidator creates a component validator.
func NewComponentValidator() *ComponentValidator {
	return &ComponentValidator{}
}

// Validate checks each component in turn, returning an
// *InvalidDescriptorError for the first violation found.
func (v *ComponentValidator) Validate(components ...metadata.ComponentDescriptor) error {
	for _, component := range components {
		if err := v.validateComponent(component); err != nil {
			return err
		}
	}
	return nil
}

func (v *ComponentValidator) validateComponent(component metadata.ComponentDescriptor) error {
	if component == nil {
		return &InvalidDescriptorError{Message: "component can not be nil", Component: "<nil>"}
	}

	if err := v.validateName(component); err != nil {
		return err
	}
	if err := v.validateKind(component); err != nil {
		return err
	}
	if err := v.validateResources(component); err != nil {
		return err
	}

	if aggregate, ok := component.(metadata.AggregateDescriptor); ok {
		return v.validateAggregate(aggregate)
	}
	return v.validateService(component.(metadata.ServiceDescriptor))
}

func (v *ComponentValidator) validateName(component metadata.ComponentDescriptor) error {
	name := component.Name()
	if strings.TrimSpace(name) == "" {
		return newInvalidDescriptorError("name can not be null or blank", component)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return newInvalidDescriptorError("name can not contain control characters", component)
		}
	}
	return nil
}

// validateKind checks the component is exactly one of service or aggregate.
func (v *ComponentValidator) validateKind(component metadata.ComponentDescriptor) error {
	_, isAggregate := component.(metadata.AggregateDescriptor)
	_, isService := component.(metadata.ServiceDescriptor)

	switch {
	case isAggregate && isService:
		return newInvalidDescriptorError("descriptor is both aggregate and service descriptor", component)
	case !isAggregate && !isService:
		return newInvalidDescriptorError("descriptor is neither aggregate and service descriptor", component)
	}
	return nil
}

// validateResources walks the component's declared resources and everything
// transitively reachable from them, tolerating cycles.
func (v *ComponentValidator) validateResources(component metadata.ComponentDescriptor) error {
	visited := make(map[metadata.ResourceDescriptor]struct{})
	for _, r := range metadata.ComponentResources(component) {
		if err := v.validateResource(r, component, visited); err != nil {
			return err
		}
	}
	return nil
}

func (v *ComponentValidator) validateResource(
	r metadata.ResourceDescriptor,
	component metadata.ComponentDescriptor,
	visited map[metadata.ResourceDescriptor]struct{},
) error {
	if r == nil {
		return newInvalidDescriptorError("contains null resource", component)
	}
	if _, seen := visited[r]; seen {
		return nil
	}
	visited[r] = struct{}{}

	if strings.TrimSpace(r.ID()) == "" {
		return newInvalidDescriptorError(
			fmt.Sprintf("null resource id, resource_type: %s", codeOrigin(r)), component)
	}

	if init := r.Initialization(); !init.Valid() {
		return newInvalidDescriptorError(
			fmt.Sprintf("resource can implement at-most one resource initialization marker, but was: [%s], resource: %s",
				strings.Join(init.Tags(), ", "), r.ID()),
			component)
	}

	if _, creatable := r.(metadata.CreatableResource); creatable && !r.Initialization().Creatable() {
		return newInvalidDescriptorError(
			fmt.Sprintf("creatable resource must be marked owned or shared, resource: %s", r.ID()),
			component)
	}

	for _, dep := range r.Resources() {
		if err := v.validateResource(dep, component, visited); err != nil {
			return err
		}
	}
	return nil
}

func (v *ComponentValidator) validateAggregate(aggregate metadata.AggregateDescriptor) error {
	if internals := aggregate.Internals(); len(internals) != 0 {
		return newInvalidDescriptorError(
			fmt.Sprintf("aggregate descriptors can not declare internal resources, internals: [%s]",
				strings.Join(resourceIDs(internals), ", ")),
			aggregate)
	}

	var notOwned []string
	for _, r := range metadata.CollectComponentResources(aggregate) {
		if !r.Initialization().IsOwned() {
			notOwned = append(notOwned, r.ID())
		}
	}
	if len(notOwned) != 0 {
		return newInvalidDescriptorError(
			fmt.Sprintf("aggregate descriptors can only expose owned resources, but found: [%s]",
				strings.Join(notOwned, ", ")),
			aggregate)
	}
	return nil
}

func (v *ComponentValidator) validateService(service metadata.ServiceDescriptor) error {
	if strings.TrimSpace(service.DockerImage()) == "" {
		return newInvalidDescriptorError("docker image can not be null or blank", service)
	}
	if service.TestEnvironment() == nil {
		return newInvalidDescriptorError("test environment can not be null", service)
	}
	return nil
}

func resourceIDs(resources []metadata.ResourceDescriptor) []string {
	ids := make([]string, len(resources))
	for i, r := range resources {
		ids[i] = r.ID()
	}
	return ids
}
