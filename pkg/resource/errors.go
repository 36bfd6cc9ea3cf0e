package resource

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/openplat/openplat/pkg/metadata"
)

// InvalidDescriptorError reports a component descriptor that violates the
// metadata model rules. It carries the component name and a best-effort code
// origin of the offending descriptor type so the broken definition can be
// found quickly.
type InvalidDescriptorError struct {
	// Message describes the violated rule.
	Message string

	// Component is the component name, or its %v form when the name
	// itself is invalid.
	Component string

	// Origin is the Go type that produced the invalid descriptor.
	Origin string
}

func (e *InvalidDescriptorError) Error() string {
	msg := fmt.Sprintf("%s, component: %s", e.Message, e.Component)
	if e.Origin != "" {
		msg += fmt.Sprintf(" (%s)", e.Origin)
	}
	return msg
}

// newInvalidDescriptorError builds the error from the violated rule message
// and the offending component.
func newInvalidDescriptorError(message string, component metadata.ComponentDescriptor) *InvalidDescriptorError {
	return &InvalidDescriptorError{
		Message:   message,
		Component: componentName(component),
		Origin:    codeOrigin(component),
	}
}

// MismatchedResourceError reports that the descriptors different components
// published for a single resource id disagree on how the resource is
// initialized.
type MismatchedResourceError struct {
	// Kind is the initialization of the group's first descriptor, which
	// sets the expectation the rest of the group failed to meet.
	Kind metadata.Initialization

	// Descriptors is the full resource group.
	Descriptors []metadata.ResourceDescriptor
}

func (e *MismatchedResourceError) Error() string {
	return fmt.Sprintf(
		"Resource descriptors for resource are tagged with incompatible resource initialization markers."+
			" First descriptor is marked as a %s resource, but at least one subsequent descriptor was not %s."+
			" resource: %s, descriptors: %s",
		e.Kind, e.Kind, e.Descriptors[0].ID(), formatDescriptors(e.Descriptors),
	)
}

// UncreatableResourceError reports a resource group that must be created but
// contains no creatable descriptor: no component took ownership of the
// resource.
type UncreatableResourceError struct {
	// Descriptors is the full resource group.
	Descriptors []metadata.ResourceDescriptor
}

func (e *UncreatableResourceError) Error() string {
	return fmt.Sprintf(
		"No component provided a creatable descriptor for resource id: %s, descriptors: %s",
		e.Descriptors[0].ID(), formatDescriptors(e.Descriptors),
	)
}

// componentName returns the component's name, falling back to the %v form
// when the name is blank and therefore useless in a message.
func componentName(component metadata.ComponentDescriptor) string {
	if name := component.Name(); strings.TrimSpace(name) != "" {
		return name
	}
	return fmt.Sprintf("%v", component)
}

// codeOrigin returns the fully qualified Go type of v, e.g.
// "github.com/openplat/openplat/pkg/config.Service". Diagnostics only.
func codeOrigin(v any) string {
	if v == nil {
		return ""
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// formatDescriptors renders a resource group for diagnostics, each member
// with its code origin.
func formatDescriptors(descriptors []metadata.ResourceDescriptor) string {
	parts := make([]string, len(descriptors))
	for i, d := range descriptors {
		parts[i] = fmt.Sprintf("%v (%s)", d, codeOrigin(d))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
