package metadata

import (
	"sort"
	"strings"
)

// Initialization describes who is responsible for making a resource exist.
// It is a bit-set so that a descriptor carrying conflicting tags can still be
// represented and rejected with a precise message by the component validator;
// well-formed descriptors carry at most one bit.
type Initialization uint8

const (
	// Unmanaged resources are not managed by the platform at all. This is
	// the zero value: a descriptor that sets no tag is unmanaged.
	Unmanaged Initialization = 0

	// Owned resources conceptually belong to the declaring component, which
	// is responsible for their creation.
	Owned Initialization = 1 << iota

	// Unowned resources belong to some other component; the declaring
	// component only consumes them.
	Unowned

	// Shared resources belong to no single component and are initialized
	// once for the whole platform.
	Shared
)

// tagNames maps each single tag bit to its canonical name, in the order the
// bits are declared.
var tagNames = []struct {
	bit  Initialization
	name string
}{
	{Owned, "owned"},
	{Unowned, "unowned"},
	{Shared, "shared"},
}

// IsOwned reports whether the owned tag is set.
func (i Initialization) IsOwned() bool { return i&Owned != 0 }

// IsUnowned reports whether the unowned tag is set.
func (i Initialization) IsUnowned() bool { return i&Unowned != 0 }

// IsShared reports whether the shared tag is set.
func (i Initialization) IsShared() bool { return i&Shared != 0 }

// IsUnmanaged reports whether no tag is set.
func (i Initialization) IsUnmanaged() bool { return i == Unmanaged }

// Creatable reports whether a descriptor with this tag may drive creation of
// the underlying resource. Owned and shared resources are creatable.
func (i Initialization) Creatable() bool { return i.IsOwned() || i.IsShared() }

// Valid reports whether at most one tag is set. The component validator
// rejects descriptors for which this is false.
func (i Initialization) Valid() bool { return i&(i-1) == 0 }

// Tags returns the names of all set tags, sorted alphabetically. Used to
// build diagnostics for descriptors carrying conflicting tags.
func (i Initialization) Tags() []string {
	var tags []string
	for _, t := range tagNames {
		if i&t.bit != 0 {
			tags = append(tags, t.name)
		}
	}
	sort.Strings(tags)
	return tags
}

// String returns the canonical tag name, or a diagnostic form when multiple
// tags are set.
func (i Initialization) String() string {
	if i.IsUnmanaged() {
		return "unmanaged"
	}
	tags := i.Tags()
	if len(tags) == 1 {
		return tags[0]
	}
	return "invalid(" + strings.Join(tags, "|") + ")"
}

// ParseInitialization converts a manifest tag name to an Initialization.
// The empty string parses as Unmanaged.
func ParseInitialization(name string) (Initialization, bool) {
	switch name {
	case "", "unmanaged":
		return Unmanaged, true
	case "owned":
		return Owned, true
	case "unowned":
		return Unowned, true
	case "shared":
		return Shared, true
	}
	return Unmanaged, false
}

// ResourceDescriptor describes a single resource a component depends on.
//
// Implementations should be pointer types: descriptors are compared by
// identity when walking dependency graphs, and by id when grouping the
// descriptors different components publish for the same conceptual resource.
type ResourceDescriptor interface {
	ResourceCollection

	// ID returns the unique identifier of the resource, e.g.
	// "kafka-topic://orders". The id is opaque to this package; equality
	// is the only operation performed on it.
	ID() string

	// Type returns the resource type tag, e.g. "kafka.topic". The tag
	// selects the ResourceHandler responsible for this resource.
	Type() string

	// Initialization returns the resource's initialization tag.
	Initialization() Initialization
}

// CreatableResource marks a resource descriptor as one that can drive
// physical creation of the underlying resource. Only owned and shared
// descriptors may implement it; the component validator rejects a creatable
// descriptor carrying any other tag.
type CreatableResource interface {
	ResourceDescriptor

	// CreatableResource is a marker method with no behavior.
	CreatableResource()
}
