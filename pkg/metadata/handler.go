package metadata

import (
	"fmt"
	"sort"
	"sync"
)

// ResourceHandler knows how to validate and ensure resources of a single
// resource type. Handlers are registered against a resource type tag and
// invoked by the resource initializer.
type ResourceHandler interface {
	// Validate checks that a group of descriptors sharing one resource id
	// agree on their domain-specific details, e.g. that every component
	// expects the same partition count for a topic. The group is never
	// empty. A non-nil error aborts initialization.
	Validate(group []ResourceDescriptor) error

	// Ensure creates the described resources if they do not already
	// exist. Each descriptor names a distinct resource; dependencies of a
	// descriptor always appear before it in the slice. Ensure must be
	// idempotent. A non-nil error aborts initialization.
	Ensure(resources []ResourceDescriptor) error
}

// HandlerRegistry maps resource type tags to the handlers responsible for
// them. The mapping is explicit: callers register every handler themselves,
// and dispatching to an unregistered type is an error.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]ResourceHandler
}

// NewHandlerRegistry creates an empty handler registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string]ResourceHandler),
	}
}

// Register associates a handler with a resource type tag. Registering an
// empty tag, a nil handler, or a tag that is already taken is an error.
func (r *HandlerRegistry) Register(resourceType string, handler ResourceHandler) error {
	if resourceType == "" {
		return fmt.Errorf("resource type can not be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler can not be nil, resource type: %s", resourceType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[resourceType]; exists {
		return fmt.Errorf("handler already registered for resource type: %s", resourceType)
	}

	r.handlers[resourceType] = handler
	return nil
}

// Get returns the handler registered for a resource type tag.
func (r *HandlerRegistry) Get(resourceType string) (ResourceHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[resourceType]
	if !exists {
		return nil, fmt.Errorf("no handler registered for resource type: %s", resourceType)
	}
	return handler, nil
}

// Types returns all registered resource type tags, sorted.
func (r *HandlerRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
