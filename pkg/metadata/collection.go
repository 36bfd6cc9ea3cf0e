package metadata

// ResourceCollection is anything that declares resource dependencies:
// resource descriptors declare nested dependencies, and components declare
// inputs, internals and outputs.
type ResourceCollection interface {
	// Resources returns the directly declared resources. May be empty.
	// The returned descriptors may reference each other, the declaring
	// collection, or themselves.
	Resources() []ResourceDescriptor
}

// CollectResources returns every resource reachable from root, in dependency
// order: a resource's dependencies always appear before the resource itself.
// The root itself is not included.
//
// Each reachable descriptor appears exactly once, by identity: descriptors
// must be pointer types (see ResourceDescriptor), so that two instances with
// equal fields remain distinct nodes and deduplication never compares values.
// Cyclic and self-referential graphs are handled; a descriptor already on the
// current path is simply not revisited. There are no error conditions.
func CollectResources(root ResourceCollection) []ResourceDescriptor {
	visited := map[ResourceCollection]struct{}{root: {}}
	var out []ResourceDescriptor
	for _, r := range root.Resources() {
		out = collect(r, visited, out)
	}
	return out
}

// collect appends r's unvisited dependencies, then r itself, to out.
func collect(r ResourceDescriptor, visited map[ResourceCollection]struct{}, out []ResourceDescriptor) []ResourceDescriptor {
	if r == nil {
		return out
	}
	if _, seen := visited[r]; seen {
		return out
	}
	visited[r] = struct{}{}

	for _, dep := range r.Resources() {
		out = collect(dep, visited, out)
	}
	return append(out, r)
}
