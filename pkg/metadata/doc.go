// Package metadata defines the descriptor model for platform components and
// the resources they depend on.
//
// A component (a deployable service or an aggregate of services) publishes a
// ComponentDescriptor describing its inputs, internals and outputs. Each of
// those is a ResourceDescriptor carrying an opaque id, a resource type tag
// used for handler dispatch, an initialization tag and an optional list of
// nested resource dependencies.
//
// CollectResources walks the resulting dependency graph in dependency order,
// tolerating cycles and self-references, and is the basis for everything the
// resource package does with descriptors.
package metadata
