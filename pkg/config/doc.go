// Package config loads component manifests and turns them into descriptor
// values implementing the metadata interfaces.
//
// Manifests are written in CUE or YAML. Both front-ends share one schema: a
// top-level "components" list where each entry declares its kind (service or
// aggregate), its docker image and test environment for services, and its
// input, internal and output resources. Resources may nest dependencies
// inline or reference resources declared elsewhere in the manifest by id,
// which permits cyclic dependency graphs.
package config
