// Package policy evaluates governance policies against component metadata
// using Open Policy Agent.
//
// Components are converted to a plain document form (name, kind, docker
// image, flattened resources) and handed to Rego policies as input. A policy
// reports violations through a "deny" set in its package; builtin policies
// ship with the engine and additional .rego files can be loaded from disk,
// optionally watched for changes.
package policy
