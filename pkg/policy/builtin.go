package policy

import (
	"time"
)

// GetBuiltinPolicies returns all built-in policies.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		dockerImageTagPolicy(),
		resourceIDPolicy(),
		aggregateOwnershipPolicy(),
	}
}

// dockerImageTagPolicy rejects docker images that pin a version tag. Image
// versions are managed by the deployment pipeline, not by metadata.
func dockerImageTagPolicy() Policy {
	return Policy{
		Name:        "docker-image-no-tag",
		Description: "Service docker images must not carry a version tag",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"services", "images"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package openplat.policies.images

import rego.v1

# Service docker images must not pin a version tag.
deny contains violation if {
	input.component.kind == "service"
	image := input.component.docker_image
	contains(image, ":")
	violation := {
		"message": sprintf("Docker image '%s' must not include a version tag", [image]),
		"severity": "error",
	}
}

deny contains violation if {
	input.component.kind == "service"
	input.component.docker_image == ""
	violation := {
		"message": "Service must declare a docker image",
		"severity": "error",
	}
}
`,
	}
}

// resourceIDPolicy enforces URI-style resource ids so they stay unique and
// self-describing across components.
func resourceIDPolicy() Policy {
	return Policy{
		Name:        "resource-id-format",
		Description: "Resource ids must be URI-like (scheme://path)",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"resources", "naming"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package openplat.policies.resources

import rego.v1

deny contains violation if {
	some resource in input.component.resources
	not regex.match("^[a-z][a-z0-9+.-]*://", resource.id)
	violation := {
		"message": sprintf("Resource id '%s' is not URI-like", [resource.id]),
		"severity": "warning",
		"resource": resource.id,
	}
}
`,
	}
}

// aggregateOwnershipPolicy duplicates the validator's owned-only rule for
// aggregates so CI surfaces it as a policy report before validation runs.
func aggregateOwnershipPolicy() Policy {
	return Policy{
		Name:        "aggregate-owned-resources",
		Description: "Aggregates must only expose owned resources",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"aggregates", "ownership"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package openplat.policies.aggregates

import rego.v1

deny contains violation if {
	input.component.kind == "aggregate"
	some resource in input.component.resources
	resource.initialization != "owned"
	violation := {
		"message": sprintf("Aggregate resource '%s' is %s, expected owned", [resource.id, resource.initialization]),
		"severity": "error",
		"resource": resource.id,
	}
}
`,
	}
}
