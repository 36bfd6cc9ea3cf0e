package config

import (
	"fmt"
	"time"
)

// Manifest is the root of a component manifest.
type Manifest struct {
	// Platform optionally names the platform the components belong to.
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`

	// Components lists the declared components.
	Components []ComponentConfig `json:"components" yaml:"components" validate:"required,min=1,dive"`
}

// ComponentConfig declares a single component.
type ComponentConfig struct {
	// Name is the unique component name.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Kind is "service" or "aggregate".
	Kind string `json:"kind" yaml:"kind" validate:"required,oneof=service aggregate"`

	// DockerImage is the service's docker image, without a version tag.
	// Required for services, forbidden for aggregates.
	DockerImage string `json:"docker_image,omitempty" yaml:"docker_image,omitempty"`

	// TestEnvironment holds environment variables for test runs of a
	// service.
	TestEnvironment map[string]string `json:"test_environment,omitempty" yaml:"test_environment,omitempty"`

	// Inputs, Internals and Outputs declare the component's resources.
	Inputs    []ResourceConfig `json:"inputs,omitempty" yaml:"inputs,omitempty" validate:"dive"`
	Internals []ResourceConfig `json:"internals,omitempty" yaml:"internals,omitempty" validate:"dive"`
	Outputs   []ResourceConfig `json:"outputs,omitempty" yaml:"outputs,omitempty" validate:"dive"`
}

// ResourceConfig declares a resource, either inline or as a reference to a
// resource declared elsewhere in the manifest.
type ResourceConfig struct {
	// Ref names another declared resource by id. When set, all other
	// fields must be empty.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`

	// ID is the unique resource id, e.g. "kafka-topic://orders".
	ID string `json:"id,omitempty" yaml:"id,omitempty" validate:"required_without=Ref"`

	// Type is the resource type tag, e.g. "kafka.topic". It selects the
	// handler responsible for the resource.
	Type string `json:"type,omitempty" yaml:"type,omitempty" validate:"required_without=Ref"`

	// Initialization is the resource's initialization tag. Defaults to
	// "unmanaged" when empty.
	Initialization string `json:"initialization,omitempty" yaml:"initialization,omitempty" validate:"omitempty,oneof=owned unowned shared unmanaged"`

	// Resources declares nested dependencies, inline or by reference.
	Resources []ResourceConfig `json:"resources,omitempty" yaml:"resources,omitempty" validate:"dive"`
}

// ValidationError describes a problem found while parsing a manifest,
// positioned in the source file when the parser can tell.
type ValidationError struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func (e ValidationError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	default:
		return e.Message
	}
}

// ParsedManifest is the result of parsing one or more manifest sources.
type ParsedManifest struct {
	// Manifest is the decoded manifest. Only meaningful when Errors is
	// empty.
	Manifest Manifest

	// SourceFiles lists the files that contributed to the manifest.
	SourceFiles []string

	// ParsedAt is when parsing finished.
	ParsedAt time.Time

	// Errors holds all problems found while parsing.
	Errors []ValidationError
}

// Err returns an error summarizing the parse errors, or nil.
func (p *ParsedManifest) Err() error {
	if len(p.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("manifest has %d error(s), first: %s", len(p.Errors), p.Errors[0].Error())
}
