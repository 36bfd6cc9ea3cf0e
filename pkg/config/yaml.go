package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// YAMLParser parses YAML component manifests.
type YAMLParser struct {
	validator *validator.Validate
}

// NewYAMLParser creates a new YAML manifest parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{validator: validator.New()}
}

// ParseFile parses a single YAML manifest file.
func (yp *YAMLParser) ParseFile(path string) (*ParsedManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	parsed := yp.parse(data, path)
	return parsed, nil
}

// ParseBytes parses YAML manifest content.
func (yp *YAMLParser) ParseBytes(data []byte) *ParsedManifest {
	return yp.parse(data, "inline")
}

func (yp *YAMLParser) parse(data []byte, source string) *ParsedManifest {
	parsed := &ParsedManifest{
		SourceFiles: []string{source},
		ParsedAt:    time.Now(),
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		parsed.Errors = append(parsed.Errors, ValidationError{
			File:     source,
			Message:  fmt.Sprintf("failed to parse YAML: %v", err),
			Severity: "error",
		})
		return parsed
	}

	if err := yp.validator.Struct(manifest); err != nil {
		parsed.Errors = append(parsed.Errors, ValidationError{
			File:     source,
			Message:  fmt.Sprintf("validation failed: %v", err),
			Severity: "error",
		})
		return parsed
	}

	parsed.Manifest = manifest
	return parsed
}
