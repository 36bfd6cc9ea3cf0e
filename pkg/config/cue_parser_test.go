package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleCUE = `
platform: "orders"
components: [
	{
		name:         "order-service"
		kind:         "service"
		docker_image: "acme/order-service"
		test_environment: {
			LOG_LEVEL: "debug"
		}
		inputs: [
			{
				id:             "kafka-topic://orders"
				type:           "kafka.topic"
				initialization: "unowned"
			},
		]
		outputs: [
			{
				id:             "kafka-topic://shipments"
				type:           "kafka.topic"
				initialization: "owned"
			},
		]
	},
]
`

func TestCUEParserParsesInlineManifest(t *testing.T) {
	parsed, err := NewCUEParser().ParseInline(context.Background(), sampleCUE)
	if err != nil {
		t.Fatalf("Failed to parse manifest: %v", err)
	}
	if err := parsed.Err(); err != nil {
		t.Fatalf("Expected no validation errors, got: %v", err)
	}

	manifest := parsed.Manifest
	if manifest.Platform != "orders" {
		t.Errorf("Expected platform 'orders', got %q", manifest.Platform)
	}
	if len(manifest.Components) != 1 {
		t.Fatalf("Expected 1 component, got %d", len(manifest.Components))
	}

	service := manifest.Components[0]
	if service.Name != "order-service" || service.Kind != "service" {
		t.Errorf("Unexpected component: %+v", service)
	}
	if len(service.Inputs) != 1 || service.Inputs[0].Initialization != "unowned" {
		t.Errorf("Unexpected inputs: %+v", service.Inputs)
	}
}

func TestCUEParserReportsSyntaxErrorsWithPosition(t *testing.T) {
	parsed, err := NewCUEParser().ParseInline(context.Background(), "components: [ {")
	if err != nil {
		t.Fatalf("Unexpected hard failure: %v", err)
	}
	if len(parsed.Errors) == 0 {
		t.Fatal("Expected parse errors")
	}
	if parsed.Errors[0].File == "" {
		t.Errorf("Expected positioned error, got: %+v", parsed.Errors[0])
	}
}

func TestCUEParserRejectsInvalidKind(t *testing.T) {
	parsed, err := NewCUEParser().ParseInline(context.Background(), `
components: [
	{
		name: "odd"
		kind: "sidecar"
	},
]
`)
	if err != nil {
		t.Fatalf("Unexpected hard failure: %v", err)
	}
	if len(parsed.Errors) == 0 {
		t.Fatal("Expected validation errors for unknown kind")
	}
}

func TestCUEParserParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.cue")
	if err := os.WriteFile(path, []byte(sampleCUE), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	parsed, err := NewCUEParser().Parse(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Failed to parse manifest: %v", err)
	}
	if err := parsed.Err(); err != nil {
		t.Fatalf("Expected no validation errors, got: %v", err)
	}
	if len(parsed.Manifest.Components) != 1 {
		t.Errorf("Expected 1 component, got %d", len(parsed.Manifest.Components))
	}
}

func TestLoaderMergesManifests(t *testing.T) {
	dir := t.TempDir()

	first := `
components:
  - name: first-service
    kind: service
    docker_image: acme/first
`
	second := `
components:
  - name: second-service
    kind: service
    docker_image: acme/second
`
	if err := os.WriteFile(filepath.Join(dir, "first.yaml"), []byte(first), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "second.yml"), []byte(second), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	manifest, err := NewLoader().Load(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Failed to load manifests: %v", err)
	}
	if len(manifest.Components) != 2 {
		t.Errorf("Expected 2 components, got %d", len(manifest.Components))
	}
}

func TestLoaderRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.toml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := NewLoader().Load(context.Background(), []string{path}); err == nil {
		t.Error("Expected error for unsupported file type")
	}
}
