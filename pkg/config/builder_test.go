package config

import (
	"strings"
	"testing"

	"github.com/openplat/openplat/pkg/metadata"
)

func TestBuildService(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name:        "orders",
				Kind:        "service",
				DockerImage: "acme/orders",
				Outputs: []ResourceConfig{
					{ID: "kafka-topic://orders", Type: "kafka.topic", Initialization: "owned"},
				},
			},
		},
	}

	components, err := Build(manifest)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(components) != 1 {
		t.Fatalf("Expected 1 component, got %d", len(components))
	}

	service, ok := components[0].(metadata.ServiceDescriptor)
	if !ok {
		t.Fatalf("Expected a service descriptor, got %T", components[0])
	}
	if service.DockerImage() != "acme/orders" {
		t.Errorf("Expected docker image acme/orders, got %s", service.DockerImage())
	}
	if service.TestEnvironment() == nil {
		t.Error("Expected non-nil test environment")
	}

	outputs := service.Outputs()
	if len(outputs) != 1 {
		t.Fatalf("Expected 1 output, got %d", len(outputs))
	}
	if outputs[0].ID() != "kafka-topic://orders" {
		t.Errorf("Expected output kafka-topic://orders, got %s", outputs[0].ID())
	}
	if outputs[0].Initialization() != metadata.Owned {
		t.Errorf("Expected owned initialization, got %s", outputs[0].Initialization())
	}
}

func TestBuildAggregate(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name: "checkout",
				Kind: "aggregate",
				Outputs: []ResourceConfig{
					{ID: "kafka-topic://carts", Type: "kafka.topic", Initialization: "owned"},
				},
			},
		},
	}

	components, err := Build(manifest)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := components[0].(metadata.AggregateDescriptor); !ok {
		t.Fatalf("Expected an aggregate descriptor, got %T", components[0])
	}
}

func TestBuildAggregateRejectsDockerImage(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{Name: "checkout", Kind: "aggregate", DockerImage: "acme/checkout"},
		},
	}

	_, err := Build(manifest)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), "can not declare a docker image") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestBuildRejectsUnknownKind(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{Name: "orders", Kind: "function"},
		},
	}

	if _, err := Build(manifest); err == nil {
		t.Fatal("Expected an error for unknown kind")
	}
}

func TestBuildRejectsUnknownInitialization(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name: "orders",
				Kind: "service",
				Outputs: []ResourceConfig{
					{ID: "kafka-topic://orders", Type: "kafka.topic", Initialization: "leased"},
				},
			},
		},
	}

	_, err := Build(manifest)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), "unknown initialization") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestBuildResolvesRefsToSharedInstance(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name:        "orders",
				Kind:        "service",
				DockerImage: "acme/orders",
				Outputs: []ResourceConfig{
					{ID: "kafka-topic://orders", Type: "kafka.topic", Initialization: "owned"},
				},
			},
			{
				Name:        "billing",
				Kind:        "service",
				DockerImage: "acme/billing",
				Inputs: []ResourceConfig{
					{Ref: "kafka-topic://orders"},
				},
			},
		},
	}

	components, err := Build(manifest)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	output := components[0].Outputs()[0]
	input := components[1].Inputs()[0]
	if output != input {
		t.Error("Expected ref to resolve to the same descriptor instance")
	}
	if input.Initialization() != metadata.Owned {
		t.Errorf("Expected owned initialization through ref, got %s", input.Initialization())
	}
}

func TestBuildResolvesRefsRegardlessOfOrder(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name:        "billing",
				Kind:        "service",
				DockerImage: "acme/billing",
				Inputs: []ResourceConfig{
					{Ref: "kafka-topic://orders"},
				},
			},
			{
				Name:        "orders",
				Kind:        "service",
				DockerImage: "acme/orders",
				Outputs: []ResourceConfig{
					{ID: "kafka-topic://orders", Type: "kafka.topic", Initialization: "owned"},
				},
			},
		},
	}

	if _, err := Build(manifest); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
}

func TestBuildRejectsUnknownRef(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name:        "billing",
				Kind:        "service",
				DockerImage: "acme/billing",
				Inputs: []ResourceConfig{
					{Ref: "kafka-topic://orders"},
				},
			},
		},
	}

	_, err := Build(manifest)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), `unknown resource ref "kafka-topic://orders"`) {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestBuildRejectsRefWithOtherFields(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name:        "billing",
				Kind:        "service",
				DockerImage: "acme/billing",
				Inputs: []ResourceConfig{
					{Ref: "kafka-topic://orders", Type: "kafka.topic"},
				},
			},
		},
	}

	_, err := Build(manifest)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), "must not declare other fields") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestBuildWiresNestedDependencies(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name:        "orders",
				Kind:        "service",
				DockerImage: "acme/orders",
				Outputs: []ResourceConfig{
					{
						ID:             "kafka-stream://orders",
						Type:           "kafka.stream",
						Initialization: "owned",
						Resources: []ResourceConfig{
							{ID: "kafka-topic://orders", Type: "kafka.topic", Initialization: "owned"},
						},
					},
				},
			},
		},
	}

	components, err := Build(manifest)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	collected := metadata.CollectComponentResources(components[0])
	if len(collected) != 2 {
		t.Fatalf("Expected 2 collected resources, got %d", len(collected))
	}
	if collected[0].ID() != "kafka-topic://orders" {
		t.Errorf("Expected dependency first, got %s", collected[0].ID())
	}
	if collected[1].ID() != "kafka-stream://orders" {
		t.Errorf("Expected parent second, got %s", collected[1].ID())
	}
}

func TestBuildSupportsCyclesThroughRefs(t *testing.T) {
	manifest := Manifest{
		Components: []ComponentConfig{
			{
				Name:        "orders",
				Kind:        "service",
				DockerImage: "acme/orders",
				Outputs: []ResourceConfig{
					{
						ID:             "kafka-topic://a",
						Type:           "kafka.topic",
						Initialization: "owned",
						Resources: []ResourceConfig{
							{
								ID:             "kafka-topic://b",
								Type:           "kafka.topic",
								Initialization: "owned",
								Resources: []ResourceConfig{
									{Ref: "kafka-topic://a"},
								},
							},
						},
					},
				},
			},
		},
	}

	components, err := Build(manifest)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	collected := metadata.CollectComponentResources(components[0])
	if len(collected) != 2 {
		t.Fatalf("Expected 2 collected resources, got %d", len(collected))
	}
}
