package metadata

import (
	"reflect"
	"strings"
	"testing"
)

type nopHandler struct{}

func (nopHandler) Validate(group []ResourceDescriptor) error   { return nil }
func (nopHandler) Ensure(resources []ResourceDescriptor) error { return nil }

func TestHandlerRegistryRegisterAndGet(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := nopHandler{}

	if err := registry.Register("kafka.topic", handler); err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}

	got, err := registry.Get("kafka.topic")
	if err != nil {
		t.Fatalf("Failed to get handler: %v", err)
	}
	if got != ResourceHandler(handler) {
		t.Error("Expected the registered handler to be returned")
	}
}

func TestHandlerRegistryRejectsDuplicate(t *testing.T) {
	registry := NewHandlerRegistry()

	if err := registry.Register("kafka.topic", nopHandler{}); err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}

	err := registry.Register("kafka.topic", nopHandler{})
	if err == nil {
		t.Fatal("Expected error registering duplicate resource type")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestHandlerRegistryRejectsEmptyTypeAndNilHandler(t *testing.T) {
	registry := NewHandlerRegistry()

	if err := registry.Register("", nopHandler{}); err == nil {
		t.Error("Expected error registering empty resource type")
	}
	if err := registry.Register("kafka.topic", nil); err == nil {
		t.Error("Expected error registering nil handler")
	}
}

func TestHandlerRegistryGetUnknownType(t *testing.T) {
	registry := NewHandlerRegistry()

	_, err := registry.Get("unknown.type")
	if err == nil {
		t.Fatal("Expected error for unknown resource type")
	}
	if !strings.Contains(err.Error(), "no handler registered") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestHandlerRegistryTypes(t *testing.T) {
	registry := NewHandlerRegistry()

	for _, typ := range []string{"kafka.topic", "db.table", "s3.bucket"} {
		if err := registry.Register(typ, nopHandler{}); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}
	}

	expected := []string{"db.table", "kafka.topic", "s3.bucket"}
	if got := registry.Types(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected types %v, got %v", expected, got)
	}
}
