package echo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openplat/openplat/pkg/metadata"
)

type echoResource struct {
	id  string
	typ string
}

func (r *echoResource) ID() string                               { return r.id }
func (r *echoResource) Type() string                             { return r.typ }
func (r *echoResource) Initialization() metadata.Initialization  { return metadata.Owned }
func (r *echoResource) Resources() []metadata.ResourceDescriptor { return nil }

func TestHandlerImplementsResourceHandler(t *testing.T) {
	var _ metadata.ResourceHandler = New(zerolog.Nop())
}

func TestValidateAcceptsAnyGroup(t *testing.T) {
	handler := New(zerolog.Nop())

	group := []metadata.ResourceDescriptor{
		&echoResource{id: "kafka-topic://orders", typ: "kafka.topic"},
		&echoResource{id: "kafka-topic://orders", typ: "kafka.topic"},
	}
	if err := handler.Validate(group); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := handler.Validate(nil); err != nil {
		t.Errorf("Expected no error for empty group, got %v", err)
	}
}

func TestEnsureLogsEachResource(t *testing.T) {
	var buf bytes.Buffer
	handler := New(zerolog.New(&buf))

	resources := []metadata.ResourceDescriptor{
		&echoResource{id: "kafka-topic://orders", typ: "kafka.topic"},
		&echoResource{id: "kafka-topic://payments", typ: "kafka.topic"},
	}
	if err := handler.Ensure(resources); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "kafka-topic://orders") {
		t.Errorf("Expected log output to name kafka-topic://orders, got %q", out)
	}
	if !strings.Contains(out, "kafka-topic://payments") {
		t.Errorf("Expected log output to name kafka-topic://payments, got %q", out)
	}
}
