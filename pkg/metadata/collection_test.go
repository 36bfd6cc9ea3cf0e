package metadata

import (
	"testing"
)

func TestCollectResourcesEmpty(t *testing.T) {
	collected := CollectResources(&testCollection{})

	if len(collected) != 0 {
		t.Errorf("Expected no resources, got %d", len(collected))
	}
}

func TestCollectResourcesDependenciesFirst(t *testing.T) {
	d := newTestResource("res://d", Unmanaged)
	b := newTestResource("res://b", Unmanaged, d)
	c := newTestResource("res://c", Unmanaged)
	a := newTestResource("res://a", Unmanaged, b, c)

	collected := CollectResources(&testCollection{resources: []ResourceDescriptor{a}})

	assertOrder(t, collected, d, b, c, a)
}

func TestCollectResourcesCyclic(t *testing.T) {
	// Root declares A, A depends on B, and B depends back on A and on the
	// root itself. Expected result: [B, A].
	root := newTestResource("res://root", Unmanaged)
	a := newTestResource("res://a", Unmanaged)
	b := newTestResource("res://b", Unmanaged, a, root)
	a.deps = []ResourceDescriptor{b}
	root.deps = []ResourceDescriptor{a}

	collected := CollectResources(root)

	assertOrder(t, collected, b, a)
}

func TestCollectResourcesSelfReference(t *testing.T) {
	a := newTestResource("res://a", Unmanaged)
	a.deps = []ResourceDescriptor{a}

	collected := CollectResources(&testCollection{resources: []ResourceDescriptor{a}})

	assertOrder(t, collected, a)
}

func TestCollectResourcesExactlyOnce(t *testing.T) {
	shared := newTestResource("res://shared", Unmanaged)
	a := newTestResource("res://a", Unmanaged, shared)
	b := newTestResource("res://b", Unmanaged, shared)

	collected := CollectResources(&testCollection{resources: []ResourceDescriptor{a, b}})

	assertOrder(t, collected, shared, a, b)
}

func TestCollectResourcesSameIDDistinctInstances(t *testing.T) {
	// Two descriptor instances with the same id are distinct nodes: the
	// collector works by identity, not by id.
	first := newTestResource("res://same", Unmanaged)
	second := newTestResource("res://same", Unmanaged)

	collected := CollectResources(&testCollection{resources: []ResourceDescriptor{first, second}})

	assertOrder(t, collected, first, second)
}

func TestCollectComponentResourcesOrder(t *testing.T) {
	in := newTestResource("res://in", Unowned)
	internal := newTestResource("res://internal", Owned)
	nested := newTestResource("res://nested", Owned)
	out := newTestResource("res://out", Owned, nested)

	component := &testComponent{
		name:      "comp",
		inputs:    []ResourceDescriptor{in},
		internals: []ResourceDescriptor{internal},
		outputs:   []ResourceDescriptor{out},
	}

	collected := CollectComponentResources(component)

	assertOrder(t, collected, in, internal, nested, out)
}

func assertOrder(t *testing.T, collected []ResourceDescriptor, expected ...ResourceDescriptor) {
	t.Helper()

	if len(collected) != len(expected) {
		t.Fatalf("Expected %d resources, got %d: %v", len(expected), len(collected), collected)
	}
	for i, want := range expected {
		if collected[i] != want {
			t.Errorf("Expected %v at position %d, got %v", want, i, collected[i])
		}
	}
}
