package scene

import (
	stderrors "errors"
	"testing"

	"github.com/go-weft/weft/pkg/errors"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	r.MustRegister(&Class{
		Name:     "Frame",
		Defaults: map[string]any{"Visible": true, "Layout": "none"},
	})
	r.MustRegister(&Class{
		Name:     "Label",
		Defaults: map[string]any{"Text": "", "Size": 12},
	})
	r.MustRegister(&Class{
		Name:     "Button",
		Defaults: map[string]any{"Text": ""},
		Events:   []string{"Activated", "Hover"},
	})
	return r
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := testRegistry(t)

	err := r.Register(&Class{Name: "Frame"})
	var cfgErr *errors.ConfigurationError
	if !stderrors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestObject_StartsAtDefaults(t *testing.T) {
	r := testRegistry(t)

	obj := NewObject(r.Class("Label"))
	if obj.Get("Text") != "" || obj.Get("Size") != 12 {
		t.Errorf("expected class defaults, got Text=%v Size=%v", obj.Get("Text"), obj.Get("Size"))
	}
}

func TestObject_SetFiresChangedSignal(t *testing.T) {
	r := testRegistry(t)
	obj := NewObject(r.Class("Label"))

	var seen []any
	obj.Changed("Text").Connect(func(args ...any) {
		seen = append(seen, args[0])
	})

	if err := obj.Set("Text", "hello"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if len(seen) != 1 || seen[0] != "hello" {
		t.Errorf("expected one change with 'hello', got %v", seen)
	}
}

func TestObject_SetUndeclaredPropertyFails(t *testing.T) {
	r := testRegistry(t)
	obj := NewObject(r.Class("Label"))

	err := obj.Set("Bogus", 1)
	if !stderrors.Is(err, ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}
	var propErr *errors.PropertyError
	if !stderrors.As(err, &propErr) || propErr.Property != "Bogus" {
		t.Errorf("expected PropertyError naming 'Bogus', got %v", err)
	}
}

func TestObject_SetAfterDestroyFails(t *testing.T) {
	r := testRegistry(t)
	obj := NewObject(r.Class("Label"))
	obj.Destroy()

	if err := obj.Set("Text", "x"); !stderrors.Is(err, ErrDestroyed) {
		t.Fatalf("expected ErrDestroyed, got %v", err)
	}
}

func TestObject_ReparentMovesBetweenParents(t *testing.T) {
	r := testRegistry(t)
	a := NewObject(r.Class("Frame"))
	b := NewObject(r.Class("Frame"))
	child := NewObject(r.Class("Label"))
	child.SetName("moving")

	child.SetParent(a)
	if a.Child("moving") == nil {
		t.Fatal("expected child under a")
	}

	child.SetParent(b)
	if a.Child("moving") != nil {
		t.Error("expected child removed from a")
	}
	if b.Child("moving") != child {
		t.Error("expected child under b")
	}
}

func TestObject_FindWalksSubtree(t *testing.T) {
	r := testRegistry(t)
	root := NewObject(r.Class("Frame"))
	mid := NewObject(r.Class("Frame"))
	mid.SetParent(root)
	leaf := NewObject(r.Class("Label"))
	leaf.SetName("deep")
	leaf.SetParent(mid)

	if root.Find("deep") != leaf {
		t.Error("expected Find to reach the nested child")
	}
	if root.Find("missing") != nil {
		t.Error("expected nil for an unknown name")
	}
}

func TestObject_DestroyIsRecursiveAndIdempotent(t *testing.T) {
	r := testRegistry(t)
	root := NewObject(r.Class("Frame"))
	child := NewObject(r.Class("Label"))
	child.SetParent(root)

	fired := 0
	child.Changed("Text").Connect(func(...any) { fired++ })

	root.Destroy()
	root.Destroy()

	if !root.Destroyed() || !child.Destroyed() {
		t.Error("expected whole subtree destroyed")
	}
	child.Changed("Text").Fire("x")
	if fired != 0 {
		t.Error("expected destroyed object's connections dropped")
	}
}

func TestObject_FireUndeclaredEventFails(t *testing.T) {
	r := testRegistry(t)
	obj := NewObject(r.Class("Label"))

	if err := obj.Fire("Activated"); !stderrors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestSignal_DisconnectIsIdempotent(t *testing.T) {
	sig := &Signal{}

	calls := 0
	conn := sig.Connect(func(...any) { calls++ })
	sig.Fire()
	conn.Disconnect()
	conn.Disconnect()
	sig.Fire()

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if conn.Connected() {
		t.Error("expected connection reported inactive")
	}
}

func TestSignal_DisconnectDuringFire(t *testing.T) {
	sig := &Signal{}

	var second *Connection
	var order []string
	sig.Connect(func(...any) {
		order = append(order, "first")
		second.Disconnect()
	})
	second = sig.Connect(func(...any) {
		order = append(order, "second")
	})

	sig.Fire()
	if len(order) != 1 || order[0] != "first" {
		t.Errorf("expected handler disconnected mid-fire to be skipped, got %v", order)
	}
}
