package weftest

import (
	"testing"

	"github.com/go-weft/weft/pkg/core"
	"github.com/go-weft/weft/pkg/scene"
)

// rootKey is the host key the harness mounts the tree under.
const rootKey = "app"

// Harness drives one element tree against an in-memory scene graph. It
// owns the renderer, the reconciler, and a detached root object the tree
// mounts under.
type Harness struct {
	t    *testing.T
	rec  *core.Reconciler
	root *scene.Object
	node *core.VirtualNode
}

// New creates a harness rendering classes from registry. The mounted
// tree is torn down through t.Cleanup when the test ends.
func New(t *testing.T, registry *scene.Registry) *Harness {
	root := scene.NewObject(&scene.Class{Name: "Root"})
	root.SetName("root")
	h := &Harness{
		t:    t,
		rec:  core.NewReconciler(scene.NewRenderer(registry)),
		root: root,
	}
	t.Cleanup(h.Unmount)
	return h
}

// Root returns the object the tree is mounted under.
func (h *Harness) Root() *scene.Object {
	return h.root
}

// Mount mounts element under the harness root, failing the test on
// error. At most one tree is mounted at a time.
func (h *Harness) Mount(element *core.Element) *core.VirtualNode {
	h.t.Helper()
	if h.node != nil {
		h.t.Fatalf("harness already has a mounted tree")
	}
	node, err := h.rec.Mount(element, h.root, rootKey, nil)
	if err != nil {
		h.node = node
		h.t.Fatalf("mount failed: %v", err)
	}
	h.node = node
	return node
}

// Update reconciles the mounted tree against element, failing the test
// on error.
func (h *Harness) Update(element *core.Element) *core.VirtualNode {
	h.t.Helper()
	if h.node == nil {
		h.t.Fatalf("no tree mounted")
	}
	node, err := h.rec.Update(h.node, element, nil)
	if err != nil {
		h.t.Fatalf("update failed: %v", err)
	}
	h.node = node
	return node
}

// Unmount tears down the mounted tree, if any.
func (h *Harness) Unmount() {
	if h.node == nil {
		return
	}
	node := h.node
	h.node = nil
	if err := h.rec.Unmount(node); err != nil {
		h.t.Errorf("unmount failed: %v", err)
	}
}

// Find returns the first object with the given name below the harness
// root, failing the test when none exists.
func (h *Harness) Find(name string) *scene.Object {
	h.t.Helper()
	obj := h.root.Find(name)
	if obj == nil {
		h.t.Fatalf("no object named %q in the scene", name)
	}
	return obj
}

// Snapshot captures the mounted scene below the harness root.
func (h *Harness) Snapshot() *Snapshot {
	return CaptureSnapshot(h.root)
}
