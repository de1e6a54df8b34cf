package scene

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/go-weft/weft/pkg/binding"
	"github.com/go-weft/weft/pkg/core"
	"github.com/go-weft/weft/pkg/errors"
)

// EventHandler, used as a host prop value, connects the prop's key as an
// event on the mounted object. The handler receives the object and the
// event's arguments.
type EventHandler func(object *Object, args ...any)

// ChangeHandler, used as a host prop value, connects the prop's key as a
// property-changed listener on the mounted object. The handler receives
// the object and the property's new value.
type ChangeHandler func(object *Object, value any)

// Ref, used as the value of the "Ref" prop, is called with the mounted
// object once mounting completes and with nil at unmount. When an update
// supplies a different ref, the old one is called with nil first.
type Ref func(object *Object)

// refProp is handled by the renderer rather than written to the object.
const refProp = "Ref"

// reservedProps are owned by the renderer; elements may not set them.
var reservedProps = map[string]bool{
	"Name":   true,
	"Parent": true,
}

// propKind classifies a prop value by how the renderer wires it.
type propKind uint8

const (
	propPlain propKind = iota
	propEvent
	propChange
	propBinding
)

func kindOfProp(value any) propKind {
	switch value.(type) {
	case EventHandler:
		return propEvent
	case ChangeHandler:
		return propChange
	case *binding.Binding:
		return propBinding
	default:
		return propPlain
	}
}

// Renderer drives a scene graph from the reconciler. One renderer owns
// one tree of objects; like everything in the engine it is
// single-threaded.
type Renderer struct {
	registry *Registry
	managers map[*core.VirtualNode]*eventManager
}

// NewRenderer creates a renderer instantiating classes from registry.
func NewRenderer(registry *Registry) *Renderer {
	return &Renderer{
		registry: registry,
		managers: make(map[*core.VirtualNode]*eventManager),
	}
}

// IsHostObject reports whether value is a scene object.
func (r *Renderer) IsHostObject(value any) bool {
	_, ok := value.(*Object)
	return ok
}

// MountHostNode creates the object for node's element, applies its
// props, mounts its children, and finally attaches it to the host
// parent. Events stay suspended until the object is fully assembled.
func (r *Renderer) MountHostNode(rec *core.Reconciler, node *core.VirtualNode) error {
	el := node.Element()
	className := el.Component().(string)
	class := r.registry.Class(className)
	if class == nil {
		return &errors.ConfigurationError{
			Op:     "scene.MountHostNode",
			Reason: fmt.Sprintf("unknown class %q", className),
			Source: el.Source(),
		}
	}

	obj := NewObject(class)
	obj.SetName(node.HostKey())
	node.SetHostObject(obj)

	manager := newEventManager(obj)
	r.managers[node] = manager
	manager.suspend()

	for key, value := range el.Props() {
		if key == refProp {
			continue
		}
		if err := r.applyProp(node, obj, manager, key, value); err != nil {
			return err
		}
	}

	if err := rec.UpdateChildren(node, obj, el.Children()); err != nil {
		return err
	}

	if parent, ok := node.HostParent().(*Object); ok && parent != nil {
		obj.SetParent(parent)
	}
	manager.resume()

	if ref, ok := el.Props()[refProp]; ok {
		return r.pointRef(node, ref, obj)
	}
	return nil
}

// UpdateHostNode diffs node's current element against newElement and
// applies the difference to the object: absent props reset to their
// class defaults, changed props are rewritten, and handler and binding
// wiring follows the prop value's type across the change.
func (r *Renderer) UpdateHostNode(rec *core.Reconciler, node *core.VirtualNode, newElement *core.Element) error {
	obj := node.HostObject().(*Object)
	manager := r.managers[node]
	oldProps := node.Element().Props()
	newProps := newElement.Props()

	manager.suspend()
	for key, oldValue := range oldProps {
		if _, ok := newProps[key]; ok || key == refProp {
			continue
		}
		if err := r.removeProp(node, obj, manager, key, oldValue); err != nil {
			manager.resume()
			return err
		}
	}
	for key, value := range newProps {
		if key == refProp {
			continue
		}
		oldValue, existed := oldProps[key]
		if existed {
			if valuesEqual(oldValue, value) {
				continue
			}
			r.clearProp(node, manager, key, oldValue, value)
		}
		if err := r.applyProp(node, obj, manager, key, value); err != nil {
			manager.resume()
			return err
		}
	}
	// Dispatch stays suspended through child reconciliation, so an event
	// fired from a descendant's lifecycle hook never observes a partially
	// reconciled sibling set.
	if err := rec.UpdateChildren(node, obj, newElement.Children()); err != nil {
		manager.resume()
		return err
	}
	manager.resume()
	return r.updateRef(node, oldProps[refProp], newProps[refProp], obj)
}

// UnmountHostNode unmounts node's children, releases its subscriptions,
// and destroys its object. It tolerates a node whose mount failed before
// an object existed.
func (r *Renderer) UnmountHostNode(rec *core.Reconciler, node *core.VirtualNode) error {
	if err := rec.UnmountChildren(node); err != nil {
		return err
	}
	if manager, ok := r.managers[node]; ok {
		manager.disconnectAll()
		delete(r.managers, node)
	}
	node.ReleaseBindings()

	obj, ok := node.HostObject().(*Object)
	if !ok || obj == nil {
		return nil
	}
	if ref, exists := node.Element().Props()[refProp]; exists {
		if err := r.pointRef(node, ref, nil); err != nil {
			return err
		}
	}
	obj.Destroy()
	return nil
}

// applyProp wires one prop onto the object according to its value type.
func (r *Renderer) applyProp(node *core.VirtualNode, obj *Object, manager *eventManager, key string, value any) error {
	if reservedProps[key] {
		return &errors.ConfigurationError{
			Op:     "scene.applyProp",
			Reason: fmt.Sprintf("property %q is reserved", key),
			Source: node.Element().Source(),
		}
	}

	switch v := value.(type) {
	case EventHandler:
		return r.withSource(node, manager.connectEvent(key, func(args ...any) {
			v(obj, args...)
		}))
	case ChangeHandler:
		return r.withSource(node, manager.connectChanged(key, func(args ...any) {
			var newValue any
			if len(args) > 0 {
				newValue = args[0]
			}
			v(obj, newValue)
		}))
	case *binding.Binding:
		return r.attachBinding(node, obj, key, v)
	default:
		return r.withSource(node, obj.Set(key, value))
	}
}

// clearProp tears down the old value's wiring when an update changes a
// prop's kind. The new value overwrites the property itself, so nothing
// resets here.
func (r *Renderer) clearProp(node *core.VirtualNode, manager *eventManager, key string, oldValue, newValue any) {
	oldKind, newKind := kindOfProp(oldValue), kindOfProp(newValue)
	if oldKind == newKind && oldKind != propBinding {
		return
	}
	switch oldKind {
	case propEvent:
		manager.disconnectEvent(key)
	case propChange:
		manager.disconnectChanged(key)
	case propBinding:
		node.DetachBinding(key)
	}
}

// removeProp handles a prop absent from the new element: handlers
// disconnect, bindings detach, and the property itself returns to its
// class default.
func (r *Renderer) removeProp(node *core.VirtualNode, obj *Object, manager *eventManager, key string, oldValue any) error {
	switch kindOfProp(oldValue) {
	case propEvent:
		manager.disconnectEvent(key)
		return nil
	case propChange:
		manager.disconnectChanged(key)
		return nil
	case propBinding:
		node.DetachBinding(key)
	}
	return r.withSource(node, obj.Reset(key))
}

// attachBinding writes the binding's current value and keeps the
// property updated on every binding change, outside of reconciliation.
// Bindings nested as values are followed.
func (r *Renderer) attachBinding(node *core.VirtualNode, obj *Object, prop string, b *binding.Binding) error {
	if !obj.class.HasProperty(prop) {
		return r.withSource(node, obj.propertyError(prop, ErrUnknownProperty))
	}
	source := node.Element().Source()
	disconnect := watchBinding(b, func(value any) {
		if err := obj.Set(prop, value); err != nil {
			Logger().Error("binding write failed",
				zap.String("object", obj.describe()),
				zap.String("property", prop),
				zap.String("source", source),
				zap.Error(err))
		}
	})
	node.AttachBinding(prop, disconnect)
	return nil
}

// watchBinding applies b's value now and on every update. When the value
// is itself a binding it is followed recursively, re-watched whenever
// the outer binding moves to a different value. The returned disconnect
// stops the whole chain.
func watchBinding(b *binding.Binding, apply func(value any)) func() {
	var innerDisconnect func()
	watchValue := func(value any) {
		if innerDisconnect != nil {
			innerDisconnect()
			innerDisconnect = nil
		}
		if nested, ok := value.(*binding.Binding); ok {
			innerDisconnect = watchBinding(nested, apply)
			return
		}
		apply(value)
	}
	outerDisconnect := b.Subscribe(watchValue)
	watchValue(b.Value())
	return func() {
		if innerDisconnect != nil {
			innerDisconnect()
			innerDisconnect = nil
		}
		outerDisconnect()
	}
}

// updateRef re-points the ref when an update supplies a different one.
func (r *Renderer) updateRef(node *core.VirtualNode, oldRef, newRef any, obj *Object) error {
	if refsEqual(oldRef, newRef) {
		return nil
	}
	if oldRef != nil {
		if err := r.pointRef(node, oldRef, nil); err != nil {
			return err
		}
	}
	if newRef != nil {
		return r.pointRef(node, newRef, obj)
	}
	return nil
}

// pointRef calls the ref value with obj, accepting Ref or a bare
// func(*Object).
func (r *Renderer) pointRef(node *core.VirtualNode, ref any, obj *Object) error {
	switch fn := ref.(type) {
	case Ref:
		fn(obj)
		return nil
	case func(*Object):
		fn(obj)
		return nil
	default:
		return &errors.ConfigurationError{
			Op:     "scene.pointRef",
			Reason: fmt.Sprintf("Ref prop must be a func(*Object), got %T", ref),
			Source: node.Element().Source(),
		}
	}
}

// withSource stamps the element's diagnostic source onto property
// errors raised while applying its props.
func (r *Renderer) withSource(node *core.VirtualNode, err error) error {
	if pe, ok := err.(*errors.PropertyError); ok && pe.Source == "" {
		pe.Source = node.Element().Source()
	}
	return err
}

// valuesEqual reports whether two prop values are interchangeable. Any
// value of an uncomparable dynamic type is treated as changed.
func valuesEqual(a, b any) bool {
	if !comparableValue(a) || !comparableValue(b) {
		return false
	}
	return a == b
}

func comparableValue(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// refsEqual compares ref props by function identity.
func refsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() != reflect.Func || bv.Kind() != reflect.Func {
		return false
	}
	return av.Pointer() == bv.Pointer()
}
