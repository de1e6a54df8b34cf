package scene

import (
	stderrors "errors"
	"fmt"

	"github.com/go-weft/weft/pkg/errors"
)

// Sentinel errors wrapped into property errors by [Object] and
// [Renderer].
var (
	ErrUnknownProperty = stderrors.New("property not declared by class")
	ErrUnknownEvent    = stderrors.New("event not declared by class")
	ErrDestroyed       = stderrors.New("object is destroyed")
)

// Object is one node of the scene graph. Its properties start at the
// class defaults and are written through Set, which fires the property's
// changed signal.
type Object struct {
	class     *Class
	name      string
	parent    *Object
	children  []*Object
	props     map[string]any
	changed   map[string]*Signal
	events    map[string]*Signal
	destroyed bool
}

// NewObject creates a detached instance of class with every property at
// its default.
func NewObject(class *Class) *Object {
	props := make(map[string]any, len(class.Defaults))
	for k, v := range class.Defaults {
		props[k] = v
	}
	return &Object{
		class:   class,
		props:   props,
		changed: make(map[string]*Signal),
		events:  make(map[string]*Signal),
	}
}

// Class returns the object's class.
func (o *Object) Class() *Class {
	return o.class
}

// Name returns the object's name.
func (o *Object) Name() string {
	return o.name
}

// SetName renames the object.
func (o *Object) SetName(name string) {
	o.name = name
}

// Parent returns the object's parent, or nil when detached.
func (o *Object) Parent() *Object {
	return o.parent
}

// SetParent moves the object under parent, detaching it from its current
// parent first. A nil parent detaches.
func (o *Object) SetParent(parent *Object) {
	if o.parent == parent {
		return
	}
	if o.parent != nil {
		o.parent.removeChild(o)
	}
	o.parent = parent
	if parent != nil {
		parent.children = append(parent.children, o)
	}
}

// Children returns a copy of the object's children in attachment order.
func (o *Object) Children() []*Object {
	out := make([]*Object, len(o.children))
	copy(out, o.children)
	return out
}

// Child returns the first direct child with the given name, or nil.
func (o *Object) Child(name string) *Object {
	for _, child := range o.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

// Find returns the first object named name in a depth-first walk of the
// subtree below o, or nil.
func (o *Object) Find(name string) *Object {
	for _, child := range o.children {
		if child.name == name {
			return child
		}
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Get returns the property's current value. Undeclared properties read
// as nil.
func (o *Object) Get(prop string) any {
	return o.props[prop]
}

// Set writes a declared property and fires its changed signal. Writing
// to a destroyed object or an undeclared property fails.
func (o *Object) Set(prop string, value any) error {
	if o.destroyed {
		return o.propertyError(prop, ErrDestroyed)
	}
	if !o.class.HasProperty(prop) {
		return o.propertyError(prop, ErrUnknownProperty)
	}
	o.props[prop] = value
	if sig, ok := o.changed[prop]; ok {
		sig.Fire(value)
	}
	return nil
}

// Reset restores a declared property to its class default.
func (o *Object) Reset(prop string) error {
	return o.Set(prop, o.class.Defaults[prop])
}

// Changed returns the changed signal for prop, creating it on first use.
// The signal fires with the new value after every successful Set.
func (o *Object) Changed(prop string) *Signal {
	sig, ok := o.changed[prop]
	if !ok {
		sig = &Signal{}
		o.changed[prop] = sig
	}
	return sig
}

// Event returns the signal for a declared event, creating it on first
// use, or nil when the class does not declare the event.
func (o *Object) Event(name string) *Signal {
	if !o.class.HasEvent(name) {
		return nil
	}
	sig, ok := o.events[name]
	if !ok {
		sig = &Signal{}
		o.events[name] = sig
	}
	return sig
}

// Fire fires a declared event with args, as the platform would.
func (o *Object) Fire(event string, args ...any) error {
	sig := o.Event(event)
	if sig == nil {
		return o.propertyError(event, ErrUnknownEvent)
	}
	sig.Fire(args...)
	return nil
}

// Destroyed reports whether Destroy has run.
func (o *Object) Destroyed() bool {
	return o.destroyed
}

// Destroy detaches the object, destroys its children, and drops every
// signal connection. Destroy is idempotent.
func (o *Object) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	o.SetParent(nil)
	for _, child := range o.Children() {
		child.Destroy()
	}
	o.children = nil
	for _, sig := range o.changed {
		sig.connections = nil
	}
	for _, sig := range o.events {
		sig.connections = nil
	}
}

func (o *Object) removeChild(child *Object) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Object) propertyError(prop string, err error) error {
	return &errors.PropertyError{
		Object:   o.describe(),
		Property: prop,
		Err:      err,
	}
}

// describe names the object for error messages.
func (o *Object) describe() string {
	if o.name != "" {
		return fmt.Sprintf("%s %q", o.class.Name, o.name)
	}
	return o.class.Name
}
