package core

import (
	"fmt"
	"reflect"
	"runtime"
)

// Kind discriminates the closed set of element kinds.
type Kind uint8

const (
	// KindHost projects to a platform object owned by the host renderer.
	KindHost Kind = iota
	// KindFunction evaluates a function of props to produce child content.
	KindFunction
	// KindStateful hosts a Component instance with state and lifecycle hooks.
	KindStateful
	// KindPortal redirects its children's host parent to an explicit target.
	KindPortal
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "Host"
	case KindFunction:
		return "Function"
	case KindStateful:
		return "Stateful"
	case KindPortal:
		return "Portal"
	default:
		return "Unknown"
	}
}

// Props carries an element's property mapping. Keys are unique within one
// element.
type Props map[string]any

// State carries a component instance's state mapping.
type State map[string]any

// Children maps host keys to child elements. Keys are unique among
// siblings; a child's identity across updates is its (host key,
// component) pair.
type Children map[string]*Element

// FunctionComponent produces child content from props, with no retained
// state of its own.
type FunctionComponent func(props Props) *Element

// portalComponent is the sentinel component of portal elements.
type portalComponent struct{}

// portalTargetProp is the property under which a portal element stores
// its target host object.
const portalTargetProp = "target"

// Element is an immutable description of desired UI: a kind, a component,
// properties, and keyed children. Elements are produced by application
// code and consumed once by the reconciler; never mutate one after
// construction.
type Element struct {
	kind      Kind
	component any
	props     Props
	children  Children
	source    string
}

// New builds an element. The kind is inferred from the component's type:
// a string names a host object class, a [FunctionComponent] renders
// children from props, and a [Component] hosts a stateful instance.
// Anything else is rejected with a configuration error at mount.
func New(component any, props Props, children Children) *Element {
	el := &Element{props: props, children: children, component: component}
	switch c := component.(type) {
	case string:
		el.kind = KindHost
	case FunctionComponent:
		el.kind = KindFunction
	case func(props Props) *Element:
		el.kind = KindFunction
		el.component = FunctionComponent(c)
	case Component:
		el.kind = KindStateful
	}
	if DebugMode {
		el.source = captureSource()
	}
	return el
}

// NewPortal builds a portal element. Its children mount under target,
// which must be an object of the host renderer, instead of under the
// portal's own host parent.
func NewPortal(target any, children Children) *Element {
	el := &Element{
		kind:      KindPortal,
		component: portalComponent{},
		props:     Props{portalTargetProp: target},
		children:  children,
	}
	if DebugMode {
		el.source = captureSource()
	}
	return el
}

// Kind returns the element's kind.
func (el *Element) Kind() Kind {
	return el.kind
}

// Component returns the element's component: the class name string for a
// host element, the function for a function element, or the [Component]
// for a stateful element.
func (el *Element) Component() any {
	return el.component
}

// Props returns the element's property mapping. Treat it as read-only.
func (el *Element) Props() Props {
	return el.props
}

// Children returns the element's keyed children. Treat it as read-only.
func (el *Element) Children() Children {
	return el.children
}

// Source returns the file:line where the element was built, or "" when
// DebugMode is off.
func (el *Element) Source() string {
	return el.source
}

// componentsMatch reports whether two components share identity: equal
// strings for host classes, the same function for function components,
// and the same dynamic type for stateful components.
func componentsMatch(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case FunctionComponent:
		bv, ok := b.(FunctionComponent)
		return ok && reflect.ValueOf(av).Pointer() == reflect.ValueOf(bv).Pointer()
	case portalComponent:
		_, ok := b.(portalComponent)
		return ok
	default:
		if b == nil {
			return false
		}
		return reflect.TypeOf(a) == reflect.TypeOf(b)
	}
}

// captureSource records the caller of New/NewPortal.
func captureSource() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", file, line)
}
