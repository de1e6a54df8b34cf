package core

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-weft/weft/pkg/errors"
)

// HostRenderer adapts the reconciler to a concrete host scene graph. The
// engine never inspects platform objects itself; everything
// host-specific goes through this interface.
type HostRenderer interface {
	// IsHostObject reports whether value is an object of the underlying
	// host.
	IsHostObject(value any) bool
	// MountHostNode creates the platform object for node's element,
	// applies its initial properties, and mounts its children through rec.
	MountHostNode(rec *Reconciler, node *VirtualNode) error
	// UpdateHostNode diffs node's current element against newElement and
	// applies the difference to the platform object, reconciling children
	// through rec.
	UpdateHostNode(rec *Reconciler, node *VirtualNode, newElement *Element) error
	// UnmountHostNode unmounts node's children through rec, releases the
	// node's subscriptions, and destroys the platform object. It must
	// tolerate a node whose mount failed partway.
	UnmountHostNode(rec *Reconciler, node *VirtualNode) error
}

// Reconciler translates element trees into virtual-node trees and diffs
// updates against a host renderer.
type Reconciler struct {
	renderer HostRenderer
}

// NewReconciler creates a reconciler driving the given host renderer.
func NewReconciler(renderer HostRenderer) *Reconciler {
	return &Reconciler{renderer: renderer}
}

// renderedChildKey is the synthetic host key under which a composite
// node's single rendered child is reconciled.
const renderedChildKey = "__rendered"

// Mount instantiates element as a new virtual node under hostParent at
// hostKey. On failure the partially mounted node is returned along with
// the error; there is no implicit rollback, so the caller releases
// whatever was attached by unmounting it.
func (r *Reconciler) Mount(element *Element, hostParent any, hostKey string, context Context) (*VirtualNode, error) {
	if element == nil {
		return nil, &errors.ConfigurationError{Op: "core.Mount", Reason: "element is nil"}
	}
	Logger().Debug("mount",
		zap.Stringer("kind", element.kind),
		zap.String("hostKey", hostKey))

	node := &VirtualNode{
		currentElement: element,
		hostParent:     hostParent,
		hostKey:        hostKey,
		context:        context,
		children:       make(map[string]*VirtualNode),
	}

	var err error
	switch element.kind {
	case KindHost:
		if _, ok := element.component.(string); !ok {
			return node, &errors.ConfigurationError{
				Op:     "core.Mount",
				Reason: fmt.Sprintf("unsupported component type %T", element.component),
				Source: element.source,
			}
		}
		err = r.renderer.MountHostNode(r, node)
	case KindFunction:
		err = r.mountFunction(node)
	case KindStateful:
		err = mountInstance(r, node)
	case KindPortal:
		err = r.mountPortal(node)
	}
	return node, err
}

func (r *Reconciler) mountFunction(node *VirtualNode) error {
	fn := node.currentElement.component.(FunctionComponent)
	return r.UpdateWithRenderResult(node, node.hostParent, fn(node.currentElement.props))
}

func (r *Reconciler) mountPortal(node *VirtualNode) error {
	target := node.currentElement.props[portalTargetProp]
	if target == nil || !r.renderer.IsHostObject(target) {
		return &errors.ConfigurationError{
			Op:     "core.mountPortal",
			Reason: fmt.Sprintf("portal target %v is not a host object", target),
			Source: node.currentElement.source,
		}
	}
	return r.UpdateChildren(node, target, node.currentElement.children)
}

// Update reconciles node against newElement. A nil newElement unmounts
// the node and returns nil. A changed kind, component, or portal target
// destroys the node and mounts newElement fresh at the same host parent
// and key; the returned node is the replacement in that case.
func (r *Reconciler) Update(node *VirtualNode, newElement *Element, newContext Context) (*VirtualNode, error) {
	if newElement == nil {
		return nil, r.Unmount(node)
	}

	current := node.currentElement
	replace := current.kind != newElement.kind ||
		!componentsMatch(current.component, newElement.component)
	if !replace && current.kind == KindPortal {
		replace = current.props[portalTargetProp] != newElement.props[portalTargetProp]
	}
	if replace {
		hostParent, hostKey := node.hostParent, node.hostKey
		ctx := node.context
		if newContext != nil {
			ctx = newContext
		}
		if err := r.Unmount(node); err != nil {
			return nil, err
		}
		return r.Mount(newElement, hostParent, hostKey, ctx)
	}

	if newContext != nil {
		node.context = newContext
	}

	switch newElement.kind {
	case KindHost:
		if err := r.renderer.UpdateHostNode(r, node, newElement); err != nil {
			return node, err
		}
		node.currentElement = newElement
	case KindFunction:
		node.currentElement = newElement
		fn := newElement.component.(FunctionComponent)
		if err := r.UpdateWithRenderResult(node, node.hostParent, fn(newElement.props)); err != nil {
			return node, err
		}
	case KindStateful:
		if err := node.instance.updatePass(newElement); err != nil {
			return node, err
		}
	case KindPortal:
		node.currentElement = newElement
		target := newElement.props[portalTargetProp]
		if err := r.UpdateChildren(node, target, newElement.children); err != nil {
			return node, err
		}
	}
	return node, nil
}

// Unmount destroys node: children bottom-up first, then the node's own
// host resource. It tolerates nodes whose mount failed partway.
func (r *Reconciler) Unmount(node *VirtualNode) error {
	if node == nil {
		return nil
	}
	Logger().Debug("unmount",
		zap.Stringer("kind", node.currentElement.kind),
		zap.String("hostKey", node.hostKey))

	switch node.currentElement.kind {
	case KindHost:
		return r.renderer.UnmountHostNode(r, node)
	case KindStateful:
		return unmountInstance(r, node)
	default:
		return r.UnmountChildren(node)
	}
}

// UnmountChildren unmounts every child of node. Exported for host
// renderers, which unmount children before destroying their own platform
// object.
func (r *Reconciler) UnmountChildren(node *VirtualNode) error {
	for key, child := range node.children {
		if err := r.Unmount(child); err != nil {
			return err
		}
		delete(node.children, key)
	}
	return nil
}

// UpdateChildren reconciles node's children against newChildren as a
// keyed mapping diff: every key present in newChildren is updated or
// mounted under hostParent, every key absent from it is unmounted. There
// is no ordering guarantee across distinct sibling keys.
func (r *Reconciler) UpdateChildren(node *VirtualNode, hostParent any, newChildren Children) error {
	if node.children == nil {
		node.children = make(map[string]*VirtualNode)
	}

	for key, element := range newChildren {
		if existing, ok := node.children[key]; ok {
			next, err := r.Update(existing, element, nil)
			if err != nil {
				return err
			}
			node.children[key] = next
			continue
		}
		child, err := r.Mount(element, hostParent, key, node.context)
		if child != nil {
			// Attached even on failure, so an explicit unmount of the
			// tree releases the partially mounted child.
			node.children[key] = child
		}
		if err != nil {
			return err
		}
	}

	for key, child := range node.children {
		if _, ok := newChildren[key]; ok {
			continue
		}
		if err := r.Unmount(child); err != nil {
			return err
		}
		delete(node.children, key)
	}
	return nil
}

// UpdateWithRenderResult normalizes a composite node's render output into
// a single synthetic-key child mapping and reconciles it. A nil render
// result unmounts any previously rendered child.
func (r *Reconciler) UpdateWithRenderResult(node *VirtualNode, hostParent any, renderResult *Element) error {
	if renderResult == nil {
		return r.UpdateChildren(node, hostParent, nil)
	}
	return r.UpdateChildren(node, hostParent, Children{renderedChildKey: renderResult})
}
