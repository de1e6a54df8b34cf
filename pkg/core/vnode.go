package core

// Context is the inherited mapping of ambient values flowing down a
// virtual-node subtree. Subtrees share a context by reference; a
// component that replaces an entry during Init gets a copy first, so
// siblings never observe each other's entries.
type Context map[any]any

// VirtualNode pairs one Element with its live reconciliation state. Its
// mutable fields are owned exclusively by the reconciler and component
// runtime that created it; host renderers interact with a node only
// through its exported methods.
type VirtualNode struct {
	currentElement *Element
	hostParent     any
	hostKey        string
	hostObject     any
	children       map[string]*VirtualNode
	context        Context
	instance       *Instance
	bindings       map[string]func()
}

// Element returns the element this node currently reflects.
func (n *VirtualNode) Element() *Element {
	return n.currentElement
}

// HostKey returns the key under which this node lives in its parent.
func (n *VirtualNode) HostKey() string {
	return n.hostKey
}

// HostParent returns the host object this node's host content attaches
// to. It belongs to the host renderer, not to the node.
func (n *VirtualNode) HostParent() any {
	return n.hostParent
}

// HostObject returns the platform object created for this node, or nil
// for composite nodes and nodes whose mount has not reached object
// creation.
func (n *VirtualNode) HostObject() any {
	return n.hostObject
}

// SetHostObject records the platform object created for this node.
// Called by the host renderer during mount.
func (n *VirtualNode) SetHostObject(obj any) {
	n.hostObject = obj
}

// Instance returns the component instance, or nil for non-stateful nodes.
func (n *VirtualNode) Instance() *Instance {
	return n.instance
}

// ContextValue returns the ambient value stored under key for this
// node's subtree, or nil.
func (n *VirtualNode) ContextValue(key any) any {
	return n.context[key]
}

// AttachBinding stores the disconnect for a binding subscribed to prop,
// releasing any subscription previously attached under the same prop.
func (n *VirtualNode) AttachBinding(prop string, disconnect func()) {
	n.DetachBinding(prop)
	if n.bindings == nil {
		n.bindings = make(map[string]func())
	}
	n.bindings[prop] = disconnect
}

// DetachBinding disconnects and forgets the binding subscription attached
// under prop. Reports whether one was attached.
func (n *VirtualNode) DetachBinding(prop string) bool {
	disconnect, ok := n.bindings[prop]
	if !ok {
		return false
	}
	delete(n.bindings, prop)
	disconnect()
	return true
}

// ReleaseBindings disconnects every binding subscription attached to this
// node. Called on unmount.
func (n *VirtualNode) ReleaseBindings() {
	for prop, disconnect := range n.bindings {
		delete(n.bindings, prop)
		disconnect()
	}
}
