// Package core implements the reconciliation engine: the element model,
// the virtual-node tree, and the stateful-component runtime.
//
// It follows a declarative UI model: application code describes the
// desired tree as immutable [Element] values, and a [Reconciler] keeps a
// live [VirtualNode] tree synchronized against a host scene graph through
// a pluggable [HostRenderer] adapter.
//
// # Core Types
//
// Element is an immutable description of part of the UI: a kind, a
// component, properties, and keyed children. Elements are lightweight and
// consumed once; build them freely on every render.
//
// VirtualNode is the instantiation of an Element at a particular location
// in the tree. Nodes manage lifecycle and identity: a child keeps its
// node (and host object) across updates exactly when its host key and
// component both match, and is destroyed and recreated otherwise.
//
// # Stateful Components
//
// For elements that need mutable state, implement [Component] and embed
// [ComponentBase] to pick up no-op defaults for the lifecycle hooks:
//
//	type counter struct {
//	    core.ComponentBase
//	}
//
//	func (counter) Render(self *core.Instance) *core.Element {
//	    return core.New("Label", core.Props{
//	        "Text": fmt.Sprintf("Count: %v", self.State()["count"]),
//	    }, nil)
//	}
//
// State changes go through [Instance.SetState], which shallow-merges a
// partial state and triggers one synchronous update pass. Calls made from
// DidMount or DidUpdate are batched into a single later pass; calls made
// from Render or WillUnmount are rejected.
//
// # Execution Model
//
// Everything runs to completion on one logical thread. There is no
// time-slicing and no mid-flight cancellation; unmounting a node is the
// only way to abandon its subtree, and it cleanly releases partially
// mounted children and partially attached binding subscriptions.
package core
