// Package scene provides an in-memory host scene graph and the
// [Renderer] that drives it from the reconciler in pkg/core.
//
// A scene is a tree of [Object] values. Each object belongs to a [Class]
// registered in a [Registry]; the class declares the object's properties
// with their default values and the events it can fire. Objects expose a
// changed [Signal] per property and an event [Signal] per declared
// event, so tests and tools can observe a mounted tree directly.
//
// [Renderer] implements core.HostRenderer against this graph. Host
// elements name a class by string; their props become object properties,
// with a few prop value types treated specially:
//
//   - [EventHandler] connects the prop's key as an event.
//   - [ChangeHandler] connects the prop's key as a property-changed
//     listener.
//   - *binding.Binding writes the binding's current value and keeps the
//     property updated outside of reconciliation.
//   - the "Ref" prop, a func(*Object), is called with the mounted object
//     and with nil on unmount.
//
// The scene graph is the reference host for tests (see pkg/weftest) and
// for the weftdump tool; a production adapter would implement
// core.HostRenderer against its own platform the same way.
package scene
