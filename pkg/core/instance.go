package core

import (
	"fmt"

	"github.com/go-weft/weft/pkg/errors"
)

// setStateStatus tracks where an instance is in its lifecycle pass.
// Transitions are monotonic within one mount or update pass and return
// to enabled by pass end; unmounting is terminal.
type setStateStatus uint8

const (
	// statusEnabled applies SetState immediately, with one synchronous
	// update pass.
	statusEnabled setStateStatus = iota
	// statusSuspended batches SetState into a pending update while a
	// pass's children commit.
	statusSuspended
	// statusDisallowedRendering rejects SetState during
	// ShouldUpdate/WillUpdate/Render.
	statusDisallowedRendering
	// statusDisallowedUnmounting rejects SetState during WillUnmount.
	statusDisallowedUnmounting
)

func (s setStateStatus) phase() string {
	switch s {
	case statusDisallowedRendering:
		return "render"
	case statusDisallowedUnmounting:
		return "unmount"
	case statusSuspended:
		return "commit"
	default:
		return "idle"
	}
}

// Instance is the runtime state of one mounted stateful component. It is
// created by mount, handed to every lifecycle hook as self, and destroyed
// by unmount.
type Instance struct {
	node         *VirtualNode
	reconciler   *Reconciler
	component    Component
	props        Props
	state        State
	status       setStateStatus
	pendingState State
	initializing bool
}

// Props returns the instance's committed props. Treat it as read-only.
func (in *Instance) Props() Props {
	return in.props
}

// State returns the instance's committed state. Treat it as read-only;
// change state through SetState.
func (in *Instance) State() State {
	return in.state
}

// Context returns the ambient value stored under key for this instance's
// subtree, or nil.
func (in *Instance) Context(key any) any {
	return in.node.context[key]
}

// SetContext replaces key's ambient value for this instance's subtree.
// Only legal during Init, before the initial render commits; the new
// context flows to the children mounted by that render. The instance's
// context is fixed afterwards.
func (in *Instance) SetContext(key, value any) error {
	if !in.initializing {
		return &errors.InvalidOperationError{Op: "core.SetContext", Phase: "post-init lifecycle"}
	}
	ctx := make(Context, len(in.node.context)+1)
	for k, v := range in.node.context {
		ctx[k] = v
	}
	ctx[key] = value
	in.node.context = ctx
	return nil
}

// SetState merges a partial state into the instance's state. update is
// either a State (or plain map) shallow-merged as-is, or a
// func(State, Props) State invoked with the merge base and current props,
// whose nil result means no-op.
//
// During Init the merge is assigned directly, since the forthcoming
// initial render picks it up. While a pass commits children (DidMount,
// DidUpdate), merges accumulate into one pending update flushed in a
// single later pass. Otherwise the merge triggers one synchronous update
// pass before SetState returns. Inside Render or WillUnmount, SetState
// fails with an invalid-operation error naming the phase.
func (in *Instance) SetState(update any) error {
	switch in.status {
	case statusDisallowedRendering:
		return &errors.InvalidOperationError{Op: "core.SetState", Phase: "render"}
	case statusDisallowedUnmounting:
		return &errors.InvalidOperationError{Op: "core.SetState", Phase: "unmount"}
	}

	base := in.state
	if in.status == statusSuspended && in.pendingState != nil {
		base = in.pendingState
	}

	partial, err := resolveStateUpdate(update, base, in.props)
	if err != nil {
		return err
	}
	if partial == nil {
		return nil
	}

	if in.status == statusSuspended {
		in.pendingState = mergeState(base, partial)
		return nil
	}
	if in.initializing {
		in.state = mergeState(in.state, partial)
		return nil
	}
	if _, err := in.update(nil, mergeState(in.state, partial)); err != nil {
		return err
	}
	return in.flushPendingState()
}

// mountInstance runs the mount protocol for a stateful node.
func mountInstance(r *Reconciler, node *VirtualNode) error {
	comp := node.currentElement.component.(Component)
	in := &Instance{
		node:       node,
		reconciler: r,
		component:  comp,
		state:      State{},
		status:     statusEnabled,
	}
	node.instance = in

	cfg := comp.Config()
	in.props = propsWithDefaults(node.currentElement.props, cfg.DefaultProps)

	in.initializing = true
	comp.Init(in)
	in.initializing = false

	if cfg.DerivedState != nil {
		if partial := cfg.DerivedState(in.props, in.state); partial != nil {
			in.state = mergeState(in.state, partial)
		}
	}

	in.status = statusDisallowedRendering
	rendered := comp.Render(in)
	in.status = statusSuspended
	if err := r.UpdateWithRenderResult(node, node.hostParent, rendered); err != nil {
		return err
	}
	comp.DidMount(in)
	in.status = statusEnabled

	return in.flushPendingState()
}

// updatePass is the reconciler's entry for reconciling a new element into
// this instance.
func (in *Instance) updatePass(newElement *Element) error {
	if _, err := in.update(newElement, nil); err != nil {
		return err
	}
	return in.flushPendingState()
}

// update runs one update pass with an optional replacement element and an
// optional replacement state. Reports whether the pass committed.
func (in *Instance) update(newElement *Element, newState State) (bool, error) {
	comp := in.component
	cfg := comp.Config()

	nextProps := in.props
	if newElement != nil {
		nextProps = propsWithDefaults(newElement.props, cfg.DefaultProps)
	}
	nextState := in.state
	if newState != nil {
		nextState = newState
	}

	if cfg.DerivedState != nil {
		if partial := cfg.DerivedState(nextProps, nextState); partial != nil {
			nextState = mergeState(nextState, partial)
		}
	}

	in.status = statusDisallowedRendering
	if !comp.ShouldUpdate(in, nextProps, nextState) {
		in.status = statusEnabled
		return false, nil
	}
	comp.WillUpdate(in, nextProps, nextState)

	oldProps, oldState := in.props, in.state
	in.props, in.state = nextProps, nextState
	if newElement != nil {
		in.node.currentElement = newElement
	}

	rendered := comp.Render(in)
	in.status = statusSuspended
	if err := in.reconciler.UpdateWithRenderResult(in.node, in.node.hostParent, rendered); err != nil {
		return false, err
	}
	comp.DidUpdate(in, oldProps, oldState)
	in.status = statusEnabled
	return true, nil
}

// flushPendingState runs update passes re-derived from the pending update
// alone until none remains. A pass aborted by ShouldUpdate halts the
// loop; the pending update it consumed is discarded.
func (in *Instance) flushPendingState() error {
	for in.pendingState != nil {
		pending := in.pendingState
		in.pendingState = nil
		committed, err := in.update(nil, pending)
		if err != nil {
			return err
		}
		if !committed {
			break
		}
	}
	return nil
}

// unmountInstance runs WillUnmount, then unmounts the node's children.
func unmountInstance(r *Reconciler, node *VirtualNode) error {
	if in := node.instance; in != nil {
		in.status = statusDisallowedUnmounting
		in.component.WillUnmount(in)
	}
	return r.UnmountChildren(node)
}

// resolveStateUpdate normalizes a SetState payload into a partial state.
func resolveStateUpdate(update any, base State, props Props) (State, error) {
	switch u := update.(type) {
	case nil:
		return nil, nil
	case State:
		return u, nil
	case map[string]any:
		return State(u), nil
	case func(state State, props Props) State:
		return u(base, props), nil
	default:
		return nil, &errors.ConfigurationError{
			Op:     "core.SetState",
			Reason: fmt.Sprintf("unsupported update type %T", update),
		}
	}
}

// mergeState returns base shallow-overridden by partial, as a new map.
func mergeState(base, partial State) State {
	merged := make(State, len(base)+len(partial))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return merged
}

// propsWithDefaults fills in props absent from the element.
func propsWithDefaults(props, defaults Props) Props {
	if len(defaults) == 0 {
		if props == nil {
			return Props{}
		}
		return props
	}
	merged := make(Props, len(props)+len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	return merged
}
