package core

// Component is implemented by stateful components. Render is the only
// method with interesting behavior for most components; embed
// [ComponentBase] to pick up no-op defaults for everything else.
//
//	type toggle struct {
//	    core.ComponentBase
//	}
//
//	func (toggle) Render(self *core.Instance) *core.Element {
//	    on, _ := self.State()["on"].(bool)
//	    return core.New("Switch", core.Props{"On": on}, nil)
//	}
//
// Hooks observe the instance's lifecycle. SetState is rejected inside
// Render and WillUnmount, batched inside DidMount and DidUpdate, and
// applied immediately anywhere else.
type Component interface {
	// Render produces the component's child content from self's current
	// props and state. Pure: it must not call SetState or touch the host.
	Render(self *Instance) *Element
	// Init runs once, before the initial render. SetState assigns state
	// directly here, and SetContext is only legal here.
	Init(self *Instance)
	// DidMount runs after the initial render's children have committed.
	DidMount(self *Instance)
	// ShouldUpdate gates an update pass given the candidate props and
	// state. Returning false aborts the pass entirely: nothing commits,
	// no further hooks run, and no children reconcile.
	ShouldUpdate(self *Instance, newProps Props, newState State) bool
	// WillUpdate runs after ShouldUpdate passes, before the new props and
	// state commit.
	WillUpdate(self *Instance, newProps Props, newState State)
	// DidUpdate runs after an update pass's children have committed.
	DidUpdate(self *Instance, oldProps Props, oldState State)
	// WillUnmount runs before the instance's children unmount.
	WillUnmount(self *Instance)
	// Config returns the component's value configuration.
	Config() Config
}

// Config is a component's value configuration.
type Config struct {
	// DefaultProps fills in props absent from the element on every mount
	// and update.
	DefaultProps Props
	// DerivedState derives a partial state from the candidate props and
	// state on every mount and update, before ShouldUpdate. It must be
	// pure; a nil result means no derived state. The partial is
	// shallow-merged over the candidate state.
	DerivedState func(props Props, state State) State
}

// ComponentBase provides no-op defaults for every Component method except
// Render. Embed it in your component struct:
//
//	type counter struct {
//	    core.ComponentBase
//	}
type ComponentBase struct{}

// Init is a no-op default implementation.
func (ComponentBase) Init(*Instance) {}

// DidMount is a no-op default implementation.
func (ComponentBase) DidMount(*Instance) {}

// ShouldUpdate always allows the update pass.
func (ComponentBase) ShouldUpdate(*Instance, Props, State) bool { return true }

// WillUpdate is a no-op default implementation.
func (ComponentBase) WillUpdate(*Instance, Props, State) {}

// DidUpdate is a no-op default implementation.
func (ComponentBase) DidUpdate(*Instance, Props, State) {}

// WillUnmount is a no-op default implementation.
func (ComponentBase) WillUnmount(*Instance) {}

// Config returns an empty configuration.
func (ComponentBase) Config() Config { return Config{} }
