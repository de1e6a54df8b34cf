// Package binding implements independently observable value cells.
//
// A Binding holds a single value and pushes changes synchronously to its
// subscribers, in registration order. Bindings live independently of any
// element tree: a renderer that finds a Binding among an element's
// properties subscribes a setter that writes each new value straight to
// the host object, with no tree reconciliation involved.
//
// Create returns a binding together with its setter:
//
//	value, setValue := binding.Create(10)
//	disconnect := value.Subscribe(func(v any) { fmt.Println(v) })
//	setValue(20) // prints 20
//	disconnect()
//
// Map derives a read-only binding that follows its source through a
// transform:
//
//	label := value.Map(func(v any) any {
//	    return fmt.Sprintf("%d points", v)
//	})
package binding

// Binding is a reactive value cell with subscribe, update, and map.
type Binding struct {
	value any
	// transform is applied to every incoming value before it is stored.
	// It is the identity for bindings made with Create and the map
	// function for derived bindings.
	transform func(any) any
	// subscribers in registration order. Notification iterates a snapshot
	// so a handler may subscribe, disconnect, or trigger further updates
	// without corrupting the walk.
	subscribers []*subscriber
	// upstreamDisconnect releases a derived binding's subscription to its
	// source. Consumed exactly once, when the last local subscriber
	// disconnects. Nil for bindings made with Create.
	upstreamDisconnect func()
}

type subscriber struct {
	handler func(any)
	active  bool
}

// Create returns a new binding holding initial, plus the setter that
// updates it. The setter is the only way to write a binding made here;
// derived bindings have no setter and follow their source instead.
func Create(initial any) (*Binding, func(any)) {
	b := &Binding{value: initial}
	return b, b.update
}

// Value returns the binding's current value.
func (b *Binding) Value() any {
	return b.value
}

// update applies the binding's own transform, stores the result, and
// synchronously notifies all current subscribers in registration order.
// Handlers may re-enter update; each nested update runs to completion
// before the outer notification walk resumes.
func (b *Binding) update(value any) {
	if b.transform != nil {
		value = b.transform(value)
	}
	b.value = value

	snapshot := make([]*subscriber, len(b.subscribers))
	copy(snapshot, b.subscribers)
	for _, s := range snapshot {
		if s.active {
			s.handler(value)
		}
	}
}

// Subscribe registers handler to be called with every new value. The
// returned disconnect is idempotent: repeated calls have the effect of
// exactly one call. For a derived binding, the disconnect that removes
// the last local subscriber also tears down the upstream subscription,
// exactly once.
func (b *Binding) Subscribe(handler func(any)) func() {
	s := &subscriber{handler: handler, active: true}
	b.subscribers = append(b.subscribers, s)

	disconnected := false
	return func() {
		if disconnected {
			return
		}
		disconnected = true
		s.active = false
		b.removeSubscriber(s)
		if len(b.subscribers) == 0 && b.upstreamDisconnect != nil {
			teardown := b.upstreamDisconnect
			b.upstreamDisconnect = nil
			teardown()
		}
	}
}

// Map returns a derived binding whose value is transform applied to this
// binding's value, now and on every future change. The derived binding
// subscribes to its source immediately; that subscription is released
// when the derived binding's last local subscriber disconnects.
func (b *Binding) Map(transform func(any) any) *Binding {
	derived := &Binding{
		value:     transform(b.value),
		transform: transform,
	}
	derived.upstreamDisconnect = b.Subscribe(derived.update)
	return derived
}

func (b *Binding) removeSubscriber(target *subscriber) {
	for i, s := range b.subscribers {
		if s == target {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}
