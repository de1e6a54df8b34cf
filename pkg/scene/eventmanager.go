package scene

// eventManager owns every event and property-changed connection the
// renderer makes for one host object. While reconciliation rewrites that
// object's properties the manager is suspended: handler invocations are
// queued instead of run, and Resume replays them in arrival order once
// the object is consistent again. Handlers swapped out during the
// suspension are dropped with their queued invocations.
type eventManager struct {
	object      *Object
	connections map[string]*Connection
	handlers    map[string]func(args ...any)
	suspended   bool
	queue       []queuedInvocation
}

type queuedInvocation struct {
	key  string
	args []any
}

func newEventManager(object *Object) *eventManager {
	return &eventManager{
		object:      object,
		connections: make(map[string]*Connection),
		handlers:    make(map[string]func(args ...any)),
	}
}

// changedPrefix namespaces property-changed listeners away from event
// listeners of the same name.
const changedPrefix = "changed:"

// connectEvent routes the named event to handler, replacing any previous
// handler for it.
func (m *eventManager) connectEvent(name string, handler func(args ...any)) error {
	sig := m.object.Event(name)
	if sig == nil {
		return m.object.propertyError(name, ErrUnknownEvent)
	}
	return m.connect(name, sig, handler)
}

// connectChanged routes the named property's changed signal to handler,
// replacing any previous handler for it.
func (m *eventManager) connectChanged(prop string, handler func(args ...any)) error {
	if !m.object.class.HasProperty(prop) {
		return m.object.propertyError(prop, ErrUnknownProperty)
	}
	return m.connect(changedPrefix+prop, m.object.Changed(prop), handler)
}

func (m *eventManager) connect(key string, sig *Signal, handler func(args ...any)) error {
	if conn, ok := m.connections[key]; ok {
		conn.Disconnect()
	}
	m.handlers[key] = handler
	m.connections[key] = sig.Connect(func(args ...any) {
		m.invoke(key, args)
	})
	return nil
}

// disconnectEvent removes the handler for the named event, if any.
func (m *eventManager) disconnectEvent(name string) {
	m.disconnect(name)
}

// disconnectChanged removes the handler for the named property, if any.
func (m *eventManager) disconnectChanged(prop string) {
	m.disconnect(changedPrefix + prop)
}

func (m *eventManager) disconnect(key string) {
	if conn, ok := m.connections[key]; ok {
		conn.Disconnect()
		delete(m.connections, key)
		delete(m.handlers, key)
	}
}

// disconnectAll removes every connection; used at unmount.
func (m *eventManager) disconnectAll() {
	for key, conn := range m.connections {
		conn.Disconnect()
		delete(m.connections, key)
		delete(m.handlers, key)
	}
	m.queue = nil
}

func (m *eventManager) invoke(key string, args []any) {
	if m.suspended {
		m.queue = append(m.queue, queuedInvocation{key: key, args: args})
		return
	}
	if handler, ok := m.handlers[key]; ok {
		handler(args...)
	}
}

// suspend queues handler invocations until resume.
func (m *eventManager) suspend() {
	m.suspended = true
}

// resume replays queued invocations in arrival order. Invocations whose
// handler was disconnected while suspended are dropped.
func (m *eventManager) resume() {
	m.suspended = false
	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		if handler, ok := m.handlers[next.key]; ok {
			handler(next.args...)
		}
	}
}
