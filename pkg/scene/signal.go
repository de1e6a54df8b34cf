package scene

// Signal is a synchronous event source. Handlers run in connection order
// on the firing goroutine; the scene graph is single-threaded, so there
// is no locking here.
type Signal struct {
	connections []*Connection
}

// Connection is one active handler on a [Signal].
type Connection struct {
	signal  *Signal
	handler func(args ...any)
	alive   bool
}

// Connect registers handler and returns its connection.
func (s *Signal) Connect(handler func(args ...any)) *Connection {
	conn := &Connection{signal: s, handler: handler, alive: true}
	s.connections = append(s.connections, conn)
	return conn
}

// Fire invokes every connected handler with args. Handlers connected or
// disconnected by another handler during the same Fire are honored:
// the snapshot taken here still checks liveness per connection.
func (s *Signal) Fire(args ...any) {
	snapshot := make([]*Connection, len(s.connections))
	copy(snapshot, s.connections)
	for _, conn := range snapshot {
		if conn.alive {
			conn.handler(args...)
		}
	}
}

// Disconnect removes the connection's handler. Safe to call more than
// once; later calls do nothing.
func (c *Connection) Disconnect() {
	if !c.alive {
		return
	}
	c.alive = false
	for i, conn := range c.signal.connections {
		if conn == c {
			c.signal.connections = append(c.signal.connections[:i], c.signal.connections[i+1:]...)
			break
		}
	}
}

// Connected reports whether the connection is still active.
func (c *Connection) Connected() bool {
	return c.alive
}
