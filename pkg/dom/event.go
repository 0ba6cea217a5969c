package dom

// Event is dispatched to a target node and bubbles to its ancestors.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Bubbles       bool

	// Key is the key name of keyboard events.
	Key string

	defaultPrevented bool
	stopped          bool
}

// NewEvent returns a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles a dispatched event.
type Listener func(*Event)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// AddEventListener registers fn for events of type typ and returns a handle
// for RemoveEventListener.
func (n *Node) AddEventListener(typ string, fn Listener) ListenerID {
	if n.listeners == nil {
		n.listeners = make(map[string][]listenerEntry)
	}
	n.listenerID++
	first := len(n.listeners[typ]) == 0
	n.listeners[typ] = append(n.listeners[typ], listenerEntry{id: n.listenerID, fn: fn})
	if first {
		n.record(Mutation{Op: OpListen, Node: n.id, Name: typ})
	}
	return n.listenerID
}

// RemoveEventListener unregisters a listener. Unknown handles are ignored.
func (n *Node) RemoveEventListener(typ string, id ListenerID) {
	entries := n.listeners[typ]
	for i, e := range entries {
		if e.id != id {
			continue
		}
		entries = append(entries[:i:i], entries[i+1:]...)
		if len(entries) == 0 {
			delete(n.listeners, typ)
			n.record(Mutation{Op: OpUnlisten, Node: n.id, Name: typ})
		} else {
			n.listeners[typ] = entries
		}
		return
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int { return len(n.listeners[typ]) }

// EventTypes returns the sorted event types n listens for.
func (n *Node) EventTypes() []string {
	if len(n.listeners) == 0 {
		return nil
	}
	m := make(map[string]string, len(n.listeners))
	for k := range n.listeners {
		m[k] = ""
	}
	return sortedKeys(m)
}

// DispatchEvent delivers e to n and, if it bubbles, to each ancestor until
// propagation is stopped. It reports whether the default action is allowed.
func (n *Node) DispatchEvent(e *Event) bool {
	e.Target = n
	for cur := n; cur != nil; cur = cur.parent {
		entries := cur.listeners[e.Type]
		if len(entries) > 0 {
			e.CurrentTarget = cur
			snapshot := make([]listenerEntry, len(entries))
			copy(snapshot, entries)
			for _, l := range snapshot {
				l.fn(e)
			}
		}
		if e.stopped || !e.Bubbles {
			break
		}
	}
	e.CurrentTarget = nil
	return !e.defaultPrevented
}
