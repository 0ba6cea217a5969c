package live

import "sync"

// Hub fans out change notifications to subscribers. Sessions subscribe to
// reload their data when another session or the HTTP API changes it.
type Hub struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]subscriber
}

type subscriber struct {
	origin string
	fn     func()
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]subscriber)}
}

// Subscribe registers fn under origin. Publish from the same origin skips
// it. The returned function removes the subscription.
func (h *Hub) Subscribe(origin string, fn func()) (cancel func()) {
	h.mu.Lock()
	h.next++
	id := h.next
	h.subs[id] = subscriber{origin: origin, fn: fn}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish calls every subscriber whose origin differs from origin. An empty
// origin reaches everyone.
func (h *Hub) Publish(origin string) {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, s := range h.subs {
		if origin == "" || s.origin != origin {
			fns = append(fns, s.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Notify is Publish with no origin, for use as a plain callback.
func (h *Hub) Notify() { h.Publish("") }

// Len returns the number of subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
