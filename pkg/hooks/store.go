package hooks

import (
	"sort"
	"sync"
)

// DebugMode enables hook order validation.
var DebugMode bool

// HookType identifies the kind of hook occupying a slot.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookEffect
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookState:
		return "State"
	case HookEffect:
		return "Effect"
	default:
		return "Unknown"
	}
}

type slot struct {
	kind  HookType
	value any
}

// Instance is the hook record of one component identity.
type Instance struct {
	id      string
	slots   []slot
	renders int
}

// ID returns the component identity.
func (i *Instance) ID() string { return i.id }

// Renders returns how many renders have completed.
func (i *Instance) Renders() int { return i.renders }

// Store maps component identities to their hook records.
//
// Hook slots are read and written only by the rendering goroutine; the
// identity index is guarded so Len, Has and IDs may be called from others.
type Store struct {
	mu        sync.Mutex
	instances map[string]*Instance
	scheduler func()
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{instances: make(map[string]*Instance)}
}

// SetScheduler sets the function setters call to request a re-render.
func (s *Store) SetScheduler(fn func()) {
	s.mu.Lock()
	s.scheduler = fn
	s.mu.Unlock()
}

func (s *Store) schedule() {
	s.mu.Lock()
	fn := s.scheduler
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Store) instance(id string) *Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		inst = &Instance{id: id}
		s.instances[id] = inst
	}
	return inst
}

// Lookup returns the instance for id, if any.
func (s *Store) Lookup(id string) (*Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	return inst, ok
}

// Has reports whether id has a hook record.
func (s *Store) Has(id string) bool {
	_, ok := s.Lookup(id)
	return ok
}

// Len returns the number of hook records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

// IDs returns the sorted identities with hook records.
func (s *Store) IDs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// Dispose runs the effect cleanups of id in reverse slot order and forgets
// the record. Disposing an unknown id is a no-op.
func (s *Store) Dispose(id string) {
	s.mu.Lock()
	inst, ok := s.instances[id]
	delete(s.instances, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	for i := len(inst.slots) - 1; i >= 0; i-- {
		if rec, ok := inst.slots[i].value.(*effectRecord); ok && rec.cleanup != nil {
			cleanup := rec.cleanup
			rec.cleanup = nil
			cleanup()
		}
	}
}

// Run renders fn as component identity id: it pushes a render frame on the
// calling goroutine, calls fn and pops the frame, also when fn panics.
func Run[T any](s *Store, id string, fn func() T) T {
	f := &frame{store: s, inst: s.instance(id)}
	pushFrame(f)
	defer popFrame()
	out := fn()
	f.finish()
	return out
}
