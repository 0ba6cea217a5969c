package student

import (
	"context"
	"sync"
)

// MemoryStore keeps students in memory. It is the store used by tests and by
// the "memory" driver.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[int64]int // index into list
	list   []Student
	ids    *IDSource
	closed bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithIDSource replaces the id generator.
func WithIDSource(ids *IDSource) MemoryOption {
	return func(m *MemoryStore) {
		m.ids = ids
	}
}

// WithSeed preloads students. Their ids are kept as given.
func WithSeed(students ...Student) MemoryOption {
	return func(m *MemoryStore) {
		for _, s := range students {
			m.byID[s.ID] = len(m.list)
			m.list = append(m.list, s)
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		byID: make(map[int64]int),
		ids:  NewIDSource(nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, s := range m.list {
		m.ids.Observe(s.ID)
	}
	return m
}

func (m *MemoryStore) List(ctx context.Context) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]Student, len(m.list))
	copy(out, m.list)
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, id int64) (Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Student{}, ErrClosed
	}
	i, ok := m.byID[id]
	if !ok {
		return Student{}, ErrNotFound
	}
	return m.list[i], nil
}

func (m *MemoryStore) Create(ctx context.Context, s Student) (Student, error) {
	if err := s.Validate(); err != nil {
		return Student{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Student{}, ErrClosed
	}
	s.ID = m.ids.Next()
	m.byID[s.ID] = len(m.list)
	m.list = append(m.list, s)
	return s, nil
}

func (m *MemoryStore) Update(ctx context.Context, id int64, p Patch) (Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Student{}, ErrClosed
	}
	i, ok := m.byID[id]
	if !ok {
		return Student{}, ErrNotFound
	}
	s := p.Apply(m.list[i])
	if err := s.Validate(); err != nil {
		return Student{}, err
	}
	m.list[i] = s
	return s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	i, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.list = append(m.list[:i], m.list[i+1:]...)
	delete(m.byID, id)
	for j := i; j < len(m.list); j++ {
		m.byID[m.list[j].ID] = j
	}
	return nil
}

// Close marks the store closed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored students.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.list)
}

// Driver returns "memory".
func (m *MemoryStore) Driver() string { return "memory" }
