package hooks

type stateCell[T any] struct {
	value T
}

// Setter updates a state slot and requests a re-render.
type Setter[T any] struct {
	cell  *stateCell[T]
	store *Store
}

// Set stores v exactly.
func (s Setter[T]) Set(v T) {
	s.cell.value = v
	s.store.schedule()
}

// Update stores f applied to the current value.
func (s Setter[T]) Update(f func(T) T) {
	s.cell.value = f(s.cell.value)
	s.store.schedule()
}

// Get returns the current value, including updates made since the render.
func (s Setter[T]) Get() T { return s.cell.value }

// UseState returns the slot's value, storing initial on first use.
func UseState[T any](initial T) (T, Setter[T]) {
	return useState("UseState", func() T { return initial })
}

// UseStateFunc is UseState with lazy initialization: init runs once.
func UseStateFunc[T any](init func() T) (T, Setter[T]) {
	return useState("UseStateFunc", init)
}

func useState[T any](hook string, init func() T) (T, Setter[T]) {
	f := mustFrame(hook)
	s := f.next(HookState)
	cell, ok := s.value.(*stateCell[T])
	if !ok {
		if s.value != nil && DebugMode {
			panic(orderError("state hook %d in %s changed type", f.cursor-1, f.inst.id))
		}
		cell = &stateCell[T]{value: init()}
		s.value = cell
	}
	return cell.value, Setter[T]{cell: cell, store: f.store}
}
