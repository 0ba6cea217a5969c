package hooks

import "reflect"

// Cleanup undoes an effect. A nil Cleanup is allowed.
type Cleanup func()

type effectRecord struct {
	deps    []any
	hasDeps bool
	cleanup Cleanup
}

// UseEffect runs fn during the render on the first call and whenever an
// element of deps differs from the previous call's element at the same
// position, after running the previous cleanup. A nil deps slice runs fn on
// every render.
func UseEffect(fn func() Cleanup, deps []any) {
	f := mustFrame("UseEffect")
	s := f.next(HookEffect)
	rec, _ := s.value.(*effectRecord)
	if rec != nil && deps != nil && rec.hasDeps && !depsChanged(rec.deps, deps) {
		return
	}
	if rec == nil {
		rec = &effectRecord{}
		s.value = rec
	}
	if rec.cleanup != nil {
		cleanup := rec.cleanup
		rec.cleanup = nil
		cleanup()
	}
	rec.hasDeps = deps != nil
	rec.deps = append([]any(nil), deps...)
	rec.cleanup = fn()
}

// depsChanged compares next against prev position by position. A position
// prev does not have counts as changed; trailing prev entries are ignored.
func depsChanged(prev, next []any) bool {
	for i, d := range next {
		if i >= len(prev) || !depEqual(prev[i], d) {
			return true
		}
	}
	return false
}

// depEqual compares comparable values with == and reference types by
// identity. Functions never compare equal.
func depEqual(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Func:
		return false
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if !ta.Comparable() {
		return false
	}
	// Interface fields holding uncomparable values panic on ==.
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
