package hooks

import (
	"runtime"
	"sync"
)

// frame is the render context of one component invocation.
type frame struct {
	store  *Store
	inst   *Instance
	cursor int
}

// frameStacks stores per-goroutine frame stacks.
var frameStacks sync.Map

// getGoroutineID returns the current goroutine's id, parsed from the stack
// header "goroutine <id> ".
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func pushFrame(f *frame) {
	gid := getGoroutineID()
	v, _ := frameStacks.LoadOrStore(gid, &[]*frame{})
	stack := v.(*[]*frame)
	*stack = append(*stack, f)
}

func popFrame() {
	gid := getGoroutineID()
	v, ok := frameStacks.Load(gid)
	if !ok {
		return
	}
	stack := v.(*[]*frame)
	if n := len(*stack); n > 0 {
		(*stack)[n-1] = nil
		*stack = (*stack)[:n-1]
	}
	if len(*stack) == 0 {
		frameStacks.Delete(gid)
	}
}

func currentFrame() *frame {
	v, ok := frameStacks.Load(getGoroutineID())
	if !ok {
		return nil
	}
	stack := *v.(*[]*frame)
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// mustFrame returns the active frame or panics with an E001 error.
func mustFrame(hook string) *frame {
	f := currentFrame()
	if f == nil {
		panic(contextError(hook))
	}
	return f
}

// Active reports whether the calling goroutine is inside Run.
func Active() bool { return currentFrame() != nil }

// CurrentID returns the identity being rendered, or "".
func CurrentID() string {
	if f := currentFrame(); f != nil {
		return f.inst.id
	}
	return ""
}

// next advances the cursor and returns the slot for a hook of kind k.
func (f *frame) next(k HookType) *slot {
	idx := f.cursor
	f.cursor++
	inst := f.inst
	if idx == len(inst.slots) {
		if DebugMode && inst.renders > 0 {
			panic(orderError("extra %s hook at index %d in %s", k, idx, inst.id))
		}
		inst.slots = append(inst.slots, slot{kind: k})
	}
	s := &inst.slots[idx]
	if s.kind != k {
		if DebugMode {
			panic(orderError("hook %d in %s: expected %s, got %s", idx, inst.id, s.kind, k))
		}
		*s = slot{kind: k}
	}
	return s
}

// finish validates the hook count in debug mode and marks the render done.
func (f *frame) finish() {
	inst := f.inst
	if DebugMode && inst.renders > 0 && f.cursor < len(inst.slots) {
		panic(orderError("%s: expected %d hooks, got %d", inst.id, len(inst.slots), f.cursor))
	}
	inst.renders++
}
