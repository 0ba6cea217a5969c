// Package myui provides the public API for the myui rendering framework.
//
// It re-exports the descriptor builder and hooks and owns a process-wide
// default Runtime with its own document and event loop:
//
//	counter := func(p myui.Props) *myui.VNode {
//	    n, set := myui.UseState(0)
//	    return vdom.Button(vdom.OnClick(func() { set.Update(inc) }), vdom.Textf("%d", n))
//	}
//	myui.Mount(myui.H(counter, nil), myui.Body())
//
// Setters of the default runtime request re-renders through the
// ScheduleRerender slot, and OnAfterRender registers the function called
// after each batched pass. Both are integration points for the host.
package myui

import (
	"sync"

	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/hooks"
	"github.com/myui-dev/myui/pkg/loop"
	"github.com/myui-dev/myui/pkg/ui"
	"github.com/myui-dev/myui/pkg/vdom"
)

// =============================================================================
// Descriptors
// =============================================================================

type (
	VNode     = vdom.VNode
	Props     = vdom.Props
	Component = vdom.Component
	Style     = vdom.Style
	Cleanup   = hooks.Cleanup
	Binder    = hooks.Binder
)

// H builds an element descriptor. See vdom.H.
var H = vdom.H

// Fragment groups children without a wrapper element.
var Fragment = vdom.Fragment

// Text creates a text leaf.
var Text = vdom.Text

// FragmentType is the fragment marker accepted by H.
var FragmentType = vdom.FragmentType

// =============================================================================
// Hooks
// =============================================================================

// UseState returns component-local state. See hooks.UseState.
func UseState[T any](initial T) (T, hooks.Setter[T]) {
	return hooks.UseState(initial)
}

// UseStateFunc is UseState with lazy initialization.
func UseStateFunc[T any](init func() T) (T, hooks.Setter[T]) {
	return hooks.UseStateFunc(init)
}

// UseEffect runs an effect when its deps change. See hooks.UseEffect.
var UseEffect = hooks.UseEffect

// UseModel two-way binds a string state. See hooks.UseModel.
var UseModel = hooks.UseModel

// =============================================================================
// Default runtime and global slots
// =============================================================================

var (
	mu           sync.Mutex
	defaultRT    *ui.Runtime
	scheduleHook func()
)

// Default returns the process-wide runtime, creating it on first use.
func Default() *ui.Runtime {
	mu.Lock()
	defer mu.Unlock()
	if defaultRT == nil {
		defaultRT = ui.New(dom.NewDocument(), loop.New())
		defaultRT.Store().SetScheduler(ScheduleRerender)
	}
	return defaultRT
}

// SetDefault replaces the process-wide runtime. Its setters are routed
// through ScheduleRerender. A nil rt drops the current one so the next call
// to Default creates a fresh runtime.
func SetDefault(rt *ui.Runtime) {
	if rt != nil {
		rt.Store().SetScheduler(ScheduleRerender)
	}
	mu.Lock()
	defaultRT = rt
	mu.Unlock()
}

// ScheduleRerender requests a batched re-render. It calls the function set
// with SetScheduleRerender, or the default runtime's ScheduleRerender.
func ScheduleRerender() {
	mu.Lock()
	fn := scheduleHook
	mu.Unlock()
	if fn != nil {
		fn()
		return
	}
	Default().ScheduleRerender()
}

// SetScheduleRerender overrides the re-render slot. nil restores the default.
func SetScheduleRerender(fn func()) {
	mu.Lock()
	scheduleHook = fn
	mu.Unlock()
}

// OnAfterRender sets the function called after each batched pass of the
// default runtime.
func OnAfterRender(fn func()) {
	Default().OnAfterRender(fn)
}

// Body returns the body of the default runtime's document.
func Body() *dom.Node {
	return Default().Document().Body()
}

// Mount renders desc into target from scratch.
func Mount(desc *VNode, target *dom.Node) error {
	return Default().Mount(desc, target)
}

// Render reconciles desc against the root mounted at target.
func Render(desc *VNode, target *dom.Node) error {
	return Default().Render(desc, target)
}

// Unmount tears down the root at target, running effect cleanups.
func Unmount(target *dom.Node) error {
	return Default().Unmount(target)
}

// Drain runs the default loop's pending tasks and microtasks.
func Drain() int {
	return Default().Loop().Drain()
}
