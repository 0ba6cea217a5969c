package ui

import (
	"strconv"
	"time"

	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/vdom"
)

// Mount renders desc into target from scratch. A root already mounted at
// target is unmounted first and any other content of target is cleared.
func (r *Runtime) Mount(desc *vdom.VNode, target *dom.Node) error {
	if _, ok := r.roots[target]; ok {
		if err := r.Unmount(target); err != nil {
			return err
		}
	}
	for target.ChildCount() > 0 {
		r.removeNodes(target, 0, 1)
	}

	r.rootSeq++
	rt := &root{target: target, desc: norm(desc), prefix: "r" + strconv.Itoa(r.rootSeq)}
	if _, err := r.mountAt(target, 0, rt.desc, rt.prefix); err != nil {
		return err
	}
	r.roots[target] = rt
	r.order = append(r.order, target)
	return nil
}

// Render reconciles desc against the descriptor stored for target, mounting
// when target has no root. A nil desc unmounts the root.
func (r *Runtime) Render(desc *vdom.VNode, target *dom.Node) error {
	rt, ok := r.roots[target]
	if !ok {
		if desc == nil {
			return nil
		}
		return r.Mount(desc, target)
	}
	if desc == nil {
		return r.Unmount(target)
	}
	if _, err := r.reconcile(target, 0, rt.desc, desc, rt.prefix); err != nil {
		return err
	}
	rt.desc = desc
	return nil
}

// Unmount runs the effect cleanups of every component rooted at target,
// removes the root's live nodes and forgets the entry.
func (r *Runtime) Unmount(target *dom.Node) error {
	rt, ok := r.roots[target]
	if !ok {
		return unknownRoot()
	}
	r.unmountAt(target, 0, rt.desc, rt.prefix)
	delete(r.roots, target)
	for i, t := range r.order {
		if t == target {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ScheduleRerender requests a re-render of every root. Calls before the
// pending pass runs collapse into one microtask.
func (r *Runtime) ScheduleRerender() {
	if !r.pending.CompareAndSwap(false, true) {
		return
	}
	r.loop.QueueMicrotask(r.flush)
}

// Pending reports whether a pass is scheduled.
func (r *Runtime) Pending() bool { return r.pending.Load() }

// flush re-renders every root in mount order and then calls the after-render
// function. A render error aborts the pass.
func (r *Runtime) flush() {
	r.pending.Store(false)
	start := time.Now()
	for _, target := range r.Roots() {
		rt, ok := r.roots[target]
		if !ok {
			continue
		}
		if err := r.Render(rt.desc, target); err != nil {
			r.logger.Error("render pass aborted",
				"root", rt.prefix,
				"error", err)
			r.metrics.observePass(time.Since(start), err)
			return
		}
	}
	r.metrics.observePass(time.Since(start), nil)
	if fn := r.afterRender; fn != nil {
		fn()
	}
}
