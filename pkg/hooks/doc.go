// Package hooks provides per-component state for myui function components.
//
// A Store maps component identities to Instances. Each Instance holds an
// ordered list of slots, one per hook call, indexed by call order within a
// render pass. Run pushes a render frame for an identity onto the calling
// goroutine's frame stack, so nested component renders each see their own
// instance and cursor.
//
//	count := hooks.Run(store, "root/0:Counter", func() *vdom.VNode {
//	    n, set := hooks.UseState(0)
//	    hooks.UseEffect(func() hooks.Cleanup {
//	        return func() { log.Println("bye") }
//	    }, []any{n})
//	    return vdom.Button(vdom.OnClick(func() { set.Update(inc) }), vdom.Textf("%d", n))
//	})
//
// Hooks must be called in the same order on every render of an identity.
// With DebugMode set, a changed order panics with an E002 error; otherwise a
// slot of the wrong kind or type is silently re-initialized.
package hooks
