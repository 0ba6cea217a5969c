// Package vtest provides testing helpers for myui components.
//
// A Harness mounts a component into a fresh document with its own event
// loop and runtime, drives it with DOM events and drains the loop after
// each step so that state updates and effects have settled:
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Mount(vdom.C(Counter, nil))
//	    h.Click(h.ByID("inc"))
//	    vtest.ExpectContains(t, h, "Count: 1")
//	}
//
// # Render Assertions
//
// Assertions run against the serialized body HTML:
//
//	vtest.ExpectElement(t, h, "button")
//	vtest.ExpectAttribute(t, h, "class", "student-card")
//	vtest.ExpectNotContains(t, h, "Loading")
//
// For a one-off render without a harness use RenderToString.
package vtest
