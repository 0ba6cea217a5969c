// Package vdom provides element descriptors for myui.
//
// A VNode describes UI intent: an element with props and children, a text
// leaf, a fragment grouping children, or a function component. Descriptors are
// built fresh on every render pass and never mutated afterwards; the ui
// package materializes them into dom nodes and reconciles successive trees.
//
// # Building descriptors
//
// H is the generic constructor:
//
//	H("div", Props{"class": "card", "onClick": func() { ... }},
//	    H("h1", nil, "Title"),
//	    items,
//	)
//
// The element helpers take the same arguments in variadic form:
//
//	Div(Class("card"), OnClick(handler),
//	    H1(Text("Title")),
//	    Range(students, StudentRow),
//	)
//
// # Tagged props
//
// Element props are classified when the descriptor is built. Event handlers
// become EventHandler values stored under "on"+event, style mappings become
// Style values, and everything else is a plain attribute. The "key" prop is
// moved to VNode.Key and "children" is never stored as a prop.
package vdom
