package vdom

import "fmt"

// Text creates a text leaf.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text leaf.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	return H(FragmentType, nil, children...)
}

// C builds a component descriptor. It is shorthand for H(c, props, children...).
func C(c Component, props Props, children ...any) *VNode {
	return H(c, props, children...)
}

// If returns the node if condition is true, nil otherwise. A nil child still
// occupies its position as an empty text leaf.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps items to descriptors.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, i))
	}
	return out
}
