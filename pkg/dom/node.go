package dom

import (
	"fmt"
	"sort"
	"strings"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota + 1 // <div>, <input>, etc.
	TextNode                         // Character data
	FragmentNode                     // Grouping container, never attached
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case FragmentNode:
		return "fragment"
	default:
		return "unknown"
	}
}

// HierarchyError reports an invalid tree operation. Node methods panic with
// it, mirroring the DOM's HierarchyRequestError.
type HierarchyError struct {
	Op  string
	Msg string
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("dom: %s: %s", e.Op, e.Msg)
}

// Node is a live platform node.
type Node struct {
	id   uint64
	doc  *Document
	typ  NodeType
	tag  string
	text string

	attrs map[string]string
	style map[string]string
	value *string

	parent   *Node
	children []*Node

	listeners  map[string][]listenerEntry
	listenerID ListenerID
}

// ID returns the document-unique node id.
func (n *Node) ID() uint64 { return n.id }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the lower-cased tag name of an element, or "".
func (n *Node) Tag() string { return n.tag }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// ChildNodes returns a copy of the child list.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the i-th child, or nil when i is out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.ChildAt(0) }

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.ChildAt(n.parent.IndexOf(n) + 1)
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// IsConnected reports whether n is attached to its document's body.
func (n *Node) IsConnected() bool {
	return n.doc != nil && n.doc.body.Contains(n)
}

// Text returns the character data of a text node.
func (n *Node) Text() string { return n.text }

// SetText replaces the character data of a text node.
func (n *Node) SetText(s string) {
	if n.typ != TextNode {
		panic(&HierarchyError{Op: "SetText", Msg: "not a text node"})
	}
	if n.text == s {
		return
	}
	n.text = s
	n.record(Mutation{Op: OpText, Node: n.id, Value: s})
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.typ == TextNode {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// SetTextContent replaces all children of an element with a single text node.
func (n *Node) SetTextContent(s string) {
	if n.typ == TextNode {
		n.SetText(s)
		return
	}
	n.Clear()
	if s != "" {
		n.AppendChild(n.doc.CreateTextNode(s))
	}
}

// =============================================================================
// Attributes, style and value
// =============================================================================

// Attr returns an attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

// SetAttribute sets an attribute. Setting an identical value is a no-op.
func (n *Node) SetAttribute(name, value string) {
	n.mustElement("SetAttribute")
	if old, ok := n.attrs[name]; ok && old == value {
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	if name == "value" {
		n.value = nil
	}
	n.record(Mutation{Op: OpAttr, Node: n.id, Name: name, Value: value})
}

// RemoveAttribute removes an attribute if present.
func (n *Node) RemoveAttribute(name string) {
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	n.record(Mutation{Op: OpRemoveAttr, Node: n.id, Name: name})
}

// Attributes returns a copy of the attribute map.
func (n *Node) Attributes() map[string]string {
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// Style returns an inline style property.
func (n *Node) Style(prop string) string { return n.style[prop] }

// StyleMap returns a copy of the inline style.
func (n *Node) StyleMap() map[string]string {
	out := make(map[string]string, len(n.style))
	for k, v := range n.style {
		out[k] = v
	}
	return out
}

// SetStyle sets an inline style property.
func (n *Node) SetStyle(prop, value string) {
	n.mustElement("SetStyle")
	if old, ok := n.style[prop]; ok && old == value {
		return
	}
	if n.style == nil {
		n.style = make(map[string]string)
	}
	n.style[prop] = value
	n.record(Mutation{Op: OpStyle, Node: n.id, Name: prop, Value: value})
}

// RemoveStyle removes an inline style property.
func (n *Node) RemoveStyle(prop string) {
	if _, ok := n.style[prop]; !ok {
		return
	}
	delete(n.style, prop)
	n.record(Mutation{Op: OpRemoveStyle, Node: n.id, Name: prop})
}

// Value returns the value property of a form control. It reflects the value
// attribute until SetValue is called and again after the attribute changes.
func (n *Node) Value() string {
	if n.value != nil {
		return *n.value
	}
	return n.attrs["value"]
}

// SetValue sets the value property, as user input does. It is not journaled.
func (n *Node) SetValue(v string) {
	n.value = &v
}

func (n *Node) mustElement(op string) {
	if n.typ != ElementNode {
		panic(&HierarchyError{Op: op, Msg: "not an element"})
	}
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// Tree mutation
// =============================================================================

// AppendChild appends child (or a fragment's children) to n.
func (n *Node) AppendChild(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref, or appends when ref is nil.
// Inserting a fragment moves its children and leaves it empty.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if n.typ == TextNode {
		panic(&HierarchyError{Op: "InsertBefore", Msg: "text nodes cannot have children"})
	}
	if ref != nil && ref.parent != n {
		panic(&HierarchyError{Op: "InsertBefore", Msg: "reference node is not a child"})
	}
	if child.typ == FragmentNode {
		moved := child.children
		child.children = nil
		for _, c := range moved {
			c.parent = nil
			n.insertOne(c, ref)
		}
		return child
	}
	if child.Contains(n) {
		panic(&HierarchyError{Op: "InsertBefore", Msg: "node would contain itself"})
	}
	if ref == child {
		ref = child.NextSibling()
	}
	n.insertOne(child, ref)
	return child
}

func (n *Node) insertOne(child, ref *Node) {
	wasConnected := child.IsConnected()
	if child.parent != nil {
		child.parent.unlink(child)
	}

	idx := len(n.children)
	if ref != nil {
		idx = n.IndexOf(ref)
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n

	nowConnected := n.IsConnected()
	var before uint64
	if ref != nil {
		before = ref.id
	}
	switch {
	case wasConnected && nowConnected:
		n.record(Mutation{Op: OpMove, Node: child.id, Parent: n.id, Before: before})
	case !wasConnected && nowConnected:
		n.doc.index(child)
		n.record(Mutation{Op: OpInsert, Node: child.id, Parent: n.id, Before: before, Tree: child.Snapshot()})
	case wasConnected && !nowConnected:
		n.doc.unindex(child)
		n.doc.append(Mutation{Op: OpRemove, Node: child.id})
	}
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) *Node {
	if child.parent != n {
		panic(&HierarchyError{Op: "RemoveChild", Msg: "node is not a child"})
	}
	wasConnected := child.IsConnected()
	n.unlink(child)
	if wasConnected {
		n.doc.unindex(child)
		n.doc.append(Mutation{Op: OpRemove, Node: child.id})
	}
	return child
}

// ReplaceChild puts newChild in old's position and detaches old.
func (n *Node) ReplaceChild(newChild, old *Node) *Node {
	if old.parent != n {
		panic(&HierarchyError{Op: "ReplaceChild", Msg: "node is not a child"})
	}
	n.InsertBefore(newChild, old)
	return n.RemoveChild(old)
}

// Clear removes all children.
func (n *Node) Clear() {
	for len(n.children) > 0 {
		n.RemoveChild(n.children[len(n.children)-1])
	}
}

func (n *Node) unlink(child *Node) {
	if i := n.IndexOf(child); i >= 0 {
		n.children = append(n.children[:i], n.children[i+1:]...)
	}
	child.parent = nil
}

// record journals m if n is connected.
func (n *Node) record(m Mutation) {
	if n.doc == nil || !n.doc.recording || !n.IsConnected() {
		return
	}
	n.doc.append(m)
}
