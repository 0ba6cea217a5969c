package vdom

import "strings"

// createElement creates a descriptor from variadic helper arguments.
// Arguments can be: nil, Attr, []Attr, EventHandler, Style, *VNode, []*VNode,
// []any, string or any other leaf value (rendered as text). Untyped nil is
// skipped so attributes can be conditional; a nil *VNode keeps its position.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      strings.ToLower(tag),
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if !v.IsEmpty() {
				setProp(node, v.Key, v.Value)
			}
		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					setProp(node, a.Key, a.Value)
				}
			}
		case EventHandler:
			setProp(node, v.PropKey(), v)
		case Style:
			setProp(node, "style", v)
		default:
			node.Children = appendChild(node.Children, v)
		}
	}

	return node
}

// El creates an element with an arbitrary tag.
func El(tag string, args ...any) *VNode { return createElement(tag, args) }

// Document structure

func Div(args ...any) *VNode     { return createElement("div", args) }
func Span(args ...any) *VNode    { return createElement("span", args) }
func P(args ...any) *VNode       { return createElement("p", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }
func Header(args ...any) *VNode  { return createElement("header", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Strong(args ...any) *VNode  { return createElement("strong", args) }
func Small(args ...any) *VNode   { return createElement("small", args) }
func A(args ...any) *VNode       { return createElement("a", args) }
func Br(args ...any) *VNode      { return createElement("br", args) }
func Hr(args ...any) *VNode      { return createElement("hr", args) }

// Lists and tables

func Ul(args ...any) *VNode    { return createElement("ul", args) }
func Ol(args ...any) *VNode    { return createElement("ol", args) }
func Li(args ...any) *VNode    { return createElement("li", args) }
func Table(args ...any) *VNode { return createElement("table", args) }
func Thead(args ...any) *VNode { return createElement("thead", args) }
func Tbody(args ...any) *VNode { return createElement("tbody", args) }
func Tr(args ...any) *VNode    { return createElement("tr", args) }
func Th(args ...any) *VNode    { return createElement("th", args) }
func Td(args ...any) *VNode    { return createElement("td", args) }

// Forms

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
