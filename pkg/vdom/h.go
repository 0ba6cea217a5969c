package vdom

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/myui-dev/myui/pkg/dom"
)

// H builds a descriptor. typ is a tag name, FragmentType, a Component (or a
// func(Props) *VNode / func() *VNode); any other value yields a KindInvalid
// descriptor. props may be nil and is never retained. Children are flattened
// from nested []*VNode and []any; non-descriptor children become text leaves
// and nil children become empty text leaves.
func H(typ any, props Props, children ...any) *VNode {
	kids := flatten(make([]*VNode, 0, len(children)), children)

	switch t := typ.(type) {
	case string:
		node := &VNode{Kind: KindElement, Tag: strings.ToLower(t), Props: make(Props, len(props)), Children: kids}
		for k, v := range props {
			setProp(node, k, v)
		}
		return node

	case FragmentMarker:
		return &VNode{Kind: KindFragment, Children: kids}

	case Component:
		return component(t, funcName(t), props, kids)

	case func(Props) *VNode:
		return component(Component(t), funcName(t), props, kids)

	case func() *VNode:
		return component(func(Props) *VNode { return t() }, funcName(t), props, kids)

	default:
		return &VNode{Kind: KindInvalid, Type: typ, Props: props.Clone(), Children: kids}
	}
}

func component(c Component, name string, props Props, kids []*VNode) *VNode {
	node := &VNode{Kind: KindComponent, Comp: c, Name: name, Props: make(Props, len(props)), Children: kids}
	for k, v := range props {
		switch k {
		case "key":
			node.Key = keyString(v)
		case "children":
		default:
			node.Props[k] = v
		}
	}
	return node
}

// setProp stores one element prop, classifying it.
func setProp(node *VNode, k string, v any) {
	switch val := v.(type) {
	case EventHandler:
		node.Props[val.PropKey()] = val
		return
	case Style:
		node.Props["style"] = val
		return
	}

	switch {
	case k == "key":
		node.Key = keyString(v)
	case k == "children":
	case isEventProp(k):
		if l, ok := toListener(v); ok {
			h := EventHandler{Event: strings.ToLower(k[2:]), Handler: l}
			node.Props[h.PropKey()] = h
			return
		}
		node.Props[k] = v
	case k == "style":
		if s, ok := toStyle(v); ok {
			node.Props[k] = s
			return
		}
		node.Props[k] = v
	default:
		node.Props[k] = v
	}
}

// isEventProp matches "on" followed by an upper-case letter.
func isEventProp(k string) bool {
	if len(k) < 3 || !strings.HasPrefix(k, "on") {
		return false
	}
	return unicode.IsUpper(rune(k[2]))
}

// toListener adapts the accepted handler shapes to a dom.Listener.
func toListener(v any) (dom.Listener, bool) {
	switch fn := v.(type) {
	case dom.Listener:
		return fn, fn != nil
	case func(*dom.Event):
		return fn, fn != nil
	case func():
		if fn == nil {
			return nil, false
		}
		return func(*dom.Event) { fn() }, true
	case func(string):
		if fn == nil {
			return nil, false
		}
		return func(e *dom.Event) { fn(e.Target.Value()) }, true
	}
	return nil, false
}

func toStyle(v any) (Style, bool) {
	switch m := v.(type) {
	case map[string]string:
		return Style(m).clone(), true
	case map[string]any:
		s := make(Style, len(m))
		for k, x := range m {
			s[k] = stringify(x)
		}
		return s, true
	}
	return nil, false
}

func (s Style) clone() Style {
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func keyString(v any) string {
	if v == nil {
		return ""
	}
	return stringify(v)
}

// flatten appends children to dst, recursing into nested sequences.
func flatten(dst []*VNode, children []any) []*VNode {
	for _, c := range children {
		dst = appendChild(dst, c)
	}
	return dst
}

func appendChild(dst []*VNode, c any) []*VNode {
	switch v := c.(type) {
	case nil:
		return append(dst, Text(""))
	case *VNode:
		if v == nil {
			return append(dst, Text(""))
		}
		return append(dst, v)
	case []*VNode:
		for _, n := range v {
			dst = appendChild(dst, n)
		}
		return dst
	case []any:
		return flatten(dst, v)
	default:
		return append(dst, Text(stringify(v)))
	}
}

// stringify converts a leaf value to its text form.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}
