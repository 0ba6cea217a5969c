package ui

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/vdom"
)

// updateProps brings node from prev to next: props absent from next are
// removed first, then changed props are applied in key order.
func (r *Runtime) updateProps(node *dom.Node, prev, next vdom.Props) {
	for _, k := range sortedKeys(prev) {
		if _, ok := next[k]; !ok {
			r.removeProp(node, k, prev[k])
		}
	}
	for _, k := range sortedKeys(next) {
		old, had := prev[k]
		r.applyProp(node, k, old, had, next[k])
	}
}

func (r *Runtime) applyProp(node *dom.Node, key string, old any, had bool, v any) {
	switch val := v.(type) {
	case vdom.EventHandler:
		if had {
			if _, ok := old.(vdom.EventHandler); !ok {
				r.removeProp(node, key, old)
			}
		}
		r.bind(node, val.Event, val.Handler)

	case vdom.Style:
		prevStyle, _ := old.(vdom.Style)
		if had && prevStyle == nil {
			r.removeProp(node, key, old)
		}
		for _, k := range sortedStyleKeys(prevStyle) {
			if _, ok := val[k]; !ok {
				node.RemoveStyle(k)
			}
		}
		for _, k := range sortedStyleKeys(val) {
			node.SetStyle(k, val[k])
		}

	default:
		if had {
			switch old.(type) {
			case vdom.EventHandler, vdom.Style:
				r.removeProp(node, key, old)
			}
		}
		if v == nil || v == false {
			node.RemoveAttribute(key)
			return
		}
		if had && propsEqual(old, v) && node.HasAttribute(key) {
			return
		}
		node.SetAttribute(key, propToString(v))
	}
}

func (r *Runtime) removeProp(node *dom.Node, key string, old any) {
	switch val := old.(type) {
	case vdom.EventHandler:
		r.unbind(node, val.Event)
	case vdom.Style:
		for _, k := range sortedStyleKeys(val) {
			node.RemoveStyle(k)
		}
	default:
		node.RemoveAttribute(key)
	}
}

// bind points the node's listener for event at fn. The first bind installs
// one DOM listener that calls the current binding, so later binds only swap
// the function.
func (r *Runtime) bind(node *dom.Node, event string, fn dom.Listener) {
	m := r.bindings[node]
	if m == nil {
		m = make(map[string]*binding)
		r.bindings[node] = m
	}
	if b, ok := m[event]; ok {
		b.fn = fn
		return
	}
	b := &binding{fn: fn}
	b.id = node.AddEventListener(event, func(e *dom.Event) {
		if b.fn != nil {
			b.fn(e)
		}
	})
	m[event] = b
}

func (r *Runtime) unbind(node *dom.Node, event string) {
	m := r.bindings[node]
	b, ok := m[event]
	if !ok {
		return
	}
	node.RemoveEventListener(event, b.id)
	delete(m, event)
	if len(m) == 0 {
		delete(r.bindings, node)
	}
}

// forget drops the listener bindings of node and its descendants.
func (r *Runtime) forget(node *dom.Node) {
	delete(r.bindings, node)
	for _, c := range node.ChildNodes() {
		r.forget(c)
	}
}

// BoundEvents returns the events the runtime has bound on node, sorted.
func (r *Runtime) BoundEvents(node *dom.Node) []string {
	m := r.bindings[node]
	out := make([]string, 0, len(m))
	for ev := range m {
		out = append(out, ev)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(p vdom.Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		if k == "children" || k == "key" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStyleKeys(s vdom.Style) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// propsEqual compares two attribute values.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// propToString converts an attribute value to its string form.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
