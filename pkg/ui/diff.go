package ui

import (
	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/vdom"
)

// reconcile brings the span of prev at offset at in parent to next and returns
// the new span.
func (r *Runtime) reconcile(parent *dom.Node, at int, prev, next *vdom.VNode, path string) (int, error) {
	switch {
	case prev == nil && next == nil:
		return 0, nil
	case prev == nil:
		return r.mountAt(parent, at, next, path)
	case next == nil:
		r.unmountAt(parent, at, prev, path)
		return 0, nil
	case !vdom.Compatible(prev, next):
		return r.replace(parent, at, prev, next, path)
	}

	switch next.Kind {
	case vdom.KindText:
		if node := parent.ChildAt(at); node != nil && node.Text() != next.Text {
			node.SetText(next.Text)
		}
		return 1, nil

	case vdom.KindElement:
		node := parent.ChildAt(at)
		r.updateProps(node, prev.Props, next.Props)
		if _, err := r.reconcileChildren(node, 0, prev.Children, next.Children, path); err != nil {
			return 1, err
		}
		return 1, nil

	case vdom.KindFragment:
		return r.reconcileChildren(parent, at, prev.Children, next.Children, path)

	case vdom.KindComponent:
		id := componentID(path, next)
		last, ok := r.rendered[id]
		if !ok {
			// Rendered elsewhere under another identity; start over.
			return r.replace(parent, at, prev, next, path)
		}
		out := r.renderComponent(next, id)
		return r.reconcile(parent, at, last, out, id)
	}
	return 0, unsupportedType(next)
}

// replace disposes prev, materializes next in its place and removes the
// nodes prev occupied.
func (r *Runtime) replace(parent *dom.Node, at int, prev, next *vdom.VNode, path string) (int, error) {
	n := r.span(prev, path)
	r.dispose(prev, path)
	span, err := r.mountAt(parent, at, next, path)
	if err != nil {
		r.removeNodes(parent, at, n)
		return 0, err
	}
	r.removeNodes(parent, at+span, n)
	r.metrics.addReplaces(1)
	return span, nil
}

// reconcileChildren reconciles child lists whose live nodes start at offset
// at in parent and returns the new total span.
func (r *Runtime) reconcileChildren(parent *dom.Node, at int, olds, news []*vdom.VNode, path string) (int, error) {
	if hasKeys(olds) || hasKeys(news) {
		return r.reconcileKeyed(parent, at, olds, news, path)
	}

	oldPaths := childPaths(path, olds)
	newPaths := childPaths(path, news)
	pos := at
	for i := 0; i < len(olds) || i < len(news); i++ {
		var o, n *vdom.VNode
		var p string
		if i < len(olds) {
			o, p = norm(olds[i]), oldPaths[i]
		}
		if i < len(news) {
			n, p = norm(news[i]), newPaths[i]
		}
		s, err := r.reconcile(parent, pos, o, n, p)
		if err != nil {
			return pos - at, err
		}
		pos += s
	}
	return pos - at, nil
}

// reconcileKeyed matches children by identity path (key, or ordinal among
// unkeyed siblings), removes unmatched old children, then walks the new list
// moving matched spans into place and mounting the rest.
func (r *Runtime) reconcileKeyed(parent *dom.Node, at int, olds, news []*vdom.VNode, path string) (int, error) {
	oldPaths := childPaths(path, olds)
	newPaths := childPaths(path, news)

	type oldChild struct {
		desc  *vdom.VNode
		path  string
		nodes []*dom.Node
		used  bool
	}
	byPath := make(map[string]*oldChild, len(olds))
	ordered := make([]*oldChild, len(olds))
	pos := at
	for i, o := range olds {
		o = norm(o)
		n := r.span(o, oldPaths[i])
		oc := &oldChild{desc: o, path: oldPaths[i], nodes: nodesAt(parent, pos, n)}
		byPath[oldPaths[i]] = oc
		ordered[i] = oc
		pos += n
	}

	for _, p := range newPaths {
		if oc, ok := byPath[p]; ok {
			oc.used = true
		}
	}
	for _, oc := range ordered {
		if oc.used {
			continue
		}
		r.dispose(oc.desc, oc.path)
		for _, node := range oc.nodes {
			r.forget(node)
			parent.RemoveChild(node)
		}
		r.metrics.addUnmounts(1)
	}

	pos = at
	for j, n := range news {
		n = norm(n)
		oc, ok := byPath[newPaths[j]]
		if !ok {
			s, err := r.mountAt(parent, pos, n, newPaths[j])
			if err != nil {
				return pos - at, err
			}
			pos += s
			continue
		}
		start := pos
		for _, node := range oc.nodes {
			if parent.ChildAt(pos) != node {
				parent.InsertBefore(node, parent.ChildAt(pos))
				r.metrics.addMoves(1)
			}
			pos++
		}
		s, err := r.reconcile(parent, start, oc.desc, n, newPaths[j])
		if err != nil {
			return start - at, err
		}
		pos = start + s
	}
	return pos - at, nil
}

func hasKeys(children []*vdom.VNode) bool {
	for _, c := range children {
		if c != nil && c.Key != "" {
			return true
		}
	}
	return false
}
