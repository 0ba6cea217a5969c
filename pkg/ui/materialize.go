package ui

import (
	"strconv"
	"time"

	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/hooks"
	"github.com/myui-dev/myui/pkg/vdom"
)

var emptyText = vdom.Text("")

// norm maps an absent child to an empty text leaf.
func norm(v *vdom.VNode) *vdom.VNode {
	if v == nil {
		return emptyText
	}
	return v
}

// childPaths returns the identity path of each child. Keyed children use
// "#"+key (with a suffix for duplicates); unkeyed children use their ordinal
// among unkeyed siblings, which is their index when no sibling has a key.
func childPaths(parent string, children []*vdom.VNode) []string {
	paths := make([]string, len(children))
	unkeyed := 0
	var seen map[string]int
	for i, c := range children {
		if c == nil || c.Key == "" {
			paths[i] = parent + "/" + strconv.Itoa(unkeyed)
			unkeyed++
			continue
		}
		if seen == nil {
			seen = make(map[string]int)
		}
		seen[c.Key]++
		p := parent + "/#" + c.Key
		if n := seen[c.Key]; n > 1 {
			p += "#" + strconv.Itoa(n)
		}
		paths[i] = p
	}
	return paths
}

// componentID is the hook identity of a component descriptor at path.
func componentID(path string, desc *vdom.VNode) string {
	return path + ":" + vdom.ShortName(desc.Name)
}

// renderComponent invokes desc under its identity and records the output.
func (r *Runtime) renderComponent(desc *vdom.VNode, id string) *vdom.VNode {
	props := desc.Props.Clone()
	props["children"] = desc.Children

	start := time.Now()
	out := hooks.Run(r.store, id, func() *vdom.VNode { return desc.Comp(props) })
	r.metrics.observeComponent(time.Since(start))

	out = norm(out)
	r.rendered[id] = out
	return out
}

// build materializes desc at path into detached nodes.
func (r *Runtime) build(desc *vdom.VNode, path string) (*dom.Node, error) {
	desc = norm(desc)
	switch desc.Kind {
	case vdom.KindText:
		return r.doc.CreateTextNode(desc.Text), nil

	case vdom.KindElement:
		el := r.doc.CreateElement(desc.Tag)
		r.updateProps(el, nil, desc.Props)
		if err := r.buildChildren(el, desc.Children, path); err != nil {
			r.forget(el)
			return nil, err
		}
		return el, nil

	case vdom.KindFragment:
		frag := r.doc.CreateFragment()
		if err := r.buildChildren(frag, desc.Children, path); err != nil {
			r.forget(frag)
			return nil, err
		}
		return frag, nil

	case vdom.KindComponent:
		id := componentID(path, desc)
		return r.build(r.renderComponent(desc, id), id)

	default:
		return nil, unsupportedType(desc)
	}
}

func (r *Runtime) buildChildren(parent *dom.Node, children []*vdom.VNode, path string) error {
	paths := childPaths(path, children)
	for i, c := range children {
		n, err := r.build(c, paths[i])
		if err != nil {
			return err
		}
		parent.AppendChild(n)
	}
	return nil
}

// mountAt materializes desc and inserts it at offset at in parent. On error
// the components rendered before the failure are disposed and nothing is
// inserted.
func (r *Runtime) mountAt(parent *dom.Node, at int, desc *vdom.VNode, path string) (int, error) {
	n, err := r.build(desc, path)
	if err != nil {
		r.dispose(norm(desc), path)
		return 0, err
	}
	span := 1
	if n.Type() == dom.FragmentNode {
		span = n.ChildCount()
	}
	parent.InsertBefore(n, parent.ChildAt(at))
	r.metrics.addMounts(1)
	return span, nil
}

// unmountAt disposes desc's components and removes its live nodes.
func (r *Runtime) unmountAt(parent *dom.Node, at int, desc *vdom.VNode, path string) {
	n := r.span(desc, path)
	r.dispose(desc, path)
	r.removeNodes(parent, at, n)
	r.metrics.addUnmounts(1)
}

// span returns the number of live nodes desc occupies.
func (r *Runtime) span(desc *vdom.VNode, path string) int {
	desc = norm(desc)
	switch desc.Kind {
	case vdom.KindFragment:
		total := 0
		paths := childPaths(path, desc.Children)
		for i, c := range desc.Children {
			total += r.span(c, paths[i])
		}
		return total
	case vdom.KindComponent:
		id := componentID(path, desc)
		out, ok := r.rendered[id]
		if !ok {
			return 0
		}
		return r.span(out, id)
	default:
		return 1
	}
}

// dispose runs hook cleanups for every component under desc, children
// before parents and siblings in document order.
func (r *Runtime) dispose(desc *vdom.VNode, path string) {
	if desc == nil {
		return
	}
	switch desc.Kind {
	case vdom.KindElement, vdom.KindFragment:
		paths := childPaths(path, desc.Children)
		for i, c := range desc.Children {
			r.dispose(c, paths[i])
		}
	case vdom.KindComponent:
		id := componentID(path, desc)
		if out, ok := r.rendered[id]; ok {
			r.dispose(out, id)
		}
		r.store.Dispose(id)
		delete(r.rendered, id)
	}
}

// removeNodes detaches n nodes starting at offset at.
func (r *Runtime) removeNodes(parent *dom.Node, at, n int) {
	for i := 0; i < n; i++ {
		node := parent.ChildAt(at)
		if node == nil {
			return
		}
		r.forget(node)
		parent.RemoveChild(node)
	}
}

// nodesAt returns the n live nodes starting at offset at.
func nodesAt(parent *dom.Node, at, n int) []*dom.Node {
	out := make([]*dom.Node, 0, n)
	for i := 0; i < n; i++ {
		if c := parent.ChildAt(at + i); c != nil {
			out = append(out, c)
		}
	}
	return out
}
