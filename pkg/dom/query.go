package dom

// Walk visits n and its descendants in document order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first descendant of n (n included) matching pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant of n (n included) matching pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ByTag matches elements with the given lower-case tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.typ == ElementNode && n.tag == tag }
}

// ByClass matches elements whose class list contains class.
func ByClass(class string) func(*Node) bool {
	return func(n *Node) bool {
		if n.typ != ElementNode {
			return false
		}
		list := n.attrs["class"]
		for start := 0; start <= len(list); {
			end := start
			for end < len(list) && list[end] != ' ' {
				end++
			}
			if list[start:end] == class {
				return true
			}
			start = end + 1
		}
		return false
	}
}

// ElementByID returns the connected element whose id attribute is id.
func (d *Document) ElementByID(id string) *Node {
	return d.body.Find(func(n *Node) bool {
		return n.typ == ElementNode && n.attrs["id"] == id
	})
}
