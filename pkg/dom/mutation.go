package dom

// Op is a mutation journal operation.
type Op string

const (
	OpInsert      Op = "insert"
	OpMove        Op = "move"
	OpRemove      Op = "remove"
	OpText        Op = "text"
	OpAttr        Op = "attr"
	OpRemoveAttr  Op = "removeAttr"
	OpStyle       Op = "style"
	OpRemoveStyle Op = "removeStyle"
	OpListen      Op = "listen"
	OpUnlisten    Op = "unlisten"
)

// Mutation is one journaled change to the connected tree.
//
// For insert and move, Parent is the new parent and Before the id of the
// sibling the node was placed before (0 appends). Insert carries the full
// subtree in Tree.
type Mutation struct {
	Op     Op        `json:"op"`
	Node   uint64    `json:"node"`
	Parent uint64    `json:"parent,omitempty"`
	Before uint64    `json:"before,omitempty"`
	Name   string    `json:"name,omitempty"`
	Value  string    `json:"value,omitempty"`
	Tree   *Snapshot `json:"tree,omitempty"`
}

// Snapshot is a serializable copy of a subtree.
type Snapshot struct {
	ID       uint64            `json:"id"`
	Kind     string            `json:"kind"`
	Tag      string            `json:"tag,omitempty"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Style    map[string]string `json:"style,omitempty"`
	Events   []string          `json:"events,omitempty"`
	Children []*Snapshot       `json:"children,omitempty"`
}

// Snapshot returns a deep copy of the subtree rooted at n.
func (n *Node) Snapshot() *Snapshot {
	s := &Snapshot{ID: n.id, Kind: n.typ.String(), Tag: n.tag, Text: n.text, Events: n.EventTypes()}
	if len(n.attrs) > 0 {
		s.Attrs = n.Attributes()
	}
	if len(n.style) > 0 {
		s.Style = n.StyleMap()
	}
	for _, c := range n.children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}

// Filter returns the mutations whose op is one of ops.
func Filter(muts []Mutation, ops ...Op) []Mutation {
	var out []Mutation
	for _, m := range muts {
		for _, op := range ops {
			if m.Op == op {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
