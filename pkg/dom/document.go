package dom

import "strings"

// Document owns a node tree rooted at its body element.
type Document struct {
	nextID    uint64
	body      *Node
	nodes     map[uint64]*Node
	recording bool
	journal   []Mutation
}

// NewDocument returns an empty document with a body element.
func NewDocument() *Document {
	d := &Document{nodes: make(map[uint64]*Node)}
	d.body = d.newNode(ElementNode)
	d.body.tag = "body"
	d.nodes[d.body.id] = d.body
	return d
}

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	return &Node{id: d.nextID, doc: d, typ: t}
}

// Body returns the body element.
func (d *Document) Body() *Node { return d.body }

// CreateElement creates a detached element. Tag names are lower-cased.
func (d *Document) CreateElement(tag string) *Node {
	n := d.newNode(ElementNode)
	n.tag = strings.ToLower(tag)
	return n
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *Node {
	n := d.newNode(TextNode)
	n.text = text
	return n
}

// CreateFragment creates an empty fragment.
func (d *Document) CreateFragment() *Node {
	return d.newNode(FragmentNode)
}

// NodeByID returns a connected node by id.
func (d *Document) NodeByID(id uint64) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// ConnectedCount returns the number of nodes attached to the body, body included.
func (d *Document) ConnectedCount() int { return len(d.nodes) }

// SetRecording enables or disables the mutation journal. Disabling does not
// discard already recorded mutations.
func (d *Document) SetRecording(on bool) { d.recording = on }

// Recording reports whether mutations are being journaled.
func (d *Document) Recording() bool { return d.recording }

// TakeMutations returns the journal and resets it.
func (d *Document) TakeMutations() []Mutation {
	out := d.journal
	d.journal = nil
	return out
}

// PendingMutations returns the number of journaled mutations not yet taken.
func (d *Document) PendingMutations() int { return len(d.journal) }

func (d *Document) append(m Mutation) {
	if d.recording {
		d.journal = append(d.journal, m)
	}
}

func (d *Document) index(n *Node) {
	d.nodes[n.id] = n
	for _, c := range n.children {
		d.index(c)
	}
}

func (d *Document) unindex(n *Node) {
	delete(d.nodes, n.id)
	for _, c := range n.children {
		d.unindex(c)
	}
}
