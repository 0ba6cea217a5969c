package ui

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/hooks"
	"github.com/myui-dev/myui/pkg/loop"
	"github.com/myui-dev/myui/pkg/vdom"
)

// root is a registry entry.
type root struct {
	target *dom.Node
	desc   *vdom.VNode
	prefix string
}

// binding is the currently bound handler for one event on one node.
type binding struct {
	fn dom.Listener
	id dom.ListenerID
}

// Runtime renders descriptors into a document.
type Runtime struct {
	doc     *dom.Document
	loop    *loop.Loop
	store   *hooks.Store
	logger  *slog.Logger
	metrics *Metrics

	roots   map[*dom.Node]*root
	order   []*dom.Node
	rootSeq int
	tmpSeq  int

	// rendered holds the last output of each component identity.
	rendered map[string]*vdom.VNode
	bindings map[*dom.Node]map[string]*binding

	pending     atomic.Bool
	afterRender func()
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithStore uses s instead of a fresh hooks store.
func WithStore(s *hooks.Store) Option {
	return func(r *Runtime) { r.store = s }
}

// WithLogger sets the logger for render errors.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records render metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Runtime) { r.metrics = m }
}

// New creates a runtime rendering into doc and scheduling on lp. The hooks
// store's scheduler is set to the runtime's ScheduleRerender.
func New(doc *dom.Document, lp *loop.Loop, opts ...Option) *Runtime {
	r := &Runtime{
		doc:      doc,
		loop:     lp,
		logger:   slog.Default(),
		roots:    make(map[*dom.Node]*root),
		rendered: make(map[string]*vdom.VNode),
		bindings: make(map[*dom.Node]map[string]*binding),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		r.store = hooks.NewStore()
	}
	r.store.SetScheduler(r.ScheduleRerender)
	return r
}

// Document returns the document the runtime renders into.
func (r *Runtime) Document() *dom.Document { return r.doc }

// Loop returns the runtime's event loop.
func (r *Runtime) Loop() *loop.Loop { return r.loop }

// Store returns the hooks store.
func (r *Runtime) Store() *hooks.Store { return r.store }

// Dispatch queues fn as a task on the runtime's loop.
func (r *Runtime) Dispatch(fn func()) bool { return r.loop.Dispatch(fn) }

// OnAfterRender sets the function called after each batched pass. A nil fn
// clears it.
func (r *Runtime) OnAfterRender(fn func()) { r.afterRender = fn }

// Roots returns the mounted targets in mount order.
func (r *Runtime) Roots() []*dom.Node {
	out := make([]*dom.Node, len(r.order))
	copy(out, r.order)
	return out
}

// RootDescriptor returns the descriptor last rendered into target.
func (r *Runtime) RootDescriptor(target *dom.Node) (*vdom.VNode, bool) {
	rt, ok := r.roots[target]
	if !ok {
		return nil, false
	}
	return rt.desc, true
}

// Materialize builds detached live nodes for desc. Fragments are returned as
// a dom fragment. Components are rendered under a fresh identity.
func (r *Runtime) Materialize(desc *vdom.VNode) (*dom.Node, error) {
	r.tmpSeq++
	path := "m" + strconv.Itoa(r.tmpSeq)
	n, err := r.build(desc, path)
	if err != nil {
		r.dispose(norm(desc), path)
		return nil, err
	}
	return n, nil
}

// Diff reconciles newDesc against oldDesc, whose first live node is oldNode
// in parent, and returns the node now occupying that position, or nil when
// nothing does. With no old descriptor the new one is appended.
func (r *Runtime) Diff(parent, oldNode *dom.Node, oldDesc, newDesc *vdom.VNode) (*dom.Node, error) {
	at := parent.ChildCount()
	if oldNode != nil || oldDesc != nil {
		if oldNode == nil {
			return nil, notChild()
		}
		if at = parent.IndexOf(oldNode); at < 0 {
			return nil, notChild()
		}
	}
	path := "d" + strconv.FormatUint(parent.ID(), 10) + "@" + strconv.Itoa(at)
	n, err := r.reconcile(parent, at, oldDesc, newDesc, path)
	if err != nil || n == 0 {
		return nil, err
	}
	return parent.ChildAt(at), nil
}
