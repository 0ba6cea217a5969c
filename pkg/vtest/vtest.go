package vtest

import (
	"strings"
	"testing"

	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/loop"
	"github.com/myui-dev/myui/pkg/ui"
	"github.com/myui-dev/myui/pkg/vdom"
)

// Harness owns a document, a loop and a runtime for one test.
type Harness struct {
	t   testing.TB
	doc *dom.Document
	lp  *loop.Loop
	rt  *ui.Runtime
}

// New returns a harness whose loop is closed when the test ends.
func New(t testing.TB, opts ...ui.Option) *Harness {
	h := &Harness{t: t, doc: dom.NewDocument(), lp: loop.New()}
	h.rt = ui.New(h.doc, h.lp, opts...)
	t.Cleanup(h.lp.Close)
	return h
}

// Document returns the harness document.
func (h *Harness) Document() *dom.Document { return h.doc }

// Loop returns the harness loop. Tests pass Loop().Dispatch to components
// that hand results back from other goroutines.
func (h *Harness) Loop() *loop.Loop { return h.lp }

// Runtime returns the harness runtime.
func (h *Harness) Runtime() *ui.Runtime { return h.rt }

// Body returns the mount target.
func (h *Harness) Body() *dom.Node { return h.doc.Body() }

// Mount renders desc into the body and drains the loop.
func (h *Harness) Mount(desc *vdom.VNode) {
	h.t.Helper()
	if err := h.rt.Mount(desc, h.doc.Body()); err != nil {
		h.t.Fatalf("Mount: %v", err)
	}
	h.Drain()
}

// Unmount removes the root from the body and drains the loop.
func (h *Harness) Unmount() {
	h.t.Helper()
	if err := h.rt.Unmount(h.doc.Body()); err != nil {
		h.t.Fatalf("Unmount: %v", err)
	}
	h.Drain()
}

// Drain runs queued tasks and microtasks until the loop is idle.
func (h *Harness) Drain() { h.lp.Drain() }

// ByID returns the connected element with the given id attribute or fails
// the test.
func (h *Harness) ByID(id string) *dom.Node {
	h.t.Helper()
	n := h.doc.ElementByID(id)
	if n == nil {
		h.t.Fatalf("no element #%s in:\n%s", id, truncate(h.HTML(), 500))
	}
	return n
}

// Find returns the first element with the given class or fails the test.
func (h *Harness) Find(class string) *dom.Node {
	h.t.Helper()
	n := h.doc.Body().Find(dom.ByClass(class))
	if n == nil {
		h.t.Fatalf("no element .%s in:\n%s", class, truncate(h.HTML(), 500))
	}
	return n
}

// FindAll returns every element with the given class.
func (h *Harness) FindAll(class string) []*dom.Node {
	return h.doc.Body().FindAll(dom.ByClass(class))
}

// Query returns the first element with the given class, or nil.
func (h *Harness) Query(class string) *dom.Node {
	return h.doc.Body().Find(dom.ByClass(class))
}

// Dispatch fires an event of type typ at n and drains the loop.
func (h *Harness) Dispatch(n *dom.Node, typ string) {
	n.DispatchEvent(dom.NewEvent(typ))
	h.Drain()
}

// Click fires a click at n.
func (h *Harness) Click(n *dom.Node) { h.Dispatch(n, "click") }

// Input sets the value of the element with the given id and fires input,
// the way a browser does while the user types.
func (h *Harness) Input(id, value string) {
	h.t.Helper()
	n := h.ByID(id)
	n.SetValue(value)
	h.Dispatch(n, "input")
}

// Submit fires submit at the first form in the body.
func (h *Harness) Submit() {
	h.t.Helper()
	form := h.doc.Body().Find(dom.ByTag("form"))
	if form == nil {
		h.t.Fatalf("no form in:\n%s", truncate(h.HTML(), 500))
	}
	h.Dispatch(form, "submit")
}

// Text returns the text content of the body.
func (h *Harness) Text() string { return h.doc.Body().TextContent() }

// HTML returns the inner HTML of the body.
func (h *Harness) HTML() string { return h.doc.Body().InnerHTML() }

// RenderToString mounts desc into a fresh document and returns the body
// HTML once the loop is idle. Render errors yield "".
func RenderToString(desc *vdom.VNode) string {
	doc := dom.NewDocument()
	lp := loop.New()
	defer lp.Close()
	rt := ui.New(doc, lp)
	if err := rt.Mount(desc, doc.Body()); err != nil {
		return ""
	}
	lp.Drain()
	return doc.Body().InnerHTML()
}

// ExpectContains asserts that the body HTML contains expected.
//
// Example:
//
//	vtest.ExpectContains(t, h, "Add Student")
func ExpectContains(t testing.TB, h *Harness, expected string) {
	t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the body HTML does not contain unexpected.
func ExpectNotContains(t testing.TB, h *Harness, unexpected string) {
	t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that the body contains an element with tag.
func ExpectElement(t testing.TB, h *Harness, tag string) {
	t.Helper()
	if h.doc.Body().Find(dom.ByTag(tag)) == nil {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(h.HTML(), 500))
	}
}

// ExpectAttribute asserts that some element carries attr with value.
//
// Example:
//
//	vtest.ExpectAttribute(t, h, "id", "studentList")
func ExpectAttribute(t testing.TB, h *Harness, attr, value string) {
	t.Helper()
	found := h.doc.Body().Find(func(n *dom.Node) bool {
		v, ok := n.Attr(attr)
		return ok && v == value
	})
	if found == nil {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(h.HTML(), 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
