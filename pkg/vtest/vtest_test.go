package vtest_test

import (
	"strconv"
	"testing"

	"github.com/myui-dev/myui/pkg/hooks"
	. "github.com/myui-dev/myui/pkg/vdom"
	"github.com/myui-dev/myui/pkg/vtest"
)

func counter(Props) *VNode {
	n, set := hooks.UseState(0)
	name, setName, _ := hooks.UseModel("")
	return Form(
		OnSubmit(func() { set.Set(n + 10) }),
		Button(ID("inc"), Class("btn"), OnClick(func() { set.Set(n + 1) }), "+"),
		Input(ID("name"), Value(name), OnInput(setName.Set)),
		P("Count: "+strconv.Itoa(n)+" "+name),
	)
}

func TestHarness(t *testing.T) {
	h := vtest.New(t)
	h.Mount(C(counter, nil))
	vtest.ExpectContains(t, h, "Count: 0")

	h.Click(h.ByID("inc"))
	vtest.ExpectContains(t, h, "Count: 1")

	h.Input("name", "Asha")
	if got := h.ByID("name").Value(); got != "Asha" {
		t.Errorf("value = %q", got)
	}
	vtest.ExpectContains(t, h, "Count: 1 Asha")

	h.Submit()
	vtest.ExpectContains(t, h, "Count: 11")

	vtest.ExpectElement(t, h, "form")
	vtest.ExpectAttribute(t, h, "class", "btn")
	vtest.ExpectNotContains(t, h, "Count: 0")
	if h.Find("btn") != h.ByID("inc") {
		t.Error("Find and ByID disagree")
	}
	if h.Query("missing") != nil || len(h.FindAll("btn")) != 1 {
		t.Error("unexpected query results")
	}

	h.Unmount()
	if h.Body().ChildCount() != 0 {
		t.Errorf("body not empty after Unmount: %s", h.HTML())
	}
}

func TestRenderToString(t *testing.T) {
	got := vtest.RenderToString(Div(Class("a"), Span("x")))
	if want := `<div class="a"><span>x</span></div>`; got != want {
		t.Errorf("RenderToString = %q, want %q", got, want)
	}
	if got := vtest.RenderToString(H(42, nil)); got != "" {
		t.Errorf("unsupported type rendered %q", got)
	}
}
