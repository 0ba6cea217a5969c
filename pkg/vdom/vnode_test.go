package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/myui-dev/myui/pkg/dom"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindInvalid, "Invalid"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestHFlattensChildren(t *testing.T) {
	n := H("ul", nil,
		"a",
		[]any{1, []*VNode{Text("b"), nil}},
		nil,
		2.5,
	)
	var texts []string
	for _, c := range n.Children {
		if c.Kind != KindText {
			t.Fatalf("child kind = %v, want Text", c.Kind)
		}
		texts = append(texts, c.Text)
	}
	want := []string{"a", "1", "b", "", "", "2.5"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestHNilPropsAndCopy(t *testing.T) {
	n := H("div", nil)
	if n.Props == nil || len(n.Props) != 0 {
		t.Errorf("Props = %v, want empty map", n.Props)
	}

	in := Props{"class": "x"}
	n = H("div", in)
	in["class"] = "y"
	if n.Props["class"] != "x" {
		t.Error("H should copy props")
	}
}

func TestHClassifiesProps(t *testing.T) {
	clicked := false
	n := H("button", Props{
		"key":      7,
		"children": "ignored",
		"onClick":  func() { clicked = true },
		"style":    map[string]any{"color": "red", "z-index": 2},
		"onwhat":   "plain",
		"disabled": false,
	})

	if n.Key != "7" {
		t.Errorf("Key = %q, want 7", n.Key)
	}
	if _, ok := n.Props["key"]; ok {
		t.Error("key must not remain in props")
	}
	if _, ok := n.Props["children"]; ok {
		t.Error("children must not be stored as a prop")
	}
	h, ok := n.Props["onclick"].(EventHandler)
	if !ok {
		t.Fatalf("onclick = %T, want EventHandler", n.Props["onclick"])
	}
	if h.Event != "click" {
		t.Errorf("Event = %q, want click", h.Event)
	}
	h.Handler(dom.NewEvent("click"))
	if !clicked {
		t.Error("handler not invoked")
	}
	if diff := cmp.Diff(Style{"color": "red", "z-index": "2"}, n.Props["style"]); diff != "" {
		t.Errorf("style mismatch (-want +got):\n%s", diff)
	}
	if n.Props["onwhat"] != "plain" {
		t.Error("lower-case on* prop should stay an attribute")
	}
}

func TestHKinds(t *testing.T) {
	comp := func(p Props) *VNode { return Text("c") }
	tests := []struct {
		name string
		typ  any
		want VKind
	}{
		{"element", "DIV", KindElement},
		{"fragment", FragmentType, KindFragment},
		{"component", Component(comp), KindComponent},
		{"bare func", comp, KindComponent},
		{"nullary func", func() *VNode { return nil }, KindComponent},
		{"invalid", 42, KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := H(tt.typ, nil)
			if n.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", n.Kind, tt.want)
			}
		})
	}
	if n := H("DIV", nil); n.Tag != "div" {
		t.Errorf("Tag = %q, want lower-case", n.Tag)
	}
	if n := H(42, nil); n.Type != 42 {
		t.Errorf("Type = %v, want original value", n.Type)
	}
}

func Counter(p Props) *VNode { return Text("n") }

func TestComponentDescriptor(t *testing.T) {
	n := H(Counter, Props{"key": "a", "start": 1, "onChange": func() {}}, "kid")
	if n.Name == "" || ShortName(n.Name) != "vdom.Counter" {
		t.Errorf("Name = %q", n.Name)
	}
	if n.Key != "a" {
		t.Errorf("Key = %q, want a", n.Key)
	}
	if _, ok := n.Props["onChange"].(func()); !ok {
		t.Error("component props must not be normalized")
	}
	if len(n.Children) != 1 {
		t.Errorf("children = %d, want 1", len(n.Children))
	}
}

func TestCompatible(t *testing.T) {
	other := func(p Props) *VNode { return nil }
	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"text vs text", Text("a"), Text("b"), true},
		{"same tag", Div(), Div(Class("x")), true},
		{"different tag", Div(), Span(), false},
		{"text vs element", Text("a"), Div(), false},
		{"key differs", Li(Key(1)), Li(Key(2)), false},
		{"same component", H(Counter, nil), H(Counter, Props{"x": 1}), true},
		{"different component", H(Counter, nil), H(other, nil), false},
		{"fragments", Fragment(), Fragment("a"), true},
		{"nil", nil, Div(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compatible(tt.a, tt.b); got != tt.want {
				t.Errorf("Compatible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElementHelpers(t *testing.T) {
	var nilNode *VNode
	n := Div(
		Class("card", "wide"),
		nil,
		Key("k1"),
		OnClick(func(*dom.Event) {}),
		StyleProp("color", "blue"),
		[]Attr{ID("main"), Disabled(true)},
		H1(Text("Title")),
		nilNode,
		"tail",
	)

	if n.Key != "k1" {
		t.Errorf("Key = %q", n.Key)
	}
	wantProps := Props{"class": "card wide", "id": "main", "disabled": true, "style": Style{"color": "blue"}}
	got := n.Props.Clone()
	delete(got, "onclick")
	if diff := cmp.Diff(wantProps, got); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
	if _, ok := n.Props["onclick"].(EventHandler); !ok {
		t.Error("missing onclick handler")
	}
	if len(n.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(n.Children))
	}
	if n.Children[1].Kind != KindText || n.Children[1].Text != "" {
		t.Error("nil *VNode should hold its position as empty text")
	}
}

func TestRangeAndIf(t *testing.T) {
	items := []string{"x", "y"}
	n := Ul(Range(items, func(s string, i int) *VNode { return Li(Key(s), Text(s)) }))
	keys := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		keys = append(keys, c.Key)
	}
	if diff := cmp.Diff([]string{"x", "y"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if If(false, Div()) != nil {
		t.Error("If(false) should be nil")
	}
	if When(true, func() *VNode { return Span() }).Tag != "span" {
		t.Error("When(true) should evaluate")
	}
}

func TestPropsChildren(t *testing.T) {
	kids := []*VNode{Text("a")}
	p := Props{"children": kids}
	if diff := cmp.Diff(kids, p.Children(), cmpopts.IgnoreFields(VNode{}, "Comp")); diff != "" {
		t.Errorf("Children mismatch:\n%s", diff)
	}
	if (Props{}).Children() != nil {
		t.Error("missing children should be nil")
	}
}

func TestOnPanicsOnBadHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("On should panic for unsupported handler")
		}
	}()
	On("click", 5)
}
