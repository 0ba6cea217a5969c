package hooks

import (
	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/vdom"
)

// Binder two-way binds a string state to an input-like element.
type Binder struct {
	Value   string
	OnInput func(*dom.Event)
}

// Attrs returns the value attribute and input listener for an element helper.
func (b Binder) Attrs() []vdom.Attr {
	return []vdom.Attr{
		vdom.Value(b.Value),
		{Key: "oninput", Value: vdom.OnInput(b.OnInput)},
	}
}

// Props returns the binding as H props.
func (b Binder) Props() vdom.Props {
	return vdom.Props{"value": b.Value, "onInput": b.OnInput}
}

// UseModel composes UseState with a Binder whose OnInput stores the event
// target's value.
func UseModel(initial string) (string, Setter[string], Binder) {
	mustFrame("UseModel")
	v, set := UseState(initial)
	return v, set, Binder{
		Value:   v,
		OnInput: func(e *dom.Event) { set.Set(e.Target.Value()) },
	}
}
