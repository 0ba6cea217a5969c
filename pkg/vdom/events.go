package vdom

import (
	"strings"

	"github.com/myui-dev/myui/pkg/dom"
)

// On creates an EventHandler for an arbitrary event. handler may be a
// func(*dom.Event), func() or func(string) receiving the target's value;
// other values panic.
func On(name string, handler any) EventHandler {
	l, ok := toListener(handler)
	if !ok {
		panic("vdom: unsupported event handler type for " + name)
	}
	return EventHandler{Event: strings.ToLower(name), Handler: l}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler any) EventHandler { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) EventHandler { return On("dblclick", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return On("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler any) EventHandler { return On("keyup", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler any) EventHandler { return On("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) EventHandler { return On("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return On("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return On("blur", handler) }

// PreventDefault wraps a handler to call PreventDefault first.
func PreventDefault(fn func(*dom.Event)) func(*dom.Event) {
	return func(e *dom.Event) {
		e.PreventDefault()
		if fn != nil {
			fn(e)
		}
	}
}
