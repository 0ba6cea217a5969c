package vdom

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/myui-dev/myui/pkg/dom"
)

// VKind is the descriptor kind discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text leaf
	KindFragment               // Grouping without wrapper
	KindComponent              // Function component
	KindInvalid                // Unsupported type, reported by the renderer
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// VNode is an element descriptor.
type VNode struct {
	Kind     VKind     // Descriptor kind
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes, event handlers and style
	Children []*VNode  // Child descriptors
	Key      string    // Reconciliation key
	Text     string    // For KindText
	Comp     Component // For KindComponent
	Name     string    // Component name, derived from the function
	Type     any       // Original type value for KindInvalid
}

// Props holds attributes and event handlers.
type Props map[string]any

// Clone returns a shallow copy of p. A nil map clones to an empty one.
func (p Props) Clone() Props {
	out := make(Props, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Component renders props to a descriptor. The "children" prop holds the
// component's child descriptors as []*VNode.
type Component func(Props) *VNode

// FragmentMarker is the type of FragmentType.
type FragmentMarker struct{}

// FragmentType passed to H builds a fragment.
var FragmentType = FragmentMarker{}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler is a tagged event listener prop. Event is the lower-case
// event name without the "on" prefix.
type EventHandler struct {
	Event   string
	Handler dom.Listener
}

// PropKey returns the props key the handler is stored under.
func (h EventHandler) PropKey() string { return "on" + h.Event }

// Style is a tagged inline style prop.
type Style map[string]string

// Children returns the child descriptors passed to a component.
func (p Props) Children() []*VNode {
	c, _ := p["children"].([]*VNode)
	return c
}

// IsComponent reports whether v is a component descriptor.
func (v *VNode) IsComponent() bool { return v != nil && v.Kind == KindComponent }

// Compatible reports whether b can be reconciled in place of a: same kind,
// same tag or component and same key. Text leaves are always compatible.
func Compatible(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return a.Name == b.Name
	case KindInvalid:
		return false
	}
	return true
}

// funcName returns the fully qualified name of a function value.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

// ShortName trims the package path from a component name.
func ShortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
