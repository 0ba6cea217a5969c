package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// AttrOf creates an arbitrary attribute.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// Key sets the reconciliation key.
func Key(k any) Attr { return attr("key", k) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Form attributes

func Value(v string) Attr       { return attr("value", v) }
func Type(t string) Attr        { return attr("type", t) }
func Name(n string) Attr        { return attr("name", n) }
func Placeholder(p string) Attr { return attr("placeholder", p) }
func For(id string) Attr        { return attr("for", id) }
func Href(url string) Attr      { return attr("href", url) }
func Title(t string) Attr       { return attr("title", t) }
func Pattern(p string) Attr     { return attr("pattern", p) }
func MaxLength(n int) Attr      { return attr("maxlength", n) }
func Disabled(b bool) Attr      { return attr("disabled", b) }
func Required(b bool) Attr      { return attr("required", b) }
func Checked(b bool) Attr       { return attr("checked", b) }
func Selected(b bool) Attr      { return attr("selected", b) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// StyleProp sets a single inline style property.
func StyleProp(prop, value string) Style { return Style{prop: value} }
