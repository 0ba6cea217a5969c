package dom

import "strings"

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// OuterHTML serializes n and its descendants. Listeners are not serialized.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		c.writeHTML(&b)
	}
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	switch n.typ {
	case TextNode:
		b.WriteString(escapeHTML(n.text))
		return
	case FragmentNode:
		for _, c := range n.children {
			c.writeHTML(b)
		}
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)
	for _, k := range sortedKeys(n.attrs) {
		if k == "style" && len(n.style) > 0 {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(k)
		if v := n.attrs[k]; v != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(v))
			b.WriteByte('"')
		}
	}
	if len(n.style) > 0 {
		b.WriteString(` style="`)
		b.WriteString(escapeAttr(n.styleText()))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if voidElements[n.tag] {
		return
	}
	for _, c := range n.children {
		c.writeHTML(b)
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

func (n *Node) styleText() string {
	parts := make([]string, 0, len(n.style))
	for _, k := range sortedKeys(n.style) {
		parts = append(parts, k+": "+n.style[k])
	}
	return strings.Join(parts, "; ")
}

// escapeHTML escapes text for inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for inclusion in a double-quoted attribute value.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
