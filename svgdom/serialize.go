package svgdom

import (
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Serialize renders the tree rooted at e as a standalone XML document.
// The output is deterministic: attributes keep their insertion order,
// empty elements are self-closed, and no timestamps or generated
// identifiers are introduced, so identical trees serialize to
// byte-identical text.
func Serialize(e *Element) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	writeElement(&b, e)
	return b.String()
}

func writeElement(b *strings.Builder, e *Element) {
	b.WriteByte('<')
	b.WriteString(e.Name)
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		escapeAttr(b, a.Value)
		b.WriteByte('"')
	}
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(e.Name)
	b.WriteByte('>')
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Element:
		writeElement(b, n)
	case Text:
		escapeText(b, string(n))
	case Comment:
		b.WriteString("<!--")
		b.WriteString(string(n))
		b.WriteString("-->")
	case ProcInst:
		b.WriteString("<?")
		b.WriteString(n.Target)
		if n.Inst != "" {
			b.WriteByte(' ')
			b.WriteString(n.Inst)
		}
		b.WriteString("?>")
	}
}

func escapeText(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
}

func escapeAttr(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
}
