// Package svgdom implements a minimal document tree for SVG content.
// Nodes are explicit tagged values (element, text, comment, processing
// instruction); elements own an ordered attribute list and an ordered
// child list. There are no live collections: moving content between
// documents always goes through Clone.
package svgdom

// Node is one node of the tree: *Element, Text, Comment or ProcInst.
type Node interface {
	// CloneNode returns a deep copy, sharing nothing with the receiver.
	CloneNode() Node
}

// Attr is a single attribute, with the name as written in the source
// (prefix included, e.g. "xlink:href").
type Attr struct {
	Name  string
	Value string
}

// Element is an element node. Attrs and Children preserve source order.
type Element struct {
	Name     string // prefixed name as written
	Attrs    []Attr
	Children []Node
}

// Text is a character data node. Entity references are stored decoded.
type Text string

// Comment is a comment node (without the <!-- --> markers).
type Comment string

// ProcInst is a processing instruction (without the <? ?> markers).
type ProcInst struct {
	Target string
	Inst   string
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, keeping its position if it already
// exists, appending it otherwise.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute if present.
func (e *Element) RemoveAttr(name string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// AppendChild adds n as the last child.
func (e *Element) AppendChild(n Node) {
	e.Children = append(e.Children, n)
}

// PrependChild adds n as the first child.
func (e *Element) PrependChild(n Node) {
	e.Children = append([]Node{n}, e.Children...)
}

// ChildElements returns the direct element children, in order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// FindAll returns every descendant element (the receiver included)
// with the given name, in document order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) {
		if el.Name == name {
			out = append(out, el)
		}
	})
	return out
}

// Walk calls fn for the receiver and every descendant element, in
// document order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			el.Walk(fn)
		}
	}
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	out := &Element{Name: e.Name}
	if len(e.Attrs) > 0 {
		out.Attrs = make([]Attr, len(e.Attrs))
		copy(out.Attrs, e.Attrs)
	}
	if len(e.Children) > 0 {
		out.Children = make([]Node, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.CloneNode()
		}
	}
	return out
}

// CloneNode implements Node.
func (e *Element) CloneNode() Node { return e.Clone() }

// CloneNode implements Node.
func (t Text) CloneNode() Node { return t }

// CloneNode implements Node.
func (c Comment) CloneNode() Node { return c }

// CloneNode implements Node.
func (p ProcInst) CloneNode() Node { return p }
