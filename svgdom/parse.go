package svgdom

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlNS is predeclared by the XML spec and never carries an xmlns
// declaration of its own.
const xmlNS = "http://www.w3.org/XML/1998/namespace"

// nsScope tracks the namespace declarations in effect at one depth of
// the tree, so that prefixed names can be written back as they were
// read. encoding/xml resolves prefixes to namespace URLs while
// tokenizing; without this bookkeeping a round trip would lose
// "xlink:href" and friends.
type nsScope struct {
	def    string            // default namespace URL
	byURL  map[string]string // namespace URL -> prefix
	shared bool              // byURL is borrowed from the parent scope
}

func (s nsScope) fork() nsScope {
	out := nsScope{def: s.def, byURL: make(map[string]string, len(s.byURL)+2)}
	for k, v := range s.byURL {
		out.byURL[k] = v
	}
	return out
}

// Parse reads one XML document from r and returns its root element.
// Character encodings other than UTF-8 are handled through the
// document's declared charset.
func Parse(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	scopes := []nsScope{{byURL: map[string]string{xmlNS: "xml"}}}
	var stack []*Element
	var root *Element

	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			scope := scopes[len(scopes)-1]
			scope.shared = true
			for _, a := range se.Attr {
				switch {
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					if scope.shared {
						scope = scope.fork()
					}
					scope.def = a.Value
				case a.Name.Space == "xmlns":
					if scope.shared {
						scope = scope.fork()
					}
					scope.byURL[a.Value] = a.Name.Local
				}
			}
			scopes = append(scopes, scope)

			el := &Element{Name: scope.elementName(se.Name)}
			if len(se.Attr) > 0 {
				el.Attrs = make([]Attr, len(se.Attr))
				for i, a := range se.Attr {
					el.Attrs[i] = Attr{Name: scope.attrName(a.Name), Value: a.Value}
				}
			}
			if len(stack) == 0 {
				if root == nil {
					root = el
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			scopes = scopes[:len(scopes)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Children = append(stack[len(stack)-1].Children, Text(string(se)))
			}
		case xml.Comment:
			if len(stack) > 0 {
				stack[len(stack)-1].Children = append(stack[len(stack)-1].Children, Comment(string(se)))
			}
		case xml.ProcInst:
			// The xml declaration is regenerated at serialization time.
			if se.Target == "xml" {
				continue
			}
			if len(stack) > 0 {
				stack[len(stack)-1].Children = append(stack[len(stack)-1].Children, ProcInst{Target: se.Target, Inst: string(se.Inst)})
			}
		}
	}
	if root == nil {
		return nil, errors.New("invalid svg xml document")
	}
	return root, nil
}

// ParseString is Parse on an in-memory document.
func ParseString(s string) (*Element, error) {
	return Parse(strings.NewReader(s))
}

func (s nsScope) elementName(n xml.Name) string {
	if n.Space == "" || n.Space == s.def {
		return n.Local
	}
	if p, ok := s.byURL[n.Space]; ok {
		return p + ":" + n.Local
	}
	// An undeclared prefix reaches us verbatim in Space.
	return n.Space + ":" + n.Local
}

func (s nsScope) attrName(n xml.Name) string {
	switch {
	case n.Space == "":
		return n.Local
	case n.Space == "xmlns":
		return "xmlns:" + n.Local
	}
	if p, ok := s.byURL[n.Space]; ok {
		return p + ":" + n.Local
	}
	return n.Space + ":" + n.Local
}
