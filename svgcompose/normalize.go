package svgcompose

import (
	"strconv"
	"strings"

	"github.com/benoitkugler/svgcollage/svgdom"
	"github.com/benoitkugler/svgcollage/svglayout"
)

// groupAttrs is the allow-list of presentation and hint attributes
// copied from a fragment root onto its positioning group. Namespace
// declarations are never copied: the output root already declares
// them, and duplicates confuse downstream tooling.
var groupAttrs = []string{
	"style", "class", "version", "baseProfile", "xml:space", "preserveAspectRatio",
}

// Normalize wraps the content of a fragment root into a positioning
// group: a <g> carrying the placement transform for the item and the
// allow-listed root attributes, containing a clone of every element
// child of the root except definition containers (those belong to the
// shared pool).
func Normalize(root *svgdom.Element, item svglayout.Item) *svgdom.Element {
	g := &svgdom.Element{Name: "g"}
	g.SetAttr("transform", placementTransform(root, item))
	for _, name := range groupAttrs {
		if v, ok := root.Attr(name); ok {
			g.SetAttr(name, v)
		}
	}
	for _, child := range root.ChildElements() {
		if child.Name == "defs" {
			continue
		}
		clone := child.Clone()
		stripDefs(clone)
		g.AppendChild(clone)
	}
	return g
}

// placementTransform maps the fragment's intrinsic coordinate system
// onto the item's requested box. When the fragment is already the
// requested size the scale is the identity and is omitted; this keeps
// the output smaller but changes nothing semantically.
func placementTransform(root *svgdom.Element, item svglayout.Item) string {
	iw, ih := intrinsicSize(root, item)
	sx, sy := item.Width/iw, item.Height/ih
	tr := "translate(" + fmtNum(item.X) + ", " + fmtNum(item.Y) + ")"
	if sx == 1 && sy == 1 {
		return tr
	}
	return tr + " scale(" + fmtNum(sx) + ", " + fmtNum(sy) + ")"
}

// intrinsicSize determines the fragment's own size, in decreasing
// order of authority: explicit width/height attributes, then the
// third and fourth viewBox components, then the size the layout asked
// for (scale factor 1).
func intrinsicSize(root *svgdom.Element, item svglayout.Item) (w, h float64) {
	w, h = item.Width, item.Height
	var vbW, vbH float64
	if vb, ok := root.Attr("viewBox"); ok {
		if fields := splitOnCommaOrSpace(vb); len(fields) == 4 {
			vbW, _ = parseLength(fields[2])
			vbH, _ = parseLength(fields[3])
		}
	}
	if vbW > 0 {
		w = vbW
	}
	if vbH > 0 {
		h = vbH
	}
	if v, ok := root.Attr("width"); ok {
		if f, err := parseLength(v); err == nil && f > 0 {
			w = f
		}
	}
	if v, ok := root.Attr("height"); ok {
		if f, err := parseLength(v); err == nil && f > 0 {
			h = f
		}
	}
	return w, h
}

// stripDefs removes every definition container below el; their content
// lives in the shared pool.
func stripDefs(el *svgdom.Element) {
	kept := el.Children[:0]
	for _, c := range el.Children {
		if child, ok := c.(*svgdom.Element); ok {
			if child.Name == "defs" {
				continue
			}
			stripDefs(child)
		}
		kept = append(kept, c)
	}
	el.Children = kept
}

// splitOnCommaOrSpace returns a list of strings after splitting the
// input on comma and whitespace delimiters.
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// parseLength reads a float, tolerating a trailing unit such as "px".
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		end--
	}
	return strconv.ParseFloat(s[:end], 64)
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
