package svgopt

import (
	"strconv"
	"strings"

	"github.com/benoitkugler/svgcollage/svgdom"
)

// Options selects the optimization passes. The default profile only
// removes content that cannot change rendering: comments, metadata and
// inter-element whitespace. Every other pass defaults to off because
// it can alter animation timing, identifiers referenced through
// xlink/href, grouping structure or geometry.
//
// Transforms that rewrite path data, convert shapes to paths, merge
// paths, hoist attributes between groups and elements, inline or
// minify styles, or strip unknown and non-inheritable attributes are
// deliberately not offered at all: there is no input for which they
// are safe under those constraints.
type Options struct {
	// Safe, enabled by default.
	RemoveComments     bool
	RemoveMetadata     bool
	CollapseWhitespace bool

	// Unsafe, disabled by default.
	RemoveProcInst        bool
	RemoveViewBox         bool
	RemoveHiddenElems     bool
	RemoveUselessDefs     bool
	RemoveEmptyAttrs      bool
	RemoveEmptyContainers bool
	CollapseGroups        bool
	CleanupIDs            bool
}

// DefaultOptions returns the structure-preserving profile.
func DefaultOptions() Options {
	return Options{
		RemoveComments:     true,
		RemoveMetadata:     true,
		CollapseWhitespace: true,
	}
}

// Optimize re-parses the document text, applies the enabled passes and
// re-serializes. The repair substitutions are re-applied afterwards
// since serialization may reintroduce the same artifacts.
func Optimize(text string, opts Options) (string, error) {
	root, err := svgdom.ParseString(text)
	if err != nil {
		return "", err
	}
	cleanNodes(root, opts, false)
	if opts.RemoveViewBox {
		root.RemoveAttr("viewBox")
	}
	if opts.RemoveUselessDefs {
		removeUselessDefs(root)
	}
	if opts.CollapseGroups {
		collapseGroups(root)
	}
	if opts.CleanupIDs {
		cleanupIDs(root)
	}
	return Repair(svgdom.Serialize(root)), nil
}

// textContent lists the elements whose character data is significant
// even when it is pure whitespace.
var textContent = map[string]bool{
	"text": true, "tspan": true, "textPath": true, "tref": true,
	"script": true, "style": true, "pre": true, "title": true, "desc": true,
}

// containers that may be dropped when empty.
var containerNames = map[string]bool{
	"g": true, "defs": true, "symbol": true, "marker": true,
	"mask": true, "pattern": true, "switch": true, "a": true,
}

// cleanNodes applies the per-node passes in one recursive sweep.
// preserve tracks xml:space="preserve" scoping.
func cleanNodes(el *svgdom.Element, opts Options, preserve bool) {
	if v, ok := el.Attr("xml:space"); ok {
		preserve = v == "preserve"
	}
	keepText := preserve || textContent[el.Name]

	kept := el.Children[:0]
	for _, c := range el.Children {
		switch n := c.(type) {
		case svgdom.Comment:
			if opts.RemoveComments {
				continue
			}
		case svgdom.ProcInst:
			if opts.RemoveProcInst {
				continue
			}
		case svgdom.Text:
			if opts.CollapseWhitespace && !keepText && strings.TrimSpace(string(n)) == "" {
				continue
			}
		case *svgdom.Element:
			if opts.RemoveMetadata && n.Name == "metadata" {
				continue
			}
			if opts.RemoveHiddenElems && hidden(n) {
				continue
			}
			cleanNodes(n, opts, preserve)
			if opts.RemoveEmptyAttrs {
				removeEmptyAttrs(n)
			}
			if opts.RemoveEmptyContainers && containerNames[n.Name] && len(n.Children) == 0 {
				continue
			}
		}
		kept = append(kept, c)
	}
	el.Children = kept
}

func hidden(el *svgdom.Element) bool {
	if v, ok := el.Attr("display"); ok && v == "none" {
		return true
	}
	if v, ok := el.Attr("visibility"); ok && v == "hidden" {
		return true
	}
	return false
}

func removeEmptyAttrs(el *svgdom.Element) {
	kept := el.Attrs[:0]
	for _, a := range el.Attrs {
		if a.Value == "" {
			continue
		}
		kept = append(kept, a)
	}
	el.Attrs = kept
}

// removeUselessDefs drops definitions whose id is never referenced
// through url(#...), href or xlink:href.
func removeUselessDefs(root *svgdom.Element) {
	used := make(map[string]bool)
	root.Walk(func(owner *svgdom.Element) {
		for _, a := range owner.Attrs {
			for _, id := range referencedIDs(a.Value) {
				used[id] = true
			}
		}
	})
	for _, defs := range root.FindAll("defs") {
		kept := defs.Children[:0]
		for _, c := range defs.Children {
			if el, ok := c.(*svgdom.Element); ok {
				id, hasID := el.Attr("id")
				if !hasID || !used[id] {
					continue
				}
			}
			kept = append(kept, c)
		}
		defs.Children = kept
	}
}

// collapseGroups hoists the children of attribute-less groups.
func collapseGroups(root *svgdom.Element) {
	var rebuilt []svgdom.Node
	var flatten func(nodes []svgdom.Node) []svgdom.Node
	flatten = func(nodes []svgdom.Node) []svgdom.Node {
		out := make([]svgdom.Node, 0, len(nodes))
		for _, c := range nodes {
			if el, ok := c.(*svgdom.Element); ok {
				el.Children = flatten(el.Children)
				if el.Name == "g" && len(el.Attrs) == 0 {
					out = append(out, el.Children...)
					continue
				}
			}
			out = append(out, c)
		}
		return out
	}
	rebuilt = flatten(root.Children)
	root.Children = rebuilt
}

// cleanupIDs renames identifiers to a compact sequence and rewrites
// every reference. Renaming is deterministic (document order) but
// still unsafe against references living outside the document.
func cleanupIDs(root *svgdom.Element) {
	renames := make(map[string]string)
	counter := 0
	root.Walk(func(el *svgdom.Element) {
		if id, ok := el.Attr("id"); ok {
			short := shortID(counter)
			counter++
			renames[id] = short
			el.SetAttr("id", short)
		}
	})
	if len(renames) == 0 {
		return
	}
	root.Walk(func(el *svgdom.Element) {
		for i, a := range el.Attrs {
			if a.Name == "id" {
				continue
			}
			if v := rewriteRefs(a.Name, a.Value, renames); v != a.Value {
				el.Attrs[i].Value = v
			}
		}
	})
}

// rewriteRefs rewrites every id reference in one pass, so a renamed id
// can never be picked up again by a later substitution.
func rewriteRefs(name, v string, renames map[string]string) string {
	if (name == "href" || name == "xlink:href") && strings.HasPrefix(v, "#") {
		if short, ok := renames[v[1:]]; ok {
			return "#" + short
		}
		return v
	}
	if !strings.Contains(v, "url(#") {
		return v
	}
	var b strings.Builder
	rest := v
	for {
		i := strings.Index(rest, "url(#")
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i+len("url(#")])
		rest = rest[i+len("url(#"):]
		j := strings.IndexByte(rest, ')')
		if j < 0 {
			b.WriteString(rest)
			break
		}
		id := rest[:j]
		if short, ok := renames[id]; ok {
			id = short
		}
		b.WriteString(id)
		rest = rest[j:]
	}
	return b.String()
}

func shortID(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	if n < len(alphabet) {
		return string(alphabet[n])
	}
	return string(alphabet[n%len(alphabet)]) + strconv.Itoa(n/len(alphabet))
}

// referencedIDs extracts the ids referenced by one attribute value.
func referencedIDs(v string) []string {
	var out []string
	if strings.HasPrefix(v, "#") {
		out = append(out, v[1:])
	}
	rest := v
	for {
		i := strings.Index(rest, "url(#")
		if i < 0 {
			break
		}
		rest = rest[i+len("url(#"):]
		j := strings.IndexByte(rest, ')')
		if j < 0 {
			break
		}
		out = append(out, rest[:j])
		rest = rest[j+1:]
	}
	return out
}
