package svgcompose

import (
	"github.com/benoitkugler/svgcollage/svgdom"
)

// DefPool hoists the shared definitions (gradients, filters, symbols)
// of every fragment into one <defs> container. Identifiers are
// first-write-wins: a later fragment's definition with a colliding id
// is dropped. Definitions without an id cannot collide by identity and
// are always appended.
type DefPool struct {
	container *svgdom.Element
	seen      map[string]bool
}

// NewDefPool creates an empty pool.
func NewDefPool() *DefPool {
	return &DefPool{seen: make(map[string]bool)}
}

// MergeFrom hoists the content of every definition container found in
// the fragment (there may be more than one, at any depth) into the
// pool. Only direct element children of a container are considered;
// text and comment nodes between definitions carry no meaning. Nodes
// are cloned into the pool, the fragment is left untouched.
func (p *DefPool) MergeFrom(fragment *svgdom.Element) {
	for _, defs := range fragment.FindAll("defs") {
		for _, def := range defs.ChildElements() {
			id, hasID := def.Attr("id")
			if hasID {
				if p.seen[id] {
					continue
				}
				p.seen[id] = true
			}
			p.element().AppendChild(def.Clone())
		}
	}
}

// Element returns the pool's <defs> container, or nil when no
// definition was ever merged. The container is created lazily so an
// output without definitions carries no empty <defs>.
func (p *DefPool) Element() *svgdom.Element { return p.container }

func (p *DefPool) element() *svgdom.Element {
	if p.container == nil {
		p.container = &svgdom.Element{Name: "defs"}
	}
	return p.container
}
