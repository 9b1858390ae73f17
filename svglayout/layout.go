// Package svglayout decodes and validates the layout describing which
// fragments go where on the canvas, and indexes the local assets they
// may reference.
package svglayout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemType is the declared kind of a layout item. "svg" is the only
// vector type; everything else is raster content.
type ItemType string

const (
	TypeSVG   ItemType = "svg"
	TypeImage ItemType = "image"
	TypePNG   ItemType = "png"
	TypeJPG   ItemType = "jpg"
	TypeJPEG  ItemType = "jpeg"
	TypeGIF   ItemType = "gif"
)

// Vector reports whether the item carries vector markup.
func (t ItemType) Vector() bool { return t == TypeSVG }

func (t ItemType) known() bool {
	switch t {
	case TypeSVG, TypeImage, TypePNG, TypeJPG, TypeJPEG, TypeGIF:
		return true
	}
	return false
}

// Item is one positioned fragment of the layout. Later items are drawn
// on top of earlier ones.
type Item struct {
	URL    string   `json:"url"`
	Type   ItemType `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

const (
	blobPrefix  = "blob:"
	localPrefix = "images/"
)

// Remote reports whether the item references an absolute http(s) URL.
func (it Item) Remote() bool {
	return strings.HasPrefix(it.URL, "http://") || strings.HasPrefix(it.URL, "https://")
}

// LocalRel returns the path of a local item, relative to the asset
// directory, and whether the URL uses one of the two local prefixes.
func (it Item) LocalRel() (string, bool) {
	if rel, ok := strings.CutPrefix(it.URL, blobPrefix); ok {
		return strings.TrimPrefix(rel, localPrefix), true
	}
	if rel, ok := strings.CutPrefix(it.URL, localPrefix); ok {
		return rel, true
	}
	return "", false
}

// Validate checks the per-item invariants. A violation makes the item
// skippable, never the run fatal.
func (it Item) Validate() error {
	if !it.Type.known() {
		return fmt.Errorf("unknown item type %q", it.Type)
	}
	if it.Width <= 0 || it.Height <= 0 {
		return fmt.Errorf("invalid dimensions %gx%g", it.Width, it.Height)
	}
	if !it.Remote() {
		if _, ok := it.LocalRel(); !ok {
			return fmt.Errorf("unsupported url scheme in %q", it.URL)
		}
	}
	return nil
}

// ParseLayout decodes the layout input. A top level that is not a JSON
// array is a fatal input error: no item has been touched yet and the
// whole run must abort.
func ParseLayout(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("layout must be a JSON array of items: %w", err)
	}
	return items, nil
}
