package svgcompose

import (
	"context"
	"log/slog"

	"github.com/benoitkugler/svgcollage/svgdom"
	"github.com/benoitkugler/svgcollage/svgfetch"
	"github.com/benoitkugler/svgcollage/svglayout"
)

// ContentResolver obtains the raw content of one item. Failures are
// recoverable: the composer records them and skips the item.
type ContentResolver interface {
	Resolve(ctx context.Context, item svglayout.Item) (*svgfetch.Content, []string, error)
}

// Config configures the output canvas.
type Config struct {
	// Canvas size. Default: 1200x600.
	Width, Height float64
	// ViewBox is the visible window. The default "-150 0 1200 600"
	// letterboxes the canvas so content may be positioned off the
	// left edge.
	ViewBox string
	// Logger for per-item progress. Default: slog.Default().
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Width <= 0 {
		c.Width = 1200
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.ViewBox == "" {
		c.ViewBox = "-150 0 1200 600"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Compose assembles the composite document: a fixed canvas, one shared
// definition pool, and one positioning group (or plain image element)
// per successfully processed item, in input order. An item that fails
// to resolve, parse or normalize contributes nothing and never aborts
// the run; the failure is recorded in the returned diagnostics.
func Compose(ctx context.Context, items []svglayout.Item, resolver ContentResolver, cfg Config) (*svgdom.Element, *Diagnostics) {
	cfg.defaults()
	diag := &Diagnostics{}
	pool := NewDefPool()
	var placed []svgdom.Node

	for _, item := range items {
		if err := item.Validate(); err != nil {
			diag.Warnf(item, "invalid item: %s", err)
			continue
		}
		content, warns, err := resolver.Resolve(ctx, item)
		for _, w := range warns {
			diag.Warnf(item, "%s", w)
		}
		if err != nil {
			diag.Warnf(item, "resolve failed: %s", err)
			continue
		}
		if !content.Inline() {
			// Raster content has no internal coordinate system to
			// reconcile: place it directly.
			placed = append(placed, imageElement(content.Href, item))
			cfg.Logger.Debug("placed image", "url", item.URL)
			continue
		}
		fragment, err := svgdom.ParseString(content.Markup)
		if err != nil {
			diag.Warnf(item, "parse failed: %s", err)
			continue
		}
		pool.MergeFrom(fragment)
		placed = append(placed, Normalize(fragment, item))
		cfg.Logger.Debug("placed fragment", "url", item.URL)
	}

	root := newCanvas(cfg)
	// The definition pool precedes every positioning group, so
	// references resolve regardless of draw order.
	if defs := pool.Element(); defs != nil {
		root.AppendChild(defs)
	}
	root.Children = append(root.Children, placed...)
	return root, diag
}

func newCanvas(cfg Config) *svgdom.Element {
	root := &svgdom.Element{Name: "svg"}
	root.SetAttr("xmlns", "http://www.w3.org/2000/svg")
	root.SetAttr("xmlns:xlink", "http://www.w3.org/1999/xlink")
	root.SetAttr("width", fmtNum(cfg.Width))
	root.SetAttr("height", fmtNum(cfg.Height))
	root.SetAttr("viewBox", cfg.ViewBox)
	return root
}

func imageElement(href string, item svglayout.Item) *svgdom.Element {
	img := &svgdom.Element{Name: "image"}
	img.SetAttr("x", fmtNum(item.X))
	img.SetAttr("y", fmtNum(item.Y))
	img.SetAttr("width", fmtNum(item.Width))
	img.SetAttr("height", fmtNum(item.Height))
	img.SetAttr("xlink:href", href)
	return img
}
