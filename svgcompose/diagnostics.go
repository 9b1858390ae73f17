// Package svgcompose assembles one composite SVG document from a list
// of positioned fragments: it reconciles each fragment's coordinate
// system against its target placement, hoists shared definitions into
// a single deduplicated pool, and emits a fixed-canvas output tree.
package svgcompose

import (
	"fmt"

	"github.com/benoitkugler/svgcollage/svglayout"
)

// Warning is one recoverable, item-tagged diagnostic.
type Warning struct {
	Item svglayout.Item
	Msg  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %s", w.Item.URL, w.Item.Type, w.Msg)
}

// Diagnostics collects the recoverable failures and observations of
// one run. It replaces a process-wide warning log: the collector is
// created per run, threaded through the pipeline, and drained by the
// caller at the end.
type Diagnostics struct {
	warnings []Warning
}

// Warnf records a warning against an item.
func (d *Diagnostics) Warnf(item svglayout.Item, format string, args ...any) {
	d.warnings = append(d.warnings, Warning{Item: item, Msg: fmt.Sprintf(format, args...)})
}

// Warnings returns every recorded warning, in emission order.
func (d *Diagnostics) Warnings() []Warning { return d.warnings }

// Len returns the number of recorded warnings.
func (d *Diagnostics) Len() int { return len(d.warnings) }
