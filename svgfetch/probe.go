package svgfetch

import (
	"bytes"
	"fmt"
	"image"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/benoitkugler/svgcollage/svglayout"
)

// aspectTolerance is the relative divergence between the decoded and
// the requested aspect ratio above which a warning is emitted.
const aspectTolerance = 0.01

// probeAspect decodes the raster header and compares its aspect ratio
// with the box requested by the item. Undecodable content is not a
// failure: the bytes are embedded regardless, the probe only feeds
// diagnostics.
func probeAspect(data []byte, item svglayout.Item) []string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil
	}
	intrinsic := float64(cfg.Width) / float64(cfg.Height)
	requested := item.Width / item.Height
	if math.Abs(intrinsic-requested)/requested > aspectTolerance {
		return []string{fmt.Sprintf("%s: image is %dx%d but placed in a %gx%g box, it will be distorted",
			item.URL, cfg.Width, cfg.Height, item.Width, item.Height)}
	}
	return nil
}
