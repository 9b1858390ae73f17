package svgfetch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgcollage/svglayout"
)

var (
	// ErrUnsupportedScheme marks an item URL outside the three
	// supported forms (absolute http(s), blob:, images/).
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	// ErrAssetNotFound marks a local item missing from the asset index.
	ErrAssetNotFound = errors.New("asset not found in index")
)

// Content is the resolved form of one item. Exactly one field is set:
// Markup for inline vector documents, Href for a self-contained image
// reference that the composer places directly.
type Content struct {
	Markup string
	Href   string
}

// Inline reports whether the content carries markup to be normalized.
func (c *Content) Inline() bool { return c.Href == "" }

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// AssetDir is the conventional local asset directory that blob:
	// and images/ paths resolve against. Default: "images".
	AssetDir string
	// Fetch configures the HTTP side.
	Fetch Config
}

func (c *ResolverConfig) defaults() {
	if c.AssetDir == "" {
		c.AssetDir = "images"
	}
}

// Resolver turns a layout item into its raw content. Failures are
// recoverable by contract: the caller records them and moves on.
type Resolver struct {
	fetcher *Fetcher
	index   svglayout.AssetIndex
	cfg     ResolverConfig
}

// NewResolver creates a Resolver over the given asset index.
func NewResolver(index svglayout.AssetIndex, cfg ResolverConfig) *Resolver {
	cfg.defaults()
	return &Resolver{
		fetcher: NewFetcher(cfg.Fetch),
		index:   index,
		cfg:     cfg,
	}
}

// Resolve obtains the content of one item. The returned warnings are
// non-fatal observations (suspicious content type, aspect ratio
// mismatch) that the caller attaches to its diagnostics.
func (r *Resolver) Resolve(ctx context.Context, item svglayout.Item) (*Content, []string, error) {
	if item.Remote() {
		return r.resolveRemote(ctx, item)
	}
	rel, ok := item.LocalRel()
	if !ok {
		return nil, nil, fmt.Errorf("%q: %w", item.URL, ErrUnsupportedScheme)
	}
	return r.resolveLocal(item, rel)
}

func (r *Resolver) resolveRemote(ctx context.Context, item svglayout.Item) (*Content, []string, error) {
	res, err := r.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		return nil, nil, err
	}
	if item.Type.Vector() {
		var warns []string
		if !vectorContentType(res.ContentType) {
			warns = append(warns, fmt.Sprintf("%s: content type %q does not look like svg/xml, using body anyway", item.URL, res.ContentType))
		}
		return &Content{Markup: string(res.Body)}, warns, nil
	}
	// Raster content is embedded as a base64 data URI so the output
	// document stays self-contained.
	warns := probeAspect(res.Body, item)
	return &Content{Href: dataURI(res.Body, item.Type, res.ContentType)}, warns, nil
}

func (r *Resolver) resolveLocal(item svglayout.Item, rel string) (*Content, []string, error) {
	abs, ok := r.index.Lookup(path.Join(r.cfg.AssetDir, rel))
	if !ok {
		return nil, nil, fmt.Errorf("%q: %w", item.URL, ErrAssetNotFound)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", abs, err)
	}
	if item.Type.Vector() {
		return &Content{Markup: string(data)}, nil, nil
	}
	// A local raster asset becomes a minimal one-image document sized
	// to the item, so it flows through normalization like any other
	// fragment.
	warns := probeAspect(data, item)
	return &Content{Markup: imageWrapper(dataURI(data, item.Type, ""), item)}, warns, nil
}

// vectorContentType reports whether a declared content type plausibly
// carries SVG markup.
func vectorContentType(ct string) bool {
	ct = strings.ToLower(ct)
	for _, ok := range []string{"svg", "xml", "text/"} {
		if strings.Contains(ct, ok) {
			return true
		}
	}
	return false
}

// dataURI encodes raster bytes as a self-contained reference.
func dataURI(data []byte, t svglayout.ItemType, declared string) string {
	mime := mimeFor(t)
	if mime == "" {
		if i := strings.IndexByte(declared, ';'); i >= 0 {
			declared = declared[:i]
		}
		mime = strings.TrimSpace(declared)
		if mime == "" || !strings.HasPrefix(mime, "image/") {
			mime = http.DetectContentType(data)
		}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func mimeFor(t svglayout.ItemType) string {
	switch t {
	case svglayout.TypePNG:
		return "image/png"
	case svglayout.TypeJPG, svglayout.TypeJPEG:
		return "image/jpeg"
	case svglayout.TypeGIF:
		return "image/gif"
	}
	return "" // generic "image": sniffed from the bytes
}

// imageWrapper builds the minimal single-image document around href.
// Its intrinsic size equals the requested size, so the placement
// transform degenerates to a translation.
func imageWrapper(href string, item svglayout.Item) string {
	w, h := fmtNum(item.Width), fmtNum(item.Height)
	return `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"` +
		` width="` + w + `" height="` + h + `" viewBox="0 0 ` + w + ` ` + h + `">` +
		`<image x="0" y="0" width="` + w + `" height="` + h + `" xlink:href="` + href + `"/></svg>`
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
