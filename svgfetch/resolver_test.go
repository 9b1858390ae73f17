package svgfetch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgcollage/svglayout"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestResolver(t *testing.T, files map[string][]byte) *Resolver {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, "images", name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	index, err := svglayout.BuildAssetIndex(dir, "images/*")
	if err != nil {
		t.Fatal(err)
	}
	return NewResolver(index, ResolverConfig{})
}

func TestResolveRemoteSVG(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"/>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(doc))
	}))
	defer srv.Close()

	r := newTestResolver(t, nil)
	content, warns, err := r.Resolve(context.Background(), svglayout.Item{
		URL: srv.URL, Type: svglayout.TypeSVG, Width: 10, Height: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Errorf("unexpected warnings: %v", warns)
	}
	if !content.Inline() || content.Markup != doc {
		t.Errorf("unexpected content: %+v", content)
	}
}

func TestResolveRemoteSVGWrongContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
	}))
	defer srv.Close()

	r := newTestResolver(t, nil)
	content, warns, err := r.Resolve(context.Background(), svglayout.Item{
		URL: srv.URL, Type: svglayout.TypeSVG, Width: 10, Height: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 1 {
		t.Fatalf("expected a content type warning, got %v", warns)
	}
	if content.Markup == "" {
		t.Error("body should still be used despite the content type")
	}
}

func TestResolveRemoteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	r := newTestResolver(t, nil)
	_, _, err := r.Resolve(context.Background(), svglayout.Item{
		URL: srv.URL, Type: svglayout.TypeSVG, Width: 10, Height: 10,
	})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 404 {
		t.Fatalf("expected a 404 StatusError, got %v", err)
	}
}

func TestResolveRemoteRasterEmbeds(t *testing.T) {
	img := pngBytes(t, 20, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	}))
	defer srv.Close()

	r := newTestResolver(t, nil)
	content, warns, err := r.Resolve(context.Background(), svglayout.Item{
		URL: srv.URL, Type: svglayout.TypePNG, Width: 200, Height: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if content.Inline() {
		t.Fatal("remote raster should resolve to an image reference")
	}
	if !strings.HasPrefix(content.Href, "data:image/png;base64,") {
		t.Errorf("unexpected href prefix: %.40s", content.Href)
	}
	if len(warns) != 0 {
		t.Errorf("aspect ratios match, no warning expected: %v", warns)
	}
}

func TestResolveRemoteRasterAspectWarning(t *testing.T) {
	img := pngBytes(t, 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	}))
	defer srv.Close()

	r := newTestResolver(t, nil)
	_, warns, err := r.Resolve(context.Background(), svglayout.Item{
		URL: srv.URL, Type: svglayout.TypePNG, Width: 200, Height: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "distorted") {
		t.Errorf("expected an aspect ratio warning, got %v", warns)
	}
}

func TestResolveUnsupportedScheme(t *testing.T) {
	r := newTestResolver(t, nil)
	_, _, err := r.Resolve(context.Background(), svglayout.Item{
		URL: "ftp://example.com/a.svg", Type: svglayout.TypeSVG, Width: 10, Height: 10,
	})
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestResolveLocal(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"/>`
	r := newTestResolver(t, map[string][]byte{
		"icon.svg":  []byte(doc),
		"photo.png": pngBytes(t, 8, 4),
	})

	for _, url := range []string{"blob:icon.svg", "images/icon.svg"} {
		content, _, err := r.Resolve(context.Background(), svglayout.Item{
			URL: url, Type: svglayout.TypeSVG, Width: 4, Height: 4,
		})
		if err != nil {
			t.Fatalf("%s: %v", url, err)
		}
		if content.Markup != doc {
			t.Errorf("%s: unexpected markup %q", url, content.Markup)
		}
	}

	content, _, err := r.Resolve(context.Background(), svglayout.Item{
		URL: "blob:photo.png", Type: svglayout.TypePNG, X: 1, Y: 2, Width: 80, Height: 40,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !content.Inline() {
		t.Fatal("local raster should resolve to a wrapper document")
	}
	for _, want := range []string{`width="80"`, `viewBox="0 0 80 40"`, `xlink:href="data:image/png;base64,`} {
		if !strings.Contains(content.Markup, want) {
			t.Errorf("wrapper is missing %q:\n%s", want, content.Markup)
		}
	}
}

func TestResolveLocalMissing(t *testing.T) {
	r := newTestResolver(t, nil)
	_, _, err := r.Resolve(context.Background(), svglayout.Item{
		URL: "blob:nope.svg", Type: svglayout.TypeSVG, Width: 1, Height: 1,
	})
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}
