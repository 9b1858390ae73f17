package svgopt

import (
	"strings"
	"testing"

	"github.com/benoitkugler/svgcollage/svgdom"
)

func TestRepairRules(t *testing.T) {
	tests := []struct{ in, want string }{
		{"&lt;![CDATA[x &amp;amp; y]]&gt;", "<![CDATA[x &amp; y]]>"},
		{"&lt;script&gt;var a;&lt;/script&gt;", "<script>var a;</script>"},
		{"plain &amp; text", "plain &amp; text"}, // single escape untouched
		{"no artifacts", "no artifacts"},
	}
	for _, tt := range tests {
		if got := Repair(tt.in); got != tt.want {
			t.Errorf("Repair(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

const optSample = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
	<!-- generator: something -->
	<metadata>junk</metadata>
	<?pi keep?>
	<defs><filter id="used"/><filter id="unused"/></defs>
	<g><rect fill="url(#used)" display="none"/></g>
	<text> keep me </text>
</svg>`

func TestOptimizeDefaultProfile(t *testing.T) {
	out, err := Optimize(optSample, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "generator") {
		t.Error("comment survived RemoveComments")
	}
	if strings.Contains(out, "metadata") {
		t.Error("metadata survived RemoveMetadata")
	}
	if !strings.Contains(out, "<?pi keep?>") {
		t.Error("processing instruction was removed by the default profile")
	}
	if !strings.Contains(out, `viewBox="0 0 10 10"`) {
		t.Error("viewBox was removed by the default profile")
	}
	if !strings.Contains(out, `id="unused"`) {
		t.Error("unreferenced definition was pruned by the default profile")
	}
	if !strings.Contains(out, `display="none"`) {
		t.Error("hidden element was removed by the default profile")
	}
	if !strings.Contains(out, "> keep me <") {
		t.Error("text content whitespace was not preserved")
	}
	if strings.Contains(out, ">\n\t<") {
		t.Error("inter-element whitespace was not collapsed")
	}
}

func TestOptimizeUnsafePasses(t *testing.T) {
	opts := DefaultOptions()
	opts.RemoveProcInst = true
	opts.RemoveViewBox = true
	opts.RemoveHiddenElems = true
	opts.RemoveUselessDefs = true
	out, err := Optimize(optSample, opts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<?pi") {
		t.Error("processing instruction survived RemoveProcInst")
	}
	if strings.Contains(out, "viewBox") {
		t.Error("viewBox survived RemoveViewBox")
	}
	if strings.Contains(out, `display="none"`) {
		t.Error("hidden element survived RemoveHiddenElems")
	}
	if strings.Contains(out, "unused") {
		t.Error("unreferenced definition survived RemoveUselessDefs")
	}
	if !strings.Contains(out, `id="used"`) {
		t.Error("referenced definition was wrongly pruned")
	}
}

func TestOptimizeCollapseGroups(t *testing.T) {
	opts := Options{CollapseGroups: true}
	out, err := Optimize(`<svg><g><g transform="translate(1, 2)"><rect/></g></g></svg>`, opts)
	if err != nil {
		t.Fatal(err)
	}
	// the bare group collapses, the transformed one must not
	if strings.Count(out, "<g") != 1 {
		t.Errorf("expected exactly one surviving group:\n%s", out)
	}
	if !strings.Contains(out, `transform="translate(1, 2)"`) {
		t.Errorf("transform group lost:\n%s", out)
	}
}

func TestOptimizeCleanupIDs(t *testing.T) {
	opts := Options{CleanupIDs: true}
	out, err := Optimize(`<svg><defs><linearGradient id="gradient-one"/></defs><rect fill="url(#gradient-one)"/><use xlink:href="#gradient-one"/></svg>`, opts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "gradient-one") {
		t.Errorf("long id survived CleanupIDs:\n%s", out)
	}
	if !strings.Contains(out, `fill="url(#a)"`) || !strings.Contains(out, `xlink:href="#a"`) {
		t.Errorf("references were not rewritten:\n%s", out)
	}
}

func TestOptimizeEmptyAttrsAndContainers(t *testing.T) {
	opts := Options{RemoveEmptyAttrs: true, RemoveEmptyContainers: true}
	out, err := Optimize(`<svg><g class=""><rect fill=""/></g><g/></svg>`, opts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, `class=""`) || strings.Contains(out, `fill=""`) {
		t.Errorf("empty attribute survived:\n%s", out)
	}
	if strings.Count(out, "<g") != 1 {
		t.Errorf("empty container survived:\n%s", out)
	}
}

func TestPostprocessDeterministic(t *testing.T) {
	root, err := svgdom.ParseString(optSample)
	if err != nil {
		t.Fatal(err)
	}
	a, err := Postprocess(root, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Postprocess(root, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("postprocessing the same tree twice produced different text")
	}
}
