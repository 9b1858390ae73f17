// Package svgopt turns the composite tree into the final text: it
// serializes, repairs the escaping artifacts a generic XML serializer
// introduces, and runs a structure-preserving size optimization.
package svgopt

import (
	"strings"

	"github.com/benoitkugler/svgcollage/svgdom"
)

// repairRules is the explicit substitution table applied after
// serialization. Embedded script and style content must stay
// executable: when a fragment shipped it pre-escaped, the serializer
// escapes it a second time and the markers below come out as literal
// text. The rules are ordered; each is applied globally.
var repairRules = [...]struct{ old, new string }{
	{"&lt;![CDATA[", "<![CDATA["},
	{"]]&gt;", "]]>"},
	{"&lt;script&gt;", "<script>"},
	{"&lt;/script&gt;", "</script>"},
	{"&amp;amp;", "&amp;"},
}

// Repair applies the serializer compatibility substitutions.
func Repair(text string) string {
	for _, r := range repairRules {
		text = strings.ReplaceAll(text, r.old, r.new)
	}
	return text
}

// Postprocess serializes the document, repairs serializer artifacts
// and runs the optimization passes enabled in opts. The result is
// deterministic for identical input trees.
func Postprocess(root *svgdom.Element, opts Options) (string, error) {
	text := Repair(svgdom.Serialize(root))
	return Optimize(text, opts)
}
