package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// The converter and policies are process-wide and immutable after init, so
// ToSafeHTML stays pure and safe for concurrent use.
var (
	// Raw HTML is allowed through the markdown pass because the sanitize
	// pass below is the single safety boundary. This also keeps ToSafeHTML
	// idempotent on its own output.
	converter = goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(ghtml.WithUnsafe()),
	)

	policy = buildPolicy()

	// strictPolicy strips every tag; used for the conversion-failure path.
	strictPolicy = bluemonday.StrictPolicy()
)

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"ul", "ol", "li",
		"em", "strong",
		"code", "pre",
		"blockquote",
		"table", "thead", "tbody", "tr", "th", "td",
	)
	p.AllowAttrs("href", "title", "target").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	return p
}

// ToSafeHTML converts untrusted LLM markdown into HTML restricted to an
// allow-list of tags and attributes. Disallowed markup is stripped, not
// escaped-and-shown. The function is deterministic and performs no I/O.
func ToSafeHTML(markdown string) string {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		// Conversion failure still has to show the user something safe.
		return "<pre>" + strictPolicy.Sanitize(markdown) + "</pre>"
	}
	return policy.Sanitize(buf.String())
}
