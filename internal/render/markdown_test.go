package render

import (
	"strings"
	"testing"
)

func TestToSafeHTMLBasicMarkdown(t *testing.T) {
	got := ToSafeHTML("## 1. Overall Match Score\n- 72%")
	if !strings.Contains(got, "<h2>") {
		t.Fatalf("expected <h2> heading, got %q", got)
	}
	if !strings.Contains(got, "<li>72%</li>") {
		t.Fatalf("expected list item, got %q", got)
	}
}

func TestToSafeHTMLStripsHostileMarkup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		banned  []string
		allowed []string
	}{
		{
			name:   "script tag",
			input:  "hello <script>alert(1)</script> world",
			banned: []string{"<script", "alert(1)"},
		},
		{
			name:   "event handler",
			input:  `<p onerror="steal()">text</p>`,
			banned: []string{"onerror", "steal"},
			allowed: []string{
				"<p>text</p>",
			},
		},
		{
			name:   "javascript href",
			input:  `[click](javascript:alert(1))`,
			banned: []string{"javascript:"},
		},
		{
			name:   "iframe",
			input:  `<iframe src="https://evil.example"></iframe>`,
			banned: []string{"<iframe"},
		},
		{
			name:   "style attribute",
			input:  `<em style="position:fixed">x</em>`,
			banned: []string{"style="},
			allowed: []string{
				"<em>x</em>",
			},
		},
		{
			name:   "malformed nesting",
			input:  "<table><tr><td><script>x</table>",
			banned: []string{"<script"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := ToSafeHTML(tt.input)
			for _, b := range tt.banned {
				if strings.Contains(got, b) {
					t.Fatalf("output contains banned fragment %q: %q", b, got)
				}
			}
			for _, a := range tt.allowed {
				if !strings.Contains(got, a) {
					t.Fatalf("output missing expected fragment %q: %q", a, got)
				}
			}
		})
	}
}

func TestToSafeHTMLLinksGetNoFollow(t *testing.T) {
	got := ToSafeHTML("[site](https://example.com)")
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Fatalf("link href missing: %q", got)
	}
	if !strings.Contains(got, `rel="nofollow"`) {
		t.Fatalf("nofollow missing: %q", got)
	}
}

func TestToSafeHTMLTables(t *testing.T) {
	md := "| a | b |\n|---|---|\n| 1 | 2 |"
	got := ToSafeHTML(md)
	for _, tag := range []string{"<table>", "<thead>", "<tbody>", "<th>", "<td>"} {
		if !strings.Contains(got, tag) {
			t.Fatalf("expected %s in table output: %q", tag, got)
		}
	}
}

func TestToSafeHTMLFencedCode(t *testing.T) {
	got := ToSafeHTML("```\ncode here\n```")
	if !strings.Contains(got, "<pre>") || !strings.Contains(got, "<code") {
		t.Fatalf("expected pre/code block: %q", got)
	}
}

func TestToSafeHTMLIdempotent(t *testing.T) {
	inputs := []string{
		"## Heading\n\nsome *emphasis* and a [link](https://example.com)",
		"| a |\n|---|\n| 1 |",
		"plain text with <script>alert(1)</script>",
	}
	for _, in := range inputs {
		once := ToSafeHTML(in)
		twice := ToSafeHTML(once)
		if once != twice {
			t.Fatalf("not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestToSafeHTMLDeterministic(t *testing.T) {
	in := "## Heading\n- one\n- two\n\n<script>x</script>"
	a := ToSafeHTML(in)
	b := ToSafeHTML(in)
	if a != b {
		t.Fatalf("non-deterministic output:\n%q\n%q", a, b)
	}
}
