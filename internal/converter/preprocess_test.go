package converter

import (
	"testing"

	"github.com/riverfjs/mdpreview-go/internal/types"
)

func TestNormalize(t *testing.T) {
	got := Normalize("a\r\nb\x00c\r\n")
	want := "a\nb\uFFFDc\n"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestProtect(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		kinds []types.Kind
		raws  []string
	}{
		{
			name:  "code span",
			in:    "a `b` c",
			kinds: []types.Kind{types.KindCode},
			raws:  []string{"b"},
		},
		{
			name:  "math inside code stays code",
			in:    "`$x$`",
			kinds: []types.Kind{types.KindCode},
			raws:  []string{"$x$"},
		},
		{
			name:  "display before inline",
			in:    "$$a$$ and $b$",
			kinds: []types.Kind{types.KindDisplayMath, types.KindInlineMath},
			raws:  []string{"a", "b"},
		},
		{
			name:  "escaped dollar blocks math",
			in:    `\$1 and \$2`,
			kinds: []types.Kind{types.KindDollar, types.KindDollar},
			raws:  []string{"$", "$"},
		},
		{
			name:  "fence hides everything",
			in:    "```go\n`x` $y$ <b>\n```",
			kinds: []types.Kind{types.KindFence},
			raws:  []string{"`x` $y$ <b>"},
		},
		{
			name:  "comment",
			in:    "a <!-- c --> b",
			kinds: []types.Kind{types.KindInlineHTML},
			raws:  []string{"<!-- c -->"},
		},
		{
			name:  "block html",
			in:    "<div>\nhi\n</div>",
			kinds: []types.Kind{types.KindBlockHTML},
			raws:  []string{"<div>\nhi\n</div>"},
		},
		{
			name:  "block tag mid-line is inline",
			in:    "`x`<div>",
			kinds: []types.Kind{types.KindCode, types.KindInlineHTML},
			raws:  []string{"x", "<div>"},
		},
		{
			name: "executable tags are not protected",
			in:   "<script>x</script><iframe src=a>",
		},
		{
			name:  "executable tags inside block html are escaped",
			in:    "<div><script>x</script></div>\n<STYLE>p{}</STYLE>",
			kinds: []types.Kind{types.KindBlockHTML},
			raws:  []string{"<div>&lt;script&gt;x&lt;/script&gt;</div>\n&lt;STYLE&gt;p{}&lt;/STYLE&gt;"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := Protect(tt.in).Protected()
			if len(spans) != len(tt.kinds) {
				t.Fatalf("Protect(%q) = %d spans, want %d: %+v", tt.in, len(spans), len(tt.kinds), spans)
			}
			for i, span := range spans {
				if span.Kind != tt.kinds[i] || span.Raw != tt.raws[i] {
					t.Errorf("span %d = %v %q, want %v %q", i, span.Kind.Tag(), span.Raw, tt.kinds[i].Tag(), tt.raws[i])
				}
			}
		})
	}
}

func TestProtect_FenceLanguageAndTrailingBlankLines(t *testing.T) {
	spans := Protect("```python  extra\nprint(1)\n\n  \n```\n").Protected()
	if len(spans) != 1 {
		t.Fatalf("got %d spans", len(spans))
	}
	if spans[0].Lang != "python" {
		t.Errorf("Lang = %q, want python", spans[0].Lang)
	}
	if spans[0].Raw != "print(1)" {
		t.Errorf("Raw = %q, want %q", spans[0].Raw, "print(1)")
	}
}

func TestEscape_SkipsProtected(t *testing.T) {
	doc := Protect("x < y `<z>`")
	Escape(doc)

	if doc.Segments[0].Text != "x &lt; y " {
		t.Errorf("text segment = %q", doc.Segments[0].Text)
	}
	if doc.Segments[1].Span.Raw != "<z>" {
		t.Errorf("protected raw = %q", doc.Segments[1].Span.Raw)
	}
}

func TestFlatten(t *testing.T) {
	text, spans := Protect("a `b` c").Flatten()
	want := "a " + types.Token(types.KindCode, 0) + " c"
	if text != want {
		t.Errorf("Flatten() = %q, want %q", text, want)
	}
	if spans.Len() != 1 {
		t.Errorf("spans.Len() = %d, want 1", spans.Len())
	}
}
