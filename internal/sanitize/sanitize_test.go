package sanitize

import (
	"strings"
	"testing"
)

func TestHTML_Keeps(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "code class",
			in:   `<pre><code class="language-go">x</code></pre>`,
			want: []string{`<code class="language-go">x</code>`},
		},
		{
			name: "math",
			in:   `<span class="math-inline">\(x\)</span>`,
			want: []string{`<span class="math-inline">\(x\)</span>`},
		},
		{
			name: "diagram container",
			in:   `<div class="mermaid">graph LR</div>`,
			want: []string{`<div class="mermaid">graph LR</div>`},
		},
		{
			name: "table alignment",
			in:   `<table><tr><td style="text-align:center">a</td></tr></table>`,
			want: []string{"<td", "text-align", "center"},
		},
		{
			name: "checkbox",
			in:   `<ul><li><input type="checkbox" disabled checked> done</li></ul>`,
			want: []string{"<input", `type="checkbox"`, "disabled", "checked"},
		},
		{
			name: "heading id",
			in:   `<h2 id="intro">Intro</h2>`,
			want: []string{`<h2 id="intro">Intro</h2>`},
		},
		{
			name: "new tab link",
			in:   `<a href="https://example.com" target="_blank" rel="noopener noreferrer">x</a>`,
			want: []string{`href="https://example.com"`, `target="_blank"`, "noreferrer"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTML(tt.in)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("HTML(%q) = %q, missing %q", tt.in, got, w)
				}
			}
		})
	}
}

func TestHTML_Strips(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		banned string
	}{
		{"script", `<p>a</p><script>alert(1)</script>`, "<script"},
		{"event handler", `<img src="a.png" onerror="alert(1)">`, "onerror"},
		{"javascript url", `<a href="javascript:alert(1)">x</a>`, "javascript:"},
		{"text input", `<input type="text" value="x">`, `type="text"`},
		{"style attr", `<p style="color:red">x</p>`, "color"},
		{"iframe", `<iframe src="https://evil"></iframe>`, "<iframe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTML(tt.in); strings.Contains(got, tt.banned) {
				t.Errorf("HTML(%q) = %q, still contains %q", tt.in, got, tt.banned)
			}
		})
	}
}

func TestHTML_DataURIImage(t *testing.T) {
	in := `<img src="data:image/png;base64,iVBORw0KGgo=" alt="d">`
	if got := HTML(in); !strings.Contains(got, "data:image/png;base64,") {
		t.Errorf("HTML() = %q, data URI dropped", got)
	}
}
