package postprocess

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riverfjs/mdpreview-go/internal/mermaid"
	"github.com/riverfjs/mdpreview-go/internal/outline"
)

func TestProcess_Passthrough(t *testing.T) {
	in := `<p>a &amp; b</p><ul><li>x</li></ul>`
	got, err := New(Config{}).Process(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != in {
		t.Errorf("Process() = %q, want %q", got, in)
	}
}

func TestAnchorHeadings(t *testing.T) {
	in := "<h1>Intro</h1>\n<h2>Install <code>tool</code></h2>\n<h2>Extra</h2>"
	headings := []outline.Heading{
		{Level: 1, Text: "Intro", ID: "intro"},
		{Level: 3, Text: "Nested in quote", ID: "nested-in-quote"},
		{Level: 2, Text: "Install tool", ID: "install-tool"},
	}
	got, err := New(Config{}).Process(context.Background(), in, headings)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := "<h1 id=\"intro\">Intro</h1>\n<h2 id=\"install-tool\">Install <code>tool</code></h2>\n<h2>Extra</h2>"
	if got != want {
		t.Errorf("Process() =\n%s\nwant\n%s", got, want)
	}
}

func TestHighlight(t *testing.T) {
	in := `<pre><code class="language-go">func main() {}</code></pre>`
	got, err := New(Config{Highlight: true, Style: "github"}).Process(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for _, want := range []string{`<pre class="chroma">`, `<code class="language-go">`, `<span class="kd">func</span>`} {
		if !strings.Contains(got, want) {
			t.Errorf("Process() = %q, missing %q", got, want)
		}
	}
}

func TestHighlight_ExtFallbackAndUnknown(t *testing.T) {
	if lexerFor("shell") == nil {
		t.Error("lexerFor(shell) = nil")
	}
	if lexerFor("no-such-language") != nil {
		t.Error("lexerFor(no-such-language) should be nil")
	}

	in := `<pre><code class="language-no-such-language">a &lt; b</code></pre>`
	got, err := New(Config{Highlight: true}).Process(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != in {
		t.Errorf("Process() = %q, want unchanged", got)
	}
}

func TestCSS(t *testing.T) {
	css, err := CSS("monokai")
	if err != nil {
		t.Fatalf("CSS: %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CSS() missing .chroma rules")
	}
}

func TestDiagrams_Link(t *testing.T) {
	r := mermaid.NewRenderer(mermaid.ModeLink, mermaid.WithBaseURL("http://ink.test"))
	in := `<p>x</p><div class="mermaid">graph LR
  A--&gt;B</div>`
	got, err := New(Config{Diagrams: r}).Process(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if strings.Contains(got, `class="mermaid"`) {
		t.Errorf("Process() = %q, diagram container kept", got)
	}
	if !strings.Contains(got, `<img src="http://ink.test/img/pako:`) {
		t.Errorf("Process() = %q, missing image", got)
	}
}

func TestDiagrams_ClientModeUntouched(t *testing.T) {
	in := `<div class="mermaid">graph LR</div>`
	got, err := New(Config{Diagrams: mermaid.NewRenderer(mermaid.ModeClient)}).Process(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != in {
		t.Errorf("Process() = %q", got)
	}
}

func TestDiagrams_EmbedFailureKeepsContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := mermaid.NewRenderer(mermaid.ModeEmbed, mermaid.WithBaseURL(srv.URL))
	in := `<div class="mermaid">graph LR</div>`
	got, err := New(Config{Diagrams: r}).Process(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != in {
		t.Errorf("Process() = %q, want container kept", got)
	}
}

func TestDiagrams_Embed(t *testing.T) {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	r := mermaid.NewRenderer(mermaid.ModeEmbed, mermaid.WithBaseURL(srv.URL))
	got, err := New(Config{Diagrams: r}).Process(context.Background(), `<div class="mermaid">graph LR</div>`, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.HasPrefix(got, `<a href="https://mermaid.live/edit/#pako:`) {
		t.Errorf("Process() = %q, want editor link", got)
	}
	if !strings.Contains(got, `<img src="data:image/png;base64,`) {
		t.Errorf("Process() = %q", got)
	}
}

func TestDiagrams_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := mermaid.NewRenderer(mermaid.ModeLink)
	_, err := New(Config{Diagrams: r}).Process(ctx, `<div class="mermaid">graph LR</div>`, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
}
