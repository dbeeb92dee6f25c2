package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdpreview "github.com/riverfjs/mdpreview-go"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	prev := mdpreview.Logger
	t.Cleanup(func() { mdpreview.SetLogger(prev) })

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return file
}

func TestRender(t *testing.T) {
	file := writeFile(t, "# Hi\n\n*x* <script>y</script>")
	out, err := run(t, "", "render", file)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`<h1 id="hi">Hi</h1>`, "<em>x</em>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "<script") {
		t.Errorf("output contains script: %s", out)
	}
}

func TestRender_RawStdin(t *testing.T) {
	out, err := run(t, "# Hi", "render", "--raw", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<h1>Hi</h1>\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRender_OutFile(t *testing.T) {
	file := writeFile(t, "text")
	dest := filepath.Join(t.TempDir(), "site", "out.html")
	out, err := run(t, "", "render", file, "-o", dest)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "<p>text</p>\n" {
		t.Errorf("file = %q", data)
	}
}

func TestRender_InvalidDiagramMode(t *testing.T) {
	file := writeFile(t, "x")
	if _, err := run(t, "", "render", file, "--diagrams", "bogus"); err == nil {
		t.Fatal("expected error for invalid diagram mode")
	}
}

func TestRender_MissingFile(t *testing.T) {
	if _, err := run(t, "", "render", filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRender_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mdpreview.yaml")
	if err := os.WriteFile(cfgPath, []byte("render:\n  links_new_tab: false\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, "[a](b)", "render", "--raw", "--config", cfgPath, "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(out) != `<p><a href="b">a</a></p>` {
		t.Errorf("output = %q", out)
	}
}

func TestOutline(t *testing.T) {
	file := writeFile(t, "---\ntitle: x\n---\n# One\n\n## Two words\n")
	out, err := run(t, "", "outline", file)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	var got outlineOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(got.Outline) != 2 || got.Outline[1].ID != "two-words" {
		t.Errorf("outline = %+v", got.Outline)
	}
	if got.Stats.Headings != 2 || got.Stats.Words != 3 {
		t.Errorf("stats = %+v", got.Stats)
	}
}

func TestArgsRequired(t *testing.T) {
	for _, name := range []string{"render", "outline", "serve"} {
		t.Run(name, func(t *testing.T) {
			if _, err := run(t, "", name); err == nil {
				t.Errorf("%s without args should fail", name)
			}
		})
	}
}
