package serve

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdpreview "github.com/riverfjs/mdpreview-go"
)

func newTestServer(t *testing.T, content string) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := New(file, Config{
		Debounce: 20 * time.Millisecond,
		Render:   *mdpreview.DefaultConfig(),
		Preview:  mdpreview.DefaultPreviewConfig(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, file
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestResolveImage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"img/a.png", "/files/img/a.png"},
		{"./img/a.png", "/files/img/a.png"},
		{"../../etc/passwd", "/files/etc/passwd"},
		{`img\a.png`, "/files/img/a.png"},
		{"/abs/a.png", "/abs/a.png"},
		{"https://example.com/a.png", "https://example.com/a.png"},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ResolveImage(tt.in); got != tt.want {
				t.Errorf("ResolveImage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestServer_Routes(t *testing.T) {
	s, file := newTestServer(t, "# Hello\n\n![logo](logo.png)\n")
	if err := os.WriteFile(filepath.Join(filepath.Dir(file), "logo.png"), []byte("PNGDATA"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	t.Run("index", func(t *testing.T) {
		code, body := get(t, srv, "/")
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		for _, want := range []string{
			"<title>Hello</title>",
			`<h1 id="hello">Hello</h1>`,
			`src="/files/logo.png"`,
			`new EventSource("/events")`,
		} {
			if !strings.Contains(body, want) {
				t.Errorf("index missing %q", want)
			}
		}
	})

	t.Run("document", func(t *testing.T) {
		code, body := get(t, srv, "/api/document")
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		var doc struct {
			Version uint64 `json:"version"`
			Title   string `json:"title"`
			Outline []struct {
				ID string `json:"id"`
			} `json:"outline"`
		}
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if doc.Version != 1 || doc.Title != "Hello" || len(doc.Outline) != 1 {
			t.Errorf("document = %+v", doc)
		}
	})

	t.Run("files", func(t *testing.T) {
		code, body := get(t, srv, "/files/logo.png")
		if code != http.StatusOK || body != "PNGDATA" {
			t.Errorf("files = %d %q", code, body)
		}
	})

	t.Run("style", func(t *testing.T) {
		code, body := get(t, srv, "/style.css")
		if code != http.StatusOK || !strings.Contains(body, ".chroma") {
			t.Errorf("style = %d %q", code, body)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if code, _ := get(t, srv, "/nope"); code != http.StatusNotFound {
			t.Errorf("status = %d", code)
		}
	})
}

func TestServer_DocumentNotReady(t *testing.T) {
	s, _ := newTestServer(t, "x")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	if code, _ := get(t, srv, "/api/document"); code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", code)
	}
}

func TestServer_ReloadMissingFile(t *testing.T) {
	s, file := newTestServer(t, "x")
	if err := os.Remove(file); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Reload(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	_, body := get(t, srv, "/")
	if !strings.Contains(body, `<pre class="error">`) {
		t.Errorf("index should show the error: %s", body)
	}
}

func TestServer_Broadcast(t *testing.T) {
	s, _ := newTestServer(t, "# a")
	ch := s.subscribe()
	defer s.unsubscribe(ch)

	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	select {
	case v := <-ch:
		if v != 1 {
			t.Errorf("version = %d, want 1", v)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
}

func TestServer_Events(t *testing.T) {
	s, _ := newTestServer(t, "# a")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	buf := make([]byte, 64)
	n, err := resp.Body.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(buf[:n]), ": connected") {
		t.Errorf("first event = %q", buf[:n])
	}

	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	var got strings.Builder
	for !strings.Contains(got.String(), "data: reload") {
		n, err := resp.Body.Read(buf)
		if err != nil {
			t.Fatalf("read: %v (got %q)", err, got.String())
		}
		got.Write(buf[:n])
	}
}

func TestServer_WatchReloads(t *testing.T) {
	s, file := newTestServer(t, "# one")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// 等待 watcher 就绪后再写文件
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := os.WriteFile(file, []byte("# two"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(100 * time.Millisecond)
		if doc, _ := s.Document(); doc != nil && doc.Title == "two" {
			break
		}
	}

	doc, _ := s.Document()
	if doc == nil || doc.Title != "two" {
		t.Fatalf("document not reloaded: %+v", doc)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not stop")
	}
}

func TestServer_AlwaysSanitizes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	src := "<span onclick=\"steal()\">hi</span>\n\n<div onmouseover=\"steal()\">block</div>\n"
	if err := os.WriteFile(file, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	preview := mdpreview.DefaultPreviewConfig()
	preview.Sanitize = false
	s, err := New(file, Config{Render: *mdpreview.DefaultConfig(), Preview: preview})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	_, body := get(t, srv, "/")
	if strings.Contains(body, "steal()") {
		t.Errorf("index contains unsanitized handlers:\n%s", body)
	}
	if !strings.Contains(body, "hi") || !strings.Contains(body, "block") {
		t.Errorf("index lost content:\n%s", body)
	}
}
