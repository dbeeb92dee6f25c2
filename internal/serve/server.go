// Package serve 提供单个 Markdown 文件的实时预览服务。
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mdpreview "github.com/riverfjs/mdpreview-go"
	"github.com/riverfjs/mdpreview-go/internal/logging"
	"github.com/riverfjs/mdpreview-go/internal/postprocess"
)

// FilesPrefix 是工作区文件的 URL 前缀
const FilesPrefix = "/files/"

// Config 服务配置
type Config struct {
	Addr     string
	Debounce time.Duration
	Render   mdpreview.RenderConfig
	Preview  mdpreview.PreviewConfig
	Logger   logging.Logger
}

// Server 渲染并服务一个 Markdown 文件，文件变化时重新渲染并通知浏览器
type Server struct {
	file   string
	root   string
	cfg    Config
	logger logging.Logger

	mu      sync.RWMutex
	doc     *mdpreview.Document
	version uint64
	lastErr error

	clientsMu sync.Mutex
	clients   map[chan uint64]struct{}
}

// New 创建 Server。file 所在目录作为 /files/ 的根目录。
func New(file string, cfg Config) (*Server, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", file, err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	s := &Server{
		file:    abs,
		root:    filepath.Dir(abs),
		cfg:     cfg,
		logger:  logging.WithFields(logger, map[string]any{"file": abs}),
		clients: make(map[chan uint64]struct{}),
	}
	s.cfg.Render.ImageResolver = ResolveImage
	s.cfg.Preview.Render = &s.cfg.Render
	// 页面直接嵌入渲染结果，清洗不可关闭
	s.cfg.Preview.Sanitize = true
	return s, nil
}

// ResolveImage 将工作区相对路径映射到 /files/，绝对 URL 与 data URI 原样返回
func ResolveImage(raw string) string {
	if raw == "" || strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "#") {
		return raw
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return raw
	}
	clean := path.Clean("/" + strings.ReplaceAll(raw, "\\", "/"))
	return FilesPrefix + strings.TrimPrefix(clean, "/")
}

// Reload 重新读取并渲染文件，成功后通知所有客户端
func (s *Server) Reload(ctx context.Context) error {
	source, err := os.ReadFile(s.file)
	if err != nil {
		s.setError(err)
		return fmt.Errorf("read %s: %w", s.file, err)
	}
	doc, err := mdpreview.Preview(ctx, source, s.cfg.Preview)
	if err != nil {
		s.setError(err)
		return fmt.Errorf("render %s: %w", s.file, err)
	}

	s.mu.Lock()
	s.doc = doc
	s.lastErr = nil
	s.version++
	version := s.version
	s.mu.Unlock()

	s.logger.Info("document rendered", "version", version, "words", doc.Stats.Words)
	s.broadcast(version)
	return nil
}

func (s *Server) setError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Document returns the latest rendered document and its version.
func (s *Server) Document() (*mdpreview.Document, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.version
}

// Handler 返回服务路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/document", s.handleDocument)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/style.css", s.handleStyle)
	mux.Handle(FilesPrefix, http.StripPrefix(FilesPrefix, http.FileServer(http.Dir(s.root))))
	return withRecovery(s.logger, mux)
}

// Run 启动 watcher 和 HTTP 服务，直到 ctx 结束
func (s *Server) Run(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		s.logger.Error("initial render failed", "error", err)
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- s.Watch(ctx)
	}()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", s.cfg.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-watchErr:
		if err != nil {
			s.logger.Error("watcher stopped", "error", err)
		}
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}}{{else}}Preview{{end}}</title>
<link rel="stylesheet" href="/style.css">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.css">
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.js"></script>
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/contrib/auto-render.min.js"
  onload="renderMathInElement(document.body)"></script>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
</head>
<body data-version="{{.Version}}">
{{if .Error}}<pre class="error">{{.Error}}</pre>{{end}}
<article>{{.HTML}}</article>
<script>
new EventSource("/events").onmessage = function () { location.reload(); };
</script>
</body>
</html>
`))

type indexData struct {
	Title   string
	HTML    template.HTML
	Version uint64
	Error   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	data := indexData{Version: s.version}
	if s.doc != nil {
		data.Title = s.doc.Title
		// New 强制开启清洗
		data.HTML = template.HTML(s.doc.HTML)
	}
	if s.lastErr != nil {
		data.Error = s.lastErr.Error()
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render index failed", "error", err)
	}
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, version := s.Document()
	if doc == nil {
		http.Error(w, "document not rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Version uint64 `json:"version"`
		*mdpreview.Document
	}{version, doc})
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	css, err := postprocess.CSS(s.cfg.Preview.Style)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(css))
}

func withRecovery(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("handler panic", "path", r.URL.Path, "panic", rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
