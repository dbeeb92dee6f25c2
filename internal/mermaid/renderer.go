package mermaid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"
)

// Mode 决定图表如何出现在 HTML 中
type Mode string

const (
	// ModeClient 保留 <div class="mermaid">，由浏览器端 mermaid.js 渲染
	ModeClient Mode = "client"
	// ModeLink 输出指向 mermaid.ink 的 <img>
	ModeLink Mode = "link"
	// ModeEmbed 下载图片并内联为 data URI
	ModeEmbed Mode = "embed"
)

// ParseMode 解析配置中的模式名，未知值返回 ModeClient
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeLink, ModeEmbed:
		return Mode(s)
	}
	return ModeClient
}

// Renderer 将图表源码转换为图片地址。嵌入结果按源码哈希缓存，可并发使用。
type Renderer struct {
	mode   Mode
	base   string
	theme  string
	client *http.Client
	cache  *xsync.MapOf[uint64, string]
}

// RendererOption 配置 Renderer
type RendererOption func(*Renderer)

// WithBaseURL 覆盖 mermaid.ink 地址
func WithBaseURL(base string) RendererOption {
	return func(r *Renderer) {
		r.base = base
	}
}

// WithTheme 设置图表主题
func WithTheme(theme string) RendererOption {
	return func(r *Renderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithHTTPClient 设置下载使用的 HTTP 客户端
func WithHTTPClient(client *http.Client) RendererOption {
	return func(r *Renderer) {
		r.client = client
	}
}

// NewRenderer 创建 Renderer
func NewRenderer(mode Mode, opts ...RendererOption) *Renderer {
	r := &Renderer{
		mode:  mode,
		base:  DefaultInkBase,
		theme: DefaultTheme,
		cache: xsync.NewMapOf[uint64, string](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the renderer mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Render 返回图表的图片地址。ModeClient 下返回空串。
func (r *Renderer) Render(ctx context.Context, diagram string) (string, error) {
	switch r.mode {
	case ModeLink:
		return ImageURL(r.base, diagram, r.theme)
	case ModeEmbed:
		return r.embed(ctx, diagram)
	}
	return "", nil
}

func (r *Renderer) embed(ctx context.Context, diagram string) (string, error) {
	key := xxhash.Sum64String(r.theme + "\x00" + diagram)
	if src, ok := r.cache.Load(key); ok {
		return src, nil
	}

	imgURL, err := ImageURL(r.base, diagram, r.theme)
	if err != nil {
		return "", fmt.Errorf("render diagram: %w", err)
	}
	img, err := Fetch(ctx, r.client, imgURL)
	if err != nil {
		return "", fmt.Errorf("render diagram: %w", err)
	}
	src := img.DataURI()

	r.cache.Store(key, src)
	return src, nil
}

// EditURL 返回该图表在 mermaid.live 中的编辑地址
func (r *Renderer) EditURL(diagram string) (string, error) {
	return EditURL(diagram, r.theme)
}

// CacheSize returns the number of cached embedded diagrams.
func (r *Renderer) CacheSize() int {
	return r.cache.Size()
}
