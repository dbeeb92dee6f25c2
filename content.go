package mdpreview

import (
	"github.com/riverfjs/mdpreview-go/internal/mermaid"
	"github.com/riverfjs/mdpreview-go/internal/outline"
)

// Heading is one entry of the document outline.
type Heading = outline.Heading

// Stats holds document statistics.
type Stats = outline.Stats

// DiagramRenderer turns diagram sources into image URLs and caches the
// embedded results. It is safe for concurrent use.
type DiagramRenderer = mermaid.Renderer

// 图表模式
const (
	DiagramsClient = string(mermaid.ModeClient)
	DiagramsLink   = string(mermaid.ModeLink)
	DiagramsEmbed  = string(mermaid.ModeEmbed)
)

// NewDiagramRenderer 创建图表渲染器。mode 为 client、link 或 embed。
func NewDiagramRenderer(mode, theme string) *DiagramRenderer {
	return mermaid.NewRenderer(mermaid.ParseMode(mode), mermaid.WithTheme(theme))
}

// PreviewConfig 预览管道配置
type PreviewConfig struct {
	// Render 为 nil 时使用 DefaultConfig()
	Render *RenderConfig
	// Highlight 启用 chroma 代码高亮
	Highlight bool
	// Style chroma 样式名
	Style string
	// Diagrams 为 nil 时图表容器留给浏览器端渲染
	Diagrams *DiagramRenderer
	// Sanitize 启用 HTML 清洗
	Sanitize bool
}

// DefaultPreviewConfig returns the default preview configuration.
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Highlight: true,
		Style:     "github",
		Sanitize:  true,
	}
}

// Document 预览结果
type Document struct {
	Title       string         `json:"title"`
	FrontMatter map[string]any `json:"front_matter,omitempty"`
	// Body 是去掉 front matter 后的 Markdown
	Body    string    `json:"-"`
	HTML    string    `json:"html"`
	Outline []Heading `json:"outline"`
	Stats   Stats     `json:"stats"`
}
