package mdpreview

import (
	"bytes"
	"context"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/riverfjs/mdpreview-go/internal/logging"
	"github.com/riverfjs/mdpreview-go/internal/outline"
	"github.com/riverfjs/mdpreview-go/internal/postprocess"
	"github.com/riverfjs/mdpreview-go/internal/sanitize"
)

// Preview 完整预览管道：markdown 源文件 → Document
//
// 步骤：
//  1. 分离 front matter
//  2. 用 goldmark 提取大纲与统计
//  3. 解析引擎生成 HTML
//  4. 后处理：标题锚点、代码高亮、图表图片
//  5. 清洗
//
// 图表渲染失败不会中断管道，图表容器原样保留给浏览器端渲染。
func Preview(ctx context.Context, source []byte, cfg PreviewConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	analysis := outline.Analyze(body)
	rendered := Convert(string(body), cfg.Render)

	proc := postprocess.New(postprocess.Config{
		Highlight: cfg.Highlight,
		Style:     cfg.Style,
		Diagrams:  cfg.Diagrams,
		Logger:    logging.WithFields(Logger, map[string]any{"component": "postprocess"}),
	})
	rendered, err = proc.Process(ctx, rendered, analysis.Headings)
	if err != nil {
		return nil, fmt.Errorf("post-process: %w", err)
	}

	if cfg.Sanitize {
		rendered = sanitize.HTML(rendered)
	}

	doc := &Document{
		Title:       documentTitle(meta, analysis.Headings),
		FrontMatter: meta,
		Body:        string(body),
		HTML:        rendered,
		Outline:     analysis.Headings,
		Stats:       analysis.Stats,
	}
	Logger.Debug("preview rendered",
		"bytes", len(source),
		"headings", len(doc.Outline),
		"words", doc.Stats.Words,
	)
	return doc, nil
}

// documentTitle 优先使用 front matter 的 title，否则取第一个一级标题
func documentTitle(meta map[string]any, headings []Heading) string {
	if title, ok := meta["title"].(string); ok && title != "" {
		return title
	}
	for _, h := range headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}
