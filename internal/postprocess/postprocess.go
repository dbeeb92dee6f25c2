// Package postprocess 在解析引擎输出的 HTML 上做 DOM 级增强：
// 标题锚点、代码高亮和图表图片。
package postprocess

import (
	"bytes"
	"context"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/riverfjs/mdpreview-go/internal/logging"
	"github.com/riverfjs/mdpreview-go/internal/mermaid"
	"github.com/riverfjs/mdpreview-go/internal/outline"
)

var (
	headingSel = cascadia.MustCompile("h1, h2, h3, h4, h5, h6")
	codeSel    = cascadia.MustCompile(`pre > code[class*="language-"]`)
	diagramSel = cascadia.MustCompile("div.mermaid")
)

// Config 后处理选项
type Config struct {
	// Highlight 为 true 时用 chroma 高亮代码块
	Highlight bool
	// Style chroma 样式名
	Style string
	// Diagrams 为 nil 或 ModeClient 时保留图表容器给浏览器渲染
	Diagrams *mermaid.Renderer
	Logger   logging.Logger
}

// Processor 对 HTML 片段执行后处理
type Processor struct {
	cfg    Config
	logger logging.Logger
}

// New 创建 Processor
func New(cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Processor{cfg: cfg, logger: logger}
}

// Process 解析片段、应用全部增强并重新序列化
func (p *Processor) Process(ctx context.Context, fragment string, headings []outline.Heading) (string, error) {
	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	AnchorHeadings(root, headings)

	if p.cfg.Highlight {
		if err := Highlight(root, p.cfg.Style); err != nil {
			return "", err
		}
	}

	if p.cfg.Diagrams != nil && p.cfg.Diagrams.Mode() != mermaid.ModeClient {
		if err := p.diagrams(ctx, root); err != nil {
			return "", err
		}
	}

	return renderChildren(root)
}

// AnchorHeadings 按文档顺序为标题设置 id。大纲项需级别和文本都一致才会被采用。
func AnchorHeadings(root *html.Node, headings []outline.Heading) {
	next := 0
	for _, n := range headingSel.MatchAll(root) {
		level := int(n.Data[1] - '0')
		text := strings.TrimSpace(textContent(n))
		for k := next; k < len(headings); k++ {
			h := headings[k]
			if h.Level == level && h.Text == text && h.ID != "" {
				setAttr(n, "id", h.ID)
				next = k + 1
				break
			}
		}
	}
}

// diagrams 将图表容器替换为图片；渲染失败时保留容器
func (p *Processor) diagrams(ctx context.Context, root *html.Node) error {
	for _, div := range diagramSel.MatchAll(root) {
		if err := ctx.Err(); err != nil {
			return err
		}
		diagram := textContent(div)
		src, err := p.cfg.Diagrams.Render(ctx, diagram)
		if err != nil {
			p.logger.Warn("diagram rendering failed", "error", err)
			continue
		}
		img := &html.Node{
			Type:     html.ElementNode,
			Data:     "img",
			DataAtom: atom.Img,
			Attr: []html.Attribute{
				{Key: "src", Val: src},
				{Key: "alt", Val: "diagram"},
			},
		}
		replacement := img
		// 点击图片打开在线编辑器
		if edit, err := p.cfg.Diagrams.EditURL(diagram); err == nil {
			replacement = &html.Node{
				Type:     html.ElementNode,
				Data:     "a",
				DataAtom: atom.A,
				Attr: []html.Attribute{
					{Key: "href", Val: edit},
					{Key: "target", Val: "_blank"},
				},
			}
			replacement.AppendChild(img)
		}
		div.Parent.InsertBefore(replacement, div)
		div.Parent.RemoveChild(div)
	}
	return nil
}

func parseFragment(fragment string) (*html.Node, error) {
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

func renderChildren(root *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
