package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/riverfjs/mdpreview-go/internal/block"
	"github.com/riverfjs/mdpreview-go/internal/converter"
	"github.com/riverfjs/mdpreview-go/internal/inline"
	"github.com/riverfjs/mdpreview-go/internal/render"
	"github.com/riverfjs/mdpreview-go/internal/types"
)

// Parse 将 Markdown 转换为 HTML。阶段顺序是正确性契约：
//
//  1. 规范化换行
//  2. 提取并保护代码、公式、原始 HTML
//  3. 转义剩余文本
//  4. 块级转换
//  5. 行内转换
//  6. 还原受保护片段
//  7. 去除首尾空白
//
// 输出尚未经过清洗，插入 DOM 之前必须交给 sanitizer。
func Parse(markdown string, config *types.RenderConfig) string {
	if markdown == "" {
		return ""
	}
	if config == nil {
		config = types.DefaultRenderConfig()
	}

	normalized := converter.Normalize(markdown)

	doc := converter.Protect(normalized)
	converter.Escape(doc)
	working, spans := doc.Flatten()

	working = block.Transform(working)
	working = inline.Transform(working, spans, config)
	working = render.Restore(working, spans, config)

	return strings.TrimSpace(working)
}

// StandardOptions goldmark 配置，用于大纲与统计这类只读分析
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
}

// ParseAST 用 goldmark 解析为 AST，不渲染
func ParseAST(markdown []byte) ast.Node {
	md := goldmark.New(StandardOptions...)
	reader := text.NewReader(markdown)
	return md.Parser().Parse(reader)
}
