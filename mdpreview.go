// Package mdpreview 将 Markdown 转换为编辑器实时预览使用的 HTML
//
// 解析引擎是一个固定顺序的七阶段管道：规范化、提取受保护片段、
// 转义、块级转换、行内转换、还原、修剪。代码块、行内代码和公式
// 在转换期间受到保护，不会被 Markdown 规则改写。
//
// 核心功能：
//   - GFM 常用子集：标题、列表（含嵌套与任务项）、表格、引用、分隔线
//   - 图片路径解析回调，链接默认新标签页打开
//   - Mermaid 图表容器与 KaTeX/MathJax 公式占位
//   - 预览管道：front matter、大纲、代码高亮、图表图片、清洗
//
// 主要 API：
//   - Parse(): 同步转换，返回未清洗的 HTML
//   - Preview(): 完整预览管道，返回 Document
//
// 示例：
//
//	// 简单转换
//	html := mdpreview.Parse(markdown, mdpreview.WithImageResolver(resolve))
//
//	// 完整预览
//	doc, err := mdpreview.Preview(ctx, source, mdpreview.DefaultPreviewConfig())
//	fmt.Println(doc.Title, doc.HTML)
//
// Parse 的输出没有经过清洗，插入页面前必须交给 sanitizer（Preview 默认会做）。
package mdpreview

import (
	"github.com/riverfjs/mdpreview-go/internal/parser"
)

// Parse 将 Markdown 转换为 HTML 片段。对任意输入都不会 panic，空输入返回空串。
func Parse(markdown string, opts ...Option) string {
	options := applyOptions(opts...)
	return parser.Parse(markdown, options.Config)
}
