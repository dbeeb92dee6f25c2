package mdpreview

import (
	"github.com/riverfjs/mdpreview-go/internal/parser"
)

// Convert 使用显式配置将 Markdown 转换为 HTML
//
// 参数:
//   - markdown: 原始 Markdown 文本
//   - config: 渲染配置，如为 nil 则使用默认配置
//
// 返回:
//   - string: 未清洗的 HTML 片段
func Convert(markdown string, config *RenderConfig) string {
	if config == nil {
		config = DefaultConfig()
	}
	return parser.Parse(markdown, config)
}
