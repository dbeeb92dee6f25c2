package mdpreview

import (
	"github.com/riverfjs/mdpreview-go/internal/outline"
)

// CountWords 计算文档统计，供编辑器状态栏使用
//
// 字母数字连续段计为一个词，中日韩字符每个字计为一个词；
// 代码块内容不计入字数。
func CountWords(markdown string) Stats {
	return outline.Analyze([]byte(markdown)).Stats
}

// Outline 返回文档标题列表，ID 与 Preview 输出中的锚点一致
func Outline(markdown string) []Heading {
	return outline.Extract([]byte(markdown))
}
