// Package block 实现块级转换：引用、表格、分隔线、标题、列表、段落。
//
// 每个 pass 都是作用于行数组的小状态机。生成的 HTML 以 done 行的形式
// 留在数组中，后续 pass 不会再解释它们。
package block

import (
	"strings"

	"github.com/riverfjs/mdpreview-go/internal/types"
)

// line 是行数组中的一项
type line struct {
	text string
	done bool
}

type pass func([]line) []line

// 顺序是契约：后面的 pass 假设前面的 pass 已消费了各自的行模式
var passes = []pass{
	blockquotes,
	tables,
	rules,
	headings,
	lists,
	paragraphs,
}

// Transform 对已转义、带 token 的工作串执行全部块级 pass
func Transform(text string) string {
	lines := splitLines(text)
	for _, p := range passes {
		lines = p(lines)
	}
	return joinLines(lines)
}

func splitLines(text string) []line {
	raw := strings.Split(text, "\n")
	lines := make([]line, len(raw))
	for i, s := range raw {
		lines[i] = line{text: s, done: isBlockTokenLine(s)}
	}
	return lines
}

// isBlockTokenLine 判断一行是否只包含一个块级 token
func isBlockTokenLine(s string) bool {
	trimmed := strings.TrimSpace(s)
	kind, ok := types.TokenKind(trimmed)
	return ok && kind.IsBlock()
}

func joinLines(lines []line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if !l.done && strings.TrimSpace(l.text) == "" {
			continue
		}
		parts = append(parts, l.text)
	}
	return strings.Join(parts, "\n")
}

func isBlank(l line) bool {
	return !l.done && strings.TrimSpace(l.text) == ""
}

// indentWidth 计算前导空白宽度，制表符按 4 计
func indentWidth(s string) int {
	width := 0
	for _, ch := range s {
		switch ch {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}
