package converter

import (
	"strings"

	"github.com/riverfjs/mdpreview-go/internal/types"
)

// Segment 是工作文档中的一段：普通文本或受保护片段
type Segment struct {
	Text      string
	Protected bool
	Span      types.Span
}

// Document 是提取阶段之后的类型化中间表示
type Document struct {
	Segments []Segment
}

// Flatten 将文档拼接为工作串，受保护片段替换为 token，同时返回片段表
func (d *Document) Flatten() (string, *types.Spans) {
	spans := &types.Spans{}
	var b strings.Builder
	for _, seg := range d.Segments {
		if seg.Protected {
			b.WriteString(spans.Add(seg.Span))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String(), spans
}

// Protected returns the protected spans in document order.
func (d *Document) Protected() []types.Span {
	var out []types.Span
	for _, seg := range d.Segments {
		if seg.Protected {
			out = append(out, seg.Span)
		}
	}
	return out
}
