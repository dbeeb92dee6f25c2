// Package render 将受保护片段还原为最终 HTML。
package render

import (
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/riverfjs/mdpreview-go/internal/types"
)

// Restore 替换工作串中的全部 token
func Restore(text string, spans *types.Spans, cfg *types.RenderConfig) string {
	var render func(types.Span) string
	render = func(span types.Span) string {
		if span.Kind == types.KindMarkup {
			// Markup 的属性中可能含有更早登记的 token
			return spans.Replace(span.Raw, render)
		}
		return Span(span, cfg)
	}
	return spans.Replace(text, render)
}

// Span renders a single protected span.
func Span(span types.Span, cfg *types.RenderConfig) string {
	switch span.Kind {
	case types.KindInlineHTML, types.KindBlockHTML, types.KindMarkup:
		return span.Raw
	case types.KindCode:
		return "<code>" + escape(span.Raw) + "</code>"
	case types.KindFence:
		return fence(span, cfg)
	case types.KindDisplayMath:
		return `<div class="math-display">\[` + escape(strings.TrimSpace(span.Raw)) + `\]</div>`
	case types.KindInlineMath:
		return `<span class="math-inline">\(` + escape(span.Raw) + `\)</span>`
	case types.KindDollar:
		return "$"
	}
	return ""
}

// fence 输出代码块；图表语言输出未转义的源码供图表渲染器使用
func fence(span types.Span, cfg *types.RenderConfig) string {
	if cfg.IsDiagram(span.Lang) {
		return `<div class="mermaid">` + span.Raw + `</div>`
	}
	if span.Lang == "" {
		return "<pre><code>" + escape(span.Raw) + "</code></pre>"
	}
	return `<pre><code class="language-` + escape(span.Lang) + `">` + escape(span.Raw) + "</code></pre>"
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
