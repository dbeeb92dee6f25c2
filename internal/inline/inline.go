// Package inline 实现行内转换：图片、链接、强调、删除线和硬换行。
package inline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"

	"github.com/riverfjs/mdpreview-go/internal/types"
)

var (
	imageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]*)(?:\s+&quot;(.*?)&quot;)?\)`)
	linkRe  = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]*)(?:\s+&quot;(.*?)&quot;)?\)`)

	hardBreakRe = regexp.MustCompile(`(?: {2,}|\\)\n`)

	// 散文中的 < 已在转义阶段变成 &lt;，工作串中剩下的标签都来自块级阶段
	tagRe = regexp.MustCompile(`<[^<>]*>`)
)

// emphasisRule 描述一种成对定界符
type emphasisRule struct {
	re   *regexp.Regexp
	open string
	end  string
	// 下划线形式不在单词内部生效
	wordBoundary bool
}

func delimited(marker string) *regexp.Regexp {
	q := regexp.QuoteMeta(marker)
	return regexp.MustCompile(q + `(\S(?:.*?\S)?)` + q)
}

// 顺序：*** 与 ___ 先于 ** 与 __，再先于 * 与 _
var emphasisRules = []emphasisRule{
	{re: delimited("***"), open: "<strong><em>", end: "</em></strong>"},
	{re: delimited("___"), open: "<strong><em>", end: "</em></strong>", wordBoundary: true},
	{re: delimited("**"), open: "<strong>", end: "</strong>"},
	{re: delimited("__"), open: "<strong>", end: "</strong>", wordBoundary: true},
	{re: delimited("*"), open: "<em>", end: "</em>"},
	{re: delimited("_"), open: "<em>", end: "</em>", wordBoundary: true},
	{re: delimited("~~"), open: "<del>", end: "</del>"},
}

// Transform 按固定顺序执行行内转换。块级标签之间的每段文本
// （一个列表项、一个单元格、一个段落）单独转换，定界符不会跨越它们配对。
// 生成的 <img> 与 <a> 标签登记为 Markup 片段，强调规则因此不会改写其中的 URL。
func Transform(text string, spans *types.Spans, cfg *types.RenderConfig) string {
	locs := tagRe.FindAllStringIndex(text, -1)
	if locs == nil {
		return transformText(text, spans, cfg)
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(transformText(text[last:loc[0]], spans, cfg))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(transformText(text[last:], spans, cfg))
	return b.String()
}

func transformText(text string, spans *types.Spans, cfg *types.RenderConfig) string {
	if text == "" {
		return text
	}
	text = images(text, spans, cfg)
	text = links(text, spans, cfg)
	for _, rule := range emphasisRules {
		text = applyEmphasis(text, rule)
	}
	return hardBreakRe.ReplaceAllString(text, "<br>\n")
}

func images(text string, spans *types.Spans, cfg *types.RenderConfig) string {
	return imageRe.ReplaceAllStringFunc(text, func(match string) string {
		m := imageRe.FindStringSubmatch(match)
		src := cfg.ResolveImage(unescapeAttr(m[2]))

		var b strings.Builder
		b.WriteString(`<img src="`)
		b.WriteString(escapeAttr(src))
		b.WriteString(`" alt="`)
		b.WriteString(plainText(m[1], spans))
		b.WriteString(`"`)
		if m[3] != "" {
			b.WriteString(` title="`)
			b.WriteString(m[3])
			b.WriteString(`"`)
		}
		b.WriteString(">")
		return spans.Add(types.Span{Kind: types.KindMarkup, Raw: b.String()})
	})
}

func links(text string, spans *types.Spans, cfg *types.RenderConfig) string {
	return linkRe.ReplaceAllStringFunc(text, func(match string) string {
		m := linkRe.FindStringSubmatch(match)

		var b strings.Builder
		b.WriteString(`<a href="`)
		b.WriteString(m[2])
		b.WriteString(`"`)
		if m[3] != "" {
			b.WriteString(` title="`)
			b.WriteString(m[3])
			b.WriteString(`"`)
		}
		if cfg == nil || cfg.LinksInNewTab {
			b.WriteString(` target="_blank" rel="noopener noreferrer"`)
		}
		b.WriteString(">")

		open := spans.Add(types.Span{Kind: types.KindMarkup, Raw: b.String()})
		end := spans.Add(types.Span{Kind: types.KindMarkup, Raw: "</a>"})
		return open + m[1] + end
	})
}

// applyEmphasis 替换一种定界符。被单词边界拒绝的匹配从下一个字节重新搜索。
func applyEmphasis(text string, rule emphasisRule) string {
	var b strings.Builder
	last, pos := 0, 0
	for pos < len(text) {
		m := rule.re.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		start, end := m[0]+pos, m[1]+pos
		if rule.wordBoundary && !atWordBoundary(text, start, end) {
			pos = start + 1
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(rule.open)
		b.WriteString(text[m[2]+pos : m[3]+pos])
		b.WriteString(rule.end)
		last, pos = end, end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func atWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// plainText 把 alt 中的 token 展开为纯文本，属性中不出现标签
func plainText(text string, spans *types.Spans) string {
	return spans.Replace(text, func(span types.Span) string {
		switch span.Kind {
		case types.KindDollar:
			return "$"
		case types.KindCode, types.KindInlineMath, types.KindDisplayMath:
			return escapeAttr(span.Raw)
		}
		return ""
	})
}

// unescapeAttr 还原转义阶段产生的实体，供路径解析器使用
func unescapeAttr(s string) string {
	return string(util.ResolveEntityNames(util.ResolveNumericReferences([]byte(s))))
}

func escapeAttr(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
