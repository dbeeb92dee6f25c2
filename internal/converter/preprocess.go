package converter

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/riverfjs/mdpreview-go/internal/types"
)

var (
	// 围栏代码块；未闭合时吞到文档末尾
	fenceRe = regexp.MustCompile("(?ms)^[ \\t]{0,3}```[ \\t]*([^\\s`]*)[^\\n]*\\n(.*?)(?:^[ \\t]{0,3}```[ \\t]*$|\\z)")

	// 行内代码，不含反引号和换行
	codeSpanRe = regexp.MustCompile("`([^`\\n]+)`")

	// 转义的美元符号 \$
	escapedDollarRe = regexp.MustCompile(`\\\$`)

	// 块级公式 $$...$$，可跨行，非贪婪
	displayMathRe = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)

	// 行内公式 $...$，闭合符必须在换行之前
	inlineMathRe = regexp.MustCompile(`\$([^$\n]+)\$`)

	// 以块级标签开头的行，连同其后的非空行
	blockHTMLRe = regexp.MustCompile(`(?mi)^[ \t]{0,3}</?(?:` + blockTagPattern + `)(?:[ \t/>][^\n]*)?$(?:\n[ \t]*\S[^\n]*)*`)

	// 行内标签或注释
	inlineHTMLRe = regexp.MustCompile(`<!--[\s\S]*?-->|</?([A-Za-z][A-Za-z0-9-]*)(?:\s[^<>]*)?/?>`)
)

const blockTagPattern = `address|article|aside|blockquote|center|details|dialog|dd|div|dl|dt|fieldset|figcaption|figure|footer|form|h[1-6]|header|hgroup|hr|main|menu|nav|ol|p|pre|section|summary|table|tbody|td|tfoot|th|thead|tr|ul|li|video|audio|picture|canvas`

// 永不原样透传的标签，按普通文本转义
var executableTags = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"frame":    true,
	"frameset": true,
	"object":   true,
	"embed":    true,
	"noscript": true,
	"template": true,
}

// extractor 描述一个提取步骤
type extractor struct {
	re        *regexp.Regexp
	lineStart bool
	build     func(text string, m []int) (types.Span, bool)
}

func group(text string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}

var extractors = []extractor{
	{
		re:        fenceRe,
		lineStart: true,
		build: func(text string, m []int) (types.Span, bool) {
			return types.Span{
				Kind: types.KindFence,
				Lang: group(text, m, 1),
				Raw:  trimTrailingBlankLines(group(text, m, 2)),
			}, true
		},
	},
	{
		re: codeSpanRe,
		build: func(text string, m []int) (types.Span, bool) {
			return types.Span{Kind: types.KindCode, Raw: group(text, m, 1)}, true
		},
	},
	{
		re: escapedDollarRe,
		build: func(text string, m []int) (types.Span, bool) {
			return types.Span{Kind: types.KindDollar, Raw: "$"}, true
		},
	},
	{
		re: displayMathRe,
		build: func(text string, m []int) (types.Span, bool) {
			return types.Span{Kind: types.KindDisplayMath, Raw: group(text, m, 1)}, true
		},
	},
	{
		re: inlineMathRe,
		build: func(text string, m []int) (types.Span, bool) {
			return types.Span{Kind: types.KindInlineMath, Raw: group(text, m, 1)}, true
		},
	},
	{
		re:        blockHTMLRe,
		lineStart: true,
		build: func(text string, m []int) (types.Span, bool) {
			return types.Span{Kind: types.KindBlockHTML, Raw: escapeExecutable(text[m[0]:m[1]])}, true
		},
	},
	{
		re: inlineHTMLRe,
		build: func(text string, m []int) (types.Span, bool) {
			if executableTags[strings.ToLower(group(text, m, 1))] {
				return types.Span{}, false
			}
			return types.Span{Kind: types.KindInlineHTML, Raw: text[m[0]:m[1]]}, true
		},
	},
}

// escapeExecutable 转义块级 HTML 中的可执行标签，其余标签原样保留
func escapeExecutable(raw string) string {
	return inlineHTMLRe.ReplaceAllStringFunc(raw, func(tag string) string {
		m := inlineHTMLRe.FindStringSubmatch(tag)
		if !executableTags[strings.ToLower(m[1])] {
			return tag
		}
		return string(util.EscapeHTML([]byte(tag)))
	})
}

// Normalize 统一换行为 \n，并把 NUL 替换为 U+FFFD，使源文本无法伪造 token
func Normalize(markdown string) string {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")
	return strings.ReplaceAll(text, types.Sentinel, "\uFFFD")
}

// Protect 按固定顺序提取受保护片段
func Protect(text string) *Document {
	doc := &Document{Segments: []Segment{{Text: text}}}
	for _, ex := range extractors {
		doc.Segments = extract(doc.Segments, ex)
	}
	return doc
}

// Escape 仅转义普通文本段中的 & < > "
func Escape(doc *Document) {
	for i := range doc.Segments {
		if doc.Segments[i].Protected {
			continue
		}
		doc.Segments[i].Text = string(util.EscapeHTML([]byte(doc.Segments[i].Text)))
	}
}

func extract(segments []Segment, ex extractor) []Segment {
	out := make([]Segment, 0, len(segments))
	for i, seg := range segments {
		if seg.Protected || seg.Text == "" {
			out = append(out, seg)
			continue
		}
		out = append(out, extractText(seg.Text, i == 0, ex)...)
	}
	return out
}

// extractText 在单个文本段中查找匹配。文本段只有位于文档开头时，
// 其首字节才算行首。
func extractText(text string, docStart bool, ex extractor) []Segment {
	var out []Segment
	last, pos := 0, 0
	for pos < len(text) {
		m := ex.re.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		for j := range m {
			if m[j] >= 0 {
				m[j] += pos
			}
		}
		if m[1] == m[0] {
			pos = m[1] + 1
			continue
		}
		if ex.lineStart && !atLineStart(text, m[0], docStart) {
			nl := strings.IndexByte(text[m[0]:], '\n')
			if nl < 0 {
				break
			}
			pos = m[0] + nl + 1
			continue
		}
		span, ok := ex.build(text, m)
		if !ok {
			pos = m[0] + 1
			continue
		}
		if m[0] > last {
			out = append(out, Segment{Text: text[last:m[0]]})
		}
		out = append(out, Segment{Protected: true, Span: span})
		last, pos = m[1], m[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

func atLineStart(text string, i int, docStart bool) bool {
	if i == 0 {
		return docStart
	}
	// 允许最多三个前导空白
	j := i
	for j > 0 && (text[j-1] == ' ' || text[j-1] == '\t') {
		j--
	}
	return j == 0 && docStart || j > 0 && text[j-1] == '\n'
}

func trimTrailingBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
