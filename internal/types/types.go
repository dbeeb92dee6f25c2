package types

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind 标识受保护片段的类型
type Kind int

const (
	KindFence Kind = iota
	KindCode
	KindDollar
	KindDisplayMath
	KindInlineMath
	KindBlockHTML
	KindInlineHTML
	// KindMarkup 是引擎自己生成、后续阶段不得改写的标签
	KindMarkup
)

var kindTags = map[Kind]string{
	KindFence:       "FENCE",
	KindCode:        "CODE",
	KindDollar:      "DOLLAR",
	KindDisplayMath: "DMATH",
	KindInlineMath:  "IMATH",
	KindBlockHTML:   "BHTML",
	KindInlineHTML:  "IHTML",
	KindMarkup:      "MARK",
}

// Tag returns the token tag for the kind.
func (k Kind) Tag() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "UNKNOWN"
}

// IsBlock reports whether spans of this kind render as block-level HTML.
func (k Kind) IsBlock() bool {
	switch k {
	case KindFence, KindDisplayMath, KindBlockHTML:
		return true
	}
	return false
}

// Sentinel 包围 token 的保留字符。源文本中的 NUL 在规范化阶段已被替换。
const Sentinel = "\x00"

// TokenRe 匹配工作串中的 token，子组为 tag 和索引
var TokenRe = regexp.MustCompile("\x00([A-Z]+)([0-9]+)\x00")

// Span 是一个受保护片段
type Span struct {
	Kind Kind
	Raw  string
	Lang string // 仅 KindFence 使用
}

// Spans 保存一次解析中的全部受保护片段，token 中的索引指向这里
type Spans struct {
	items []Span
}

// Add stores the span and returns its token.
func (s *Spans) Add(span Span) string {
	s.items = append(s.items, span)
	return Token(span.Kind, len(s.items)-1)
}

// Get returns the span at index i.
func (s *Spans) Get(i int) (Span, bool) {
	if i < 0 || i >= len(s.items) {
		return Span{}, false
	}
	return s.items[i], true
}

// Len returns the number of stored spans.
func (s *Spans) Len() int {
	return len(s.items)
}

// Replace substitutes every token in text with render(span). Tokens that do
// not resolve are dropped.
func (s *Spans) Replace(text string, render func(Span) string) string {
	if !strings.Contains(text, Sentinel) {
		return text
	}
	return TokenRe.ReplaceAllStringFunc(text, func(tok string) string {
		m := TokenRe.FindStringSubmatch(tok)
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return ""
		}
		span, ok := s.Get(idx)
		if !ok {
			return ""
		}
		return render(span)
	})
}

// Token builds the placeholder for the span at index i.
func Token(kind Kind, i int) string {
	return Sentinel + kind.Tag() + strconv.Itoa(i) + Sentinel
}

// TokenKind returns the kind encoded in a token and whether tok is one.
func TokenKind(tok string) (Kind, bool) {
	m := TokenRe.FindStringSubmatch(tok)
	if m == nil || m[0] != tok {
		return 0, false
	}
	for kind, tag := range kindTags {
		if tag == m[1] {
			return kind, true
		}
	}
	return 0, false
}

// LeadingToken returns the token at the very start of s, if any.
func LeadingToken(s string) (string, bool) {
	if !strings.HasPrefix(s, Sentinel) {
		return "", false
	}
	loc := TokenRe.FindStringIndex(s)
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	return s[:loc[1]], true
}

// ImageResolver 将图片原始路径转换为可加载路径
type ImageResolver func(rawPath string) string

// RenderConfig 渲染配置
type RenderConfig struct {
	// ImageResolver 为 nil 时路径原样输出
	ImageResolver ImageResolver
	// DiagramLanguage 是输出 <div class="mermaid"> 的围栏语言名
	DiagramLanguage string
	// LinksInNewTab 控制链接是否带 target="_blank"
	LinksInNewTab bool
}

// DefaultRenderConfig 返回默认渲染配置
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		DiagramLanguage: "mermaid",
		LinksInNewTab:   true,
	}
}

// ResolveImage applies the configured resolver.
func (c *RenderConfig) ResolveImage(raw string) string {
	if c == nil || c.ImageResolver == nil {
		return raw
	}
	return c.ImageResolver(raw)
}

// IsDiagram reports whether a fence language selects the diagram renderer.
func (c *RenderConfig) IsDiagram(lang string) bool {
	name := "mermaid"
	if c != nil && c.DiagramLanguage != "" {
		name = c.DiagramLanguage
	}
	return lang != "" && strings.EqualFold(lang, name)
}
