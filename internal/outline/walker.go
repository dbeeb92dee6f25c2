// Package outline 基于 goldmark AST 提取标题大纲与文档统计。
package outline

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/riverfjs/mdpreview-go/internal/parser"
)

// Heading 大纲中的一项
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Stats 文档统计
type Stats struct {
	Words      int `json:"words"`
	Runes      int `json:"runes"`
	Lines      int `json:"lines"`
	Headings   int `json:"headings"`
	CodeBlocks int `json:"code_blocks"`
	Tables     int `json:"tables"`
	Images     int `json:"images"`
}

// Result 一次遍历的结果
type Result struct {
	Headings []Heading
	Stats    Stats
}

// EventWalker 遍历 goldmark AST 收集标题与统计
type EventWalker struct {
	source   []byte
	headings []Heading
	stats    Stats

	// Heading state
	inHeading bool
	heading   strings.Builder

	words wordCounter
}

// NewEventWalker 创建新的 EventWalker
func NewEventWalker(source []byte) *EventWalker {
	return &EventWalker{source: source}
}

// Walk 遍历 AST 节点
func (w *EventWalker) Walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	if node.Type() == ast.TypeBlock {
		w.words.boundary()
	}

	switch n := node.(type) {
	case *ast.Text:
		if entering {
			w.onText(n.Segment.Value(w.source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				w.onText([]byte(" "))
			}
		}

	case *ast.String:
		if entering {
			w.onText(n.Value)
		}

	case *ast.CodeSpan:
		if entering {
			w.onText([]byte(extractCodeSpanText(n, w.source)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Heading:
		if entering {
			w.onStartHeading()
		} else {
			w.onEndHeading(n)
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.stats.CodeBlocks++
		}
		// 代码不计入字数
		return ast.WalkSkipChildren, nil

	case *ast.Image:
		if entering {
			w.stats.Images++
		}

	case *east.Table:
		if entering {
			w.stats.Tables++
		}
	}

	return ast.WalkContinue, nil
}

func (w *EventWalker) onText(value []byte) {
	if w.inHeading {
		w.heading.Write(value)
	}
	w.words.write(value)
}

func (w *EventWalker) onStartHeading() {
	w.inHeading = true
	w.heading.Reset()
	w.words.boundary()
}

func (w *EventWalker) onEndHeading(n *ast.Heading) {
	h := Heading{
		Level: n.Level,
		Text:  strings.TrimSpace(w.heading.String()),
	}
	if id, ok := n.AttributeString("id"); ok {
		if b, ok := id.([]byte); ok {
			h.ID = string(b)
		}
	}
	w.headings = append(w.headings, h)
	w.stats.Headings++
	w.inHeading = false
	w.words.boundary()
}

// Result 返回收集结果
func (w *EventWalker) Result() Result {
	return Result{Headings: w.headings, Stats: w.stats}
}

// Analyze 解析 Markdown 并返回大纲与统计
func Analyze(markdown []byte) Result {
	walker := NewEventWalker(markdown)
	doc := parser.ParseAST(markdown)
	_ = ast.Walk(doc, walker.Walk)

	res := walker.Result()
	res.Stats.Words = walker.words.count
	res.Stats.Runes = len([]rune(string(markdown)))
	res.Stats.Lines = countLines(markdown)
	return res
}

// Extract returns the heading outline.
func Extract(markdown []byte) []Heading {
	return Analyze(markdown).Headings
}

func countLines(markdown []byte) int {
	if len(markdown) == 0 {
		return 0
	}
	s := strings.TrimSuffix(string(markdown), "\n")
	return strings.Count(s, "\n") + 1
}

func extractCodeSpanText(n *ast.CodeSpan, source []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if textNode, ok := c.(*ast.Text); ok {
			_, _ = buf.Write(textNode.Segment.Value(source))
		}
	}
	return buf.String()
}

// wordCounter 统计单词数：字母数字连续段计一个词，CJK 字符每个计一个词
type wordCounter struct {
	count  int
	inWord bool
}

func (c *wordCounter) write(value []byte) {
	for _, r := range string(value) {
		switch {
		case isCJK(r):
			c.count++
			c.inWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' && c.inWord:
			if !c.inWord {
				c.count++
				c.inWord = true
			}
		default:
			c.inWord = false
		}
	}
}

func (c *wordCounter) boundary() {
	c.inWord = false
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
