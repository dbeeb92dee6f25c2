package block

import (
	"regexp"
	"strings"

	"github.com/riverfjs/mdpreview-go/internal/types"
)

var blockTagRe = regexp.MustCompile(`(?i)^</?(?:blockquote|div|h[1-6]|hr|li|ol|p|pre|section|table|tbody|td|th|thead|tr|ul)[\s/>]`)

// paragraphs 将剩余的非空文本行按空行分组并包裹 <p>，已经以块级标签
// 或块级 token 开头的组保持原样
func paragraphs(lines []line) []line {
	out := make([]line, 0, len(lines))
	for i := 0; i < len(lines); {
		if lines[i].done {
			out = append(out, lines[i])
			i++
			continue
		}
		if isBlank(lines[i]) {
			i++
			continue
		}

		var run []string
		for i < len(lines) && !lines[i].done && !isBlank(lines[i]) {
			run = append(run, lines[i].text)
			i++
		}
		text := strings.TrimSpace(strings.Join(run, "\n"))
		if startsWithBlock(text) {
			out = append(out, line{text: text, done: true})
			continue
		}
		out = append(out, line{text: "<p>" + text + "</p>", done: true})
	}
	return out
}

func startsWithBlock(text string) bool {
	if blockTagRe.MatchString(text) {
		return true
	}
	tok, ok := types.LeadingToken(text)
	if !ok {
		return false
	}
	kind, _ := types.TokenKind(tok)
	return kind.IsBlock()
}
