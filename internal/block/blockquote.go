package block

import (
	"regexp"
	"strings"
)

// 转义阶段之后 > 已变为 &gt;
var quoteRe = regexp.MustCompile(`^ {0,3}&gt; ?(.*)$`)

// blockquotes 将连续的 > 行合并为一个 <blockquote>，空的 > 行分隔段落
func blockquotes(lines []line) []line {
	out := make([]line, 0, len(lines))
	for i := 0; i < len(lines); {
		if lines[i].done || !quoteRe.MatchString(lines[i].text) {
			out = append(out, lines[i])
			i++
			continue
		}

		var body []string
		for i < len(lines) && !lines[i].done {
			m := quoteRe.FindStringSubmatch(lines[i].text)
			if m == nil {
				break
			}
			body = append(body, m[1])
			i++
		}
		out = append(out, line{text: renderQuote(body), done: true})
	}
	return out
}

func renderQuote(body []string) string {
	var b strings.Builder
	b.WriteString("<blockquote>")
	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		b.WriteString("<p>")
		b.WriteString(strings.TrimSpace(strings.Join(para, "\n")))
		b.WriteString("</p>")
		para = para[:0]
	}
	for _, s := range body {
		if strings.TrimSpace(s) == "" {
			flush()
			continue
		}
		para = append(para, s)
	}
	flush()
	b.WriteString("</blockquote>")
	return b.String()
}
