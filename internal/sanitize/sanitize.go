// Package sanitize 在 HTML 插入页面之前进行清洗。
package sanitize

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	checkboxRe = regexp.MustCompile(`^checkbox$`)
	blankRe    = regexp.MustCompile(`^_blank$`)
)

// Policy 返回预览所用的策略：在 UGCPolicy 基础上放行代码高亮、公式、
// 图表容器、表格对齐、任务列表复选框和标题锚点
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "pre", "div")
	p.AllowElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowStyles("text-align").MatchingEnum("left", "center", "right").OnElements("th", "td")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	p.AllowElements("input")
	p.AllowAttrs("type").Matching(checkboxRe).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")

	p.AllowAttrs("target").Matching(blankRe).OnElements("a")
	p.RequireNoFollowOnLinks(false)
	p.RequireNoReferrerOnLinks(true)

	// 嵌入模式下图表以 data URI 出现
	p.AllowDataURIImages()
	return p
}

var defaultPolicy = sync.OnceValue(Policy)

// HTML 使用默认策略清洗
func HTML(s string) string {
	return defaultPolicy().Sanitize(s)
}
