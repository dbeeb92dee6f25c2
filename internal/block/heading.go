package block

import (
	"regexp"
	"strconv"
)

var (
	ruleRe    = regexp.MustCompile(`^ {0,3}(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
	headingRe = regexp.MustCompile(`^ {0,3}(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
)

// rules 将单独成行的 --- *** ___ 转换为 <hr>
func rules(lines []line) []line {
	for i := range lines {
		if !lines[i].done && ruleRe.MatchString(lines[i].text) {
			lines[i] = line{text: "<hr>", done: true}
		}
	}
	return lines
}

// headings 转换 ATX 标题。#{1,6} 后必须有空白，七个 # 不是标题。
func headings(lines []line) []line {
	for i := range lines {
		if lines[i].done {
			continue
		}
		m := headingRe.FindStringSubmatch(lines[i].text)
		if m == nil {
			continue
		}
		tag := "h" + strconv.Itoa(len(m[1]))
		lines[i] = line{text: "<" + tag + ">" + m[2] + "</" + tag + ">", done: true}
	}
	return lines
}
