package block

import (
	"regexp"
	"strconv"

	"github.com/riverfjs/mdpreview-go/internal/buffer"
)

var (
	checkboxRe  = regexp.MustCompile(`^([ \t]*)[-*+][ \t]+\[([ xX])\](?:[ \t]+(.*))?$`)
	unorderedRe = regexp.MustCompile(`^([ \t]*)[-*+][ \t]+(.*)$`)
	orderedRe   = regexp.MustCompile(`^([ \t]*)([0-9]{1,9})\.[ \t]+(.*)$`)
)

// Checkbox 是任务列表项的勾选状态
type Checkbox int

const (
	NoCheckbox Checkbox = iota
	Unchecked
	Checked
)

// ListItem 是扫描阶段记录的一个列表项
type ListItem struct {
	Indent   int
	Ordered  bool
	Number   int
	Content  string
	Checkbox Checkbox
}

// parseListItem 识别复选框、无序、有序三种标记
func parseListItem(s string) (ListItem, bool) {
	if m := checkboxRe.FindStringSubmatch(s); m != nil {
		state := Unchecked
		if m[2] != " " {
			state = Checked
		}
		return ListItem{Indent: indentWidth(m[1]), Content: m[3], Checkbox: state}, true
	}
	if m := unorderedRe.FindStringSubmatch(s); m != nil {
		return ListItem{Indent: indentWidth(m[1]), Content: m[2]}, true
	}
	if m := orderedRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		return ListItem{Indent: indentWidth(m[1]), Ordered: true, Number: n, Content: m[3]}, true
	}
	return ListItem{}, false
}

// lists 收集连续的列表行，遇到第一个非列表行时输出
func lists(lines []line) []line {
	out := make([]line, 0, len(lines))
	for i := 0; i < len(lines); {
		var items []ListItem
		for i < len(lines) && !lines[i].done {
			item, ok := parseListItem(lines[i].text)
			if !ok {
				break
			}
			items = append(items, item)
			i++
		}
		if len(items) == 0 {
			out = append(out, lines[i])
			i++
			continue
		}
		out = append(out, line{text: RenderList(items), done: true})
	}
	return out
}

// listLevel 是栈中一个已打开的列表层级
type listLevel struct {
	indent  int
	ordered bool
	liOpen  bool
}

// RenderList 仅凭缩进用显式栈输出嵌套列表。嵌套列表位于父级 <li> 内部。
func RenderList(items []ListItem) string {
	hb := buffer.New()
	var stack []listLevel

	closeTop := func() {
		top := stack[len(stack)-1]
		if top.liOpen {
			hb.Close("li")
		}
		hb.Close(listTag(top.ordered))
		stack = stack[:len(stack)-1]
	}
	open := func(item ListItem) {
		if item.Ordered && item.Number != 1 {
			hb.Open("ol", `start="`+strconv.Itoa(item.Number)+`"`)
		} else {
			hb.Open(listTag(item.Ordered))
		}
		stack = append(stack, listLevel{indent: item.Indent, ordered: item.Ordered})
	}

	for _, item := range items {
		for len(stack) > 0 && stack[len(stack)-1].indent > item.Indent {
			closeTop()
		}
		switch {
		case len(stack) == 0 || stack[len(stack)-1].indent < item.Indent:
			open(item)
		case stack[len(stack)-1].ordered != item.Ordered:
			closeTop()
			open(item)
		case stack[len(stack)-1].liOpen:
			hb.Close("li")
			stack[len(stack)-1].liOpen = false
		}

		hb.Open("li")
		switch item.Checkbox {
		case Checked:
			hb.Write(`<input type="checkbox" disabled checked> `)
		case Unchecked:
			hb.Write(`<input type="checkbox" disabled> `)
		}
		hb.Write(item.Content)
		stack[len(stack)-1].liOpen = true
	}
	for len(stack) > 0 {
		closeTop()
	}
	return hb.String()
}

func listTag(ordered bool) string {
	if ordered {
		return "ol"
	}
	return "ul"
}
