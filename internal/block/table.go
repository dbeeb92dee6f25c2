package block

import (
	"regexp"
	"strings"

	"github.com/riverfjs/mdpreview-go/internal/buffer"
)

// Alignment 是表格列的对齐方式
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) attr() string {
	switch a {
	case AlignLeft:
		return `style="text-align:left"`
	case AlignCenter:
		return `style="text-align:center"`
	case AlignRight:
		return `style="text-align:right"`
	}
	return ""
}

// 分隔行：由 | 分隔的 -，两端可带 :
var separatorRe = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(?:\|\s*:?-+:?\s*)*\|?\s*$`)

// tables 识别 表头 + 分隔行 + 连续数据行。只有紧随其后的分隔行有效时
// 带 | 的行才被视为表头。
func tables(lines []line) []line {
	out := make([]line, 0, len(lines))
	for i := 0; i < len(lines); {
		if !isTableStart(lines, i) {
			out = append(out, lines[i])
			i++
			continue
		}

		header := splitRow(lines[i].text)
		aligns := parseAlignments(lines[i+1].text, len(header))
		i += 2

		var rows [][]string
		for i < len(lines) && isTableRow(lines[i]) {
			rows = append(rows, splitRow(lines[i].text))
			i++
		}
		out = append(out, line{text: renderTable(header, aligns, rows), done: true})
	}
	return out
}

func isTableStart(lines []line, i int) bool {
	if i+1 >= len(lines) || !isTableRow(lines[i]) || lines[i+1].done {
		return false
	}
	sep := lines[i+1].text
	return strings.Contains(sep, "|") && separatorRe.MatchString(sep)
}

func isTableRow(l line) bool {
	return !l.done && strings.Contains(l.text, "|") && strings.TrimSpace(l.text) != ""
}

// splitRow 拆分一行为去除首尾空白的单元格
func splitRow(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	cells := strings.Split(s, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func parseAlignments(sep string, columns int) []Alignment {
	cells := splitRow(sep)
	aligns := make([]Alignment, columns)
	for i := 0; i < columns && i < len(cells); i++ {
		aligns[i] = alignmentOf(cells[i])
	}
	return aligns
}

func alignmentOf(cell string) Alignment {
	left := strings.HasPrefix(cell, ":")
	right := strings.HasSuffix(cell, ":")
	switch {
	case left && right:
		return AlignCenter
	case right:
		return AlignRight
	case left:
		return AlignLeft
	}
	return AlignNone
}

// renderTable 输出表格；数据行按表头列数补齐或截断
func renderTable(header []string, aligns []Alignment, rows [][]string) string {
	hb := buffer.New()
	hb.Open("table")
	hb.Newline()
	hb.Open("thead")
	hb.Newline()
	writeRow(hb, "th", header, aligns, len(header))
	hb.Close("thead")
	hb.Newline()
	if len(rows) > 0 {
		hb.Open("tbody")
		hb.Newline()
		for _, row := range rows {
			writeRow(hb, "td", row, aligns, len(header))
		}
		hb.Close("tbody")
		hb.Newline()
	}
	hb.Close("table")
	return hb.String()
}

func writeRow(hb *buffer.HTMLBuffer, cellTag string, cells []string, aligns []Alignment, columns int) {
	hb.Open("tr")
	for i := 0; i < columns; i++ {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		hb.Open(cellTag, aligns[i].attr())
		hb.Write(cell)
		hb.Close(cellTag)
	}
	hb.Close("tr")
	hb.Newline()
}
