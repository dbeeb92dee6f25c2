package buffer

import "strings"

// HTMLBuffer accumulates the HTML fragments of one emitted block.
type HTMLBuffer struct {
	parts []string
	size  int
}

// New creates a new HTMLBuffer.
func New() *HTMLBuffer {
	return &HTMLBuffer{
		parts: make([]string, 0),
	}
}

// Write appends raw HTML to the buffer.
func (hb *HTMLBuffer) Write(html string) {
	if html == "" {
		return
	}
	hb.parts = append(hb.parts, html)
	hb.size += len(html)
}

// Open writes a start tag. attrs are rendered verbatim, each preceded by a space.
func (hb *HTMLBuffer) Open(tag string, attrs ...string) {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attr)
	}
	b.WriteByte('>')
	hb.Write(b.String())
}

// Close writes an end tag.
func (hb *HTMLBuffer) Close(tag string) {
	hb.Write("</" + tag + ">")
}

// Newline writes a line break unless the buffer is empty or already ends with one.
func (hb *HTMLBuffer) Newline() {
	if hb.size == 0 || hb.TrailingNewlineCount() > 0 {
		return
	}
	hb.Write("\n")
}

// TrailingNewlineCount counts trailing newline characters in the buffer.
func (hb *HTMLBuffer) TrailingNewlineCount() int {
	count := 0
	for i := len(hb.parts) - 1; i >= 0; i-- {
		part := hb.parts[i]
		for j := len(part) - 1; j >= 0; j-- {
			if part[j] != '\n' {
				return count
			}
			count++
		}
	}
	return count
}

// Len returns the byte length of the accumulated HTML.
func (hb *HTMLBuffer) Len() int {
	return hb.size
}

// String returns the accumulated HTML.
func (hb *HTMLBuffer) String() string {
	if len(hb.parts) == 0 {
		return ""
	}
	result := make([]byte, 0, hb.size)
	for _, p := range hb.parts {
		result = append(result, p...)
	}
	return string(result)
}

// Reset clears the buffer.
func (hb *HTMLBuffer) Reset() {
	hb.parts = hb.parts[:0]
	hb.size = 0
}
