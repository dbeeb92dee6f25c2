package postprocess

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"

	"github.com/riverfjs/mdpreview-go/internal/util"
)

// 只输出 token span，外层 <pre><code> 沿用引擎生成的节点
var formatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
)

// Highlight 高亮所有带 language-X class 的代码块。未知语言保持原样。
func Highlight(root *html.Node, styleName string) error {
	style := styles.Get(styleName)
	for _, code := range codeSel.MatchAll(root) {
		lexer := lexerFor(languageOf(code))
		if lexer == nil {
			continue
		}

		iterator, err := lexer.Tokenise(nil, textContent(code))
		if err != nil {
			return fmt.Errorf("highlight: %w", err)
		}
		var b strings.Builder
		if err := formatter.Format(&b, style, iterator); err != nil {
			return fmt.Errorf("highlight: %w", err)
		}

		spans, err := html.ParseFragment(strings.NewReader(b.String()), code)
		if err != nil {
			return fmt.Errorf("highlight: %w", err)
		}
		for code.FirstChild != nil {
			code.RemoveChild(code.FirstChild)
		}
		for _, n := range spans {
			code.AppendChild(n)
		}
		setAttr(code.Parent, "class", "chroma")
	}
	return nil
}

// CSS 返回样式对应的 chroma class 样式表
func CSS(styleName string) (string, error) {
	var b strings.Builder
	if err := formatter.WriteCSS(&b, styles.Get(styleName)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func languageOf(code *html.Node) string {
	for _, class := range strings.Fields(getAttr(code, "class")) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			return lang
		}
	}
	return ""
}

func lexerFor(lang string) chroma.Lexer {
	if lang == "" {
		return nil
	}
	lexer := lexers.Get(lang)
	if canonical, known := util.Canonical(lang); lexer == nil && known {
		lexer = lexers.Get(canonical)
		if lexer == nil {
			lexer = lexers.Match(util.Filename(canonical))
		}
	}
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}
