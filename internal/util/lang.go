// Package util 处理代码块围栏上的语言名。
package util

import (
	"strings"
)

type language struct {
	ext     string
	aliases []string
}

// languages 以规范名为键
var languages = map[string]language{
	"python":     {"py", []string{"py", "python3", "py3"}},
	"javascript": {"js", []string{"js", "node", "mjs"}},
	"typescript": {"ts", []string{"ts"}},
	"jsx":        {"jsx", nil},
	"tsx":        {"tsx", nil},
	"java":       {"java", nil},
	"kotlin":     {"kt", []string{"kt"}},
	"scala":      {"scala", nil},
	"groovy":     {"groovy", nil},
	"cpp":        {"cpp", []string{"c++", "cxx", "hpp"}},
	"c":          {"c", []string{"h"}},
	"go":         {"go", []string{"golang"}},
	"rust":       {"rs", []string{"rs"}},
	"swift":      {"swift", nil},
	"dart":       {"dart", nil},
	"ruby":       {"rb", []string{"rb"}},
	"perl":       {"pl", []string{"pl"}},
	"php":        {"php", nil},
	"r":          {"r", nil},
	"bash":       {"sh", []string{"sh", "shell", "zsh", "console"}},
	"dotenv":     {"env", []string{"env"}},
	"html":       {"html", []string{"htm", "xhtml"}},
	"css":        {"css", nil},
	"xml":        {"xml", []string{"svg"}},
	"json":       {"json", []string{"jsonc"}},
	"yaml":       {"yaml", []string{"yml"}},
	"toml":       {"toml", nil},
	"sql":        {"sql", nil},
	"graphql":    {"graphql", []string{"gql"}},
	"markdown":   {"md", []string{"md"}},
	"dockerfile": {"dockerfile", []string{"docker"}},
	"plaintext":  {"txt", []string{"text", "txt", "plain"}},
}

// aliasIndex 别名到规范名
var aliasIndex = func() map[string]string {
	idx := make(map[string]string)
	for name, lang := range languages {
		idx[name] = name
		for _, alias := range lang.aliases {
			idx[alias] = name
		}
	}
	return idx
}()

// Canonical 返回围栏语言名对应的规范名，未知语言返回 false
func Canonical(tag string) (string, bool) {
	name, ok := aliasIndex[strings.ToLower(strings.TrimSpace(tag))]
	return name, ok
}

// Ext returns the file extension for a fence language, "txt" when unknown.
func Ext(tag string) string {
	name, ok := Canonical(tag)
	if !ok {
		return "txt"
	}
	return languages[name].ext
}

// Filename 返回代表该语言的示例文件名，供按文件名匹配 lexer
func Filename(tag string) string {
	if name, ok := Canonical(tag); ok && name == "dockerfile" {
		return "Dockerfile"
	}
	return "file." + Ext(tag)
}
