/*
 * @Description: 文章正文渲染（Markdown 或 HTML，统一经过 bluemonday 清理）
 */
package parser

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlBlockTags 后端正文以这些标签开头时按 HTML 处理
var htmlBlockTags = map[string]struct{}{
	"p": {}, "div": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"ul": {}, "ol": {}, "figure": {}, "img": {}, "section": {}, "article": {},
	"blockquote": {}, "table": {}, "br": {}, "span": {}, "pre": {},
}

// engine 正文渲染用的 Markdown 转换器和清理策略，首次使用时创建
type engine struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

var contentEngine = sync.OnceValue(func() *engine {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// 原始 HTML 交给 bluemonday 清理
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
	)
	return &engine{md: md, policy: articlePolicy()}
})

func articlePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("table", "thead", "tbody", "tr", "th", "td", "figure", "figcaption")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "figure")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")
	// 站外链接在新窗口打开
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// looksLikeHTML 后端正文既可能是编辑器产出的 HTML，也可能是 Markdown
func looksLikeHTML(content string) bool {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < 3 || trimmed[0] != '<' {
		return false
	}
	end := strings.IndexAny(trimmed, " >/")
	if end < 2 {
		return false
	}
	_, ok := htmlBlockTags[strings.ToLower(trimmed[1:end])]
	return ok
}

// MarkdownToHTML 将 Markdown 转换为清理过的 HTML
func MarkdownToHTML(mdContent string) (string, error) {
	e := contentEngine()
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(mdContent), &buf); err != nil {
		return "", fmt.Errorf("转换 Markdown 失败: %w", err)
	}
	return e.policy.Sanitize(buf.String()), nil
}

// SanitizeHTML 清理 HTML 正文
func SanitizeHTML(htmlContent string) string {
	return contentEngine().policy.Sanitize(htmlContent)
}

// RenderContent 渲染文章正文，返回可以直接放进模板的安全 HTML
func RenderContent(content string) (template.HTML, error) {
	switch {
	case strings.TrimSpace(content) == "":
		return "", nil
	case looksLikeHTML(content):
		return template.HTML(SanitizeHTML(content)), nil
	}
	rendered, err := MarkdownToHTML(content)
	if err != nil {
		return "", err
	}
	return template.HTML(rendered), nil
}
